package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Universal is the single layout every notification renders through.
const Universal = "universal"

// Notification types understood by the universal layout.
const (
	Welcome           = "welcome"
	LoginNotification = "login_notification"
	ForgotPassword    = "forgot_password"
	PasswordChanged   = "password_changed"
	DietReady         = "diet_ready"
	AccountDeleted    = "account_deleted"
)

var subjects = map[string]string{
	Welcome:           "Welcome to %s",
	LoginNotification: "New login to your %s account",
	ForgotPassword:    "Reset your %s password",
	PasswordChanged:   "Your %s password was changed",
	DietReady:         "Your %s diet plan is ready",
	AccountDeleted:    "Your %s account was deleted",
}

// KnownType reports whether typ has a section in the universal layout.
func KnownType(typ string) bool {
	_, ok := subjects[strings.ToLower(typ)]
	return ok
}

// SubjectFor builds the subject line for a notification type.
func SubjectFor(typ, appName string) string {
	if appName == "" {
		appName = "DietIA"
	}
	if f, ok := subjects[strings.ToLower(typ)]; ok {
		return fmt.Sprintf(f, appName)
	}
	return appName + " notification"
}

// EmailData defines the fields the universal layout reads.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	PrivacyURL     string `json:"PrivacyURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`

	ResetURL string `json:"ResetURL"`
	AppURL   string `json:"AppURL"`

	ExpiresAt     time.Time `json:"ExpiresAt"`
	ExpiresAtText string    `json:"ExpiresAtText"`
	IP            string    `json:"IP"`
	Time          string    `json:"Time"`
	TimeAt        time.Time `json:"TimeAt"`
	UserAgent     string    `json:"UserAgent"`
	Location      string    `json:"Location"`

	// Diet plan summary
	PlanURL     string `json:"PlanURL"`
	PlanPreview string `json:"PlanPreview"`
	Calories    int    `json:"Calories"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() || rv.IsZero() {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
		"lines":   func(s string) []string { return strings.Split(strings.TrimSpace(s), "\n") },
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)

	if isHTML {
		tpl, e := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render renders <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (text string, html string, err error) {
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", err
	}
	return text, html, nil
}
