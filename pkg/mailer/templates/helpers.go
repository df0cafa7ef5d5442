package templates

import (
	"context"
	"strings"
	"time"

	"github.com/dietia/dietia-backend/config"
)

type Option func(*EmailData)

const timeLayout = "02 January 2006, 15:04"

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format(timeLayout)
	}
}
func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithLocation(loc string) Option {
	return func(d *EmailData) {
		if s := strings.TrimSpace(loc); s != "" {
			d.Location = s
		}
	}
}

func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			WithLocation(FormatGeo(g))(d)
		}
	}
}

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format(timeLayout)
	}
}

// WithPlan attaches a diet plan link, the first lines of the plan and the
// daily calorie target.
func WithPlan(url, content string, kcal int) Option {
	return func(d *EmailData) {
		d.PlanURL = url
		d.PlanPreview = Preview(content, 12)
		d.Calories = kcal
	}
}

// Preview keeps at most n non-empty lines of s.
func Preview(s string, n int) string {
	out := make([]string, 0, n)
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(out) == n {
			out = append(out, "...")
			break
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// NewEmailData fills the fields shared by every notification from cfg,
// then applies opts.
func NewEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
		UnsubscribeURL: cfg.UnsubscribeURL,

		ResetURL: cfg.ResetPasswordURL,
		AppURL:   cfg.AppURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
