package entity

import "time"

// Audit actions recorded for account activity.
const (
	ActionLogin          = "login"
	ActionLoginFailed    = "login_failed"
	ActionRegister       = "register"
	ActionPasswordChange = "password_change"
	ActionResetInit      = "reset_init"
	ActionResetConfirm   = "reset_confirm"
	ActionLogout         = "logout"
)

type AuditEvent struct {
	ID        int64
	UserID    string // empty for unknown accounts
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
