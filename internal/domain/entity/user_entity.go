package entity

import (
	"time"
)

// User is the account aggregate. Password holds the bcrypt hash.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
