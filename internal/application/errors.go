package application

import (
	"errors"

	"github.com/dietia/dietia-backend/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrResetUnavailable   = errors.New("password reset unavailable")
	ErrPasswordTooLong    = helpers.ErrPasswordTooLong

	ErrInvalidAvatar      = errors.New("avatar must be an image up to 5 MiB")
	ErrStorageUnavailable = errors.New("object storage not configured")

	ErrAssessmentNotFound = errors.New("assessment not found")

	ErrEmptyPrompt     = errors.New("prompt is required")
	ErrPromptTooLong   = errors.New("prompt is too long")
	ErrDietNotFound    = errors.New("diet plan not found")
	ErrDietUnavailable = errors.New("diet generation unavailable")
)
