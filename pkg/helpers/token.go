package helpers

import (
	"crypto/rand"
	"encoding/base64"
)

// Redis keys for short-lived account tokens and per-user caches.

func KeySession(uid string) string          { return "user:session:" + uid }
func KeyResetToken(token string) string     { return "pwd:reset:token:" + token }
func KeyLatestAssessment(uid string) string { return "assessment:latest:" + uid }

// GenToken returns n random bytes encoded for use in URLs.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
