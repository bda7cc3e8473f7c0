package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecureCode returns a URL-safe random secret with n bytes of
// entropy, used for API keys and webhook secrets at provisioning time.
func GenerateSecureCode(n int) (string, error) {
	if n <= 0 {
		n = 32
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secure code: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
