package common

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MinSecretLength is the shortest cookie signing secret accepted.
const MinSecretLength = 32

// GenerateSecureRandomString returns a url-safe random string of length
// characters.
func GenerateSecureRandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", length)
	}

	bytes := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(bytes)[:length], nil
}
