package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordAlphabet excludes visually ambiguous characters (0/O, 1/l/I) since
// one-time passwords are read and retyped by people
const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// OneTimePasswordLength is the length of generated one-time passwords
const OneTimePasswordLength = 16

// GenerateOneTimePassword returns a cryptographically random password for
// admin-created accounts when the admin does not supply one. It is returned
// to the caller exactly once and only its hash is stored.
func GenerateOneTimePassword() (string, error) {
	password := make([]byte, OneTimePasswordLength)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password[i] = passwordAlphabet[n.Int64()]
	}
	return string(password), nil
}
