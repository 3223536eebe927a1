// Package security provides one-way password hashing for the platform
// services. Hashes are Argon2id in encoded form, so the parameters travel
// with the hash and can be tightened without invalidating stored credentials.
package security

import (
	"github.com/matthewhartstonge/argon2"
)

var config = argon2.DefaultConfig()

// HashPassword derives an encoded Argon2id hash from the plain password.
func HashPassword(password string) (string, error) {
	encoded, err := config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether the plain password matches the encoded hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
