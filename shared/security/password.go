package security

import (
	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

var argon = argon2.DefaultConfig()

// HashPassword hashes a plaintext password with argon2id.
func HashPassword(password string) (string, error) {
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded argon2 hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}

// HashIfChanged re-hashes only when the plaintext actually changed. It is the
// single entry point for password mutation: update paths pass the stored hash
// and the candidate plaintext, and get back either the untouched hash or a
// fresh one. An empty candidate keeps the current hash.
func HashIfChanged(currentHash, newPassword string) (string, error) {
	if newPassword == "" {
		return currentHash, nil
	}

	if currentHash != "" {
		if ok, err := VerifyPassword(newPassword, currentHash); err == nil && ok {
			return currentHash, nil
		}
	}

	return HashPassword(newPassword)
}

// HashOTP hashes a one-time code with bcrypt at cost 10.
func HashOTP(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyOTP reports whether code matches the stored bcrypt hash.
func VerifyOTP(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
