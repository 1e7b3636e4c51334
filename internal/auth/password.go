package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

// HashPassword produces a bcrypt hash for storage in configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a candidate password against the configured bcrypt
// hash. A mismatch maps to domain.ErrUnauthorized.
func VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("verify password: %w", domain.ErrUnauthorized)
	}
	return nil
}
