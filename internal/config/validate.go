package config

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/trakaido/trakaido-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if _, err := uuid.Parse(c.Auth.UserID); err != nil {
		return fmt.Errorf("auth.user_id must be a valid UUID: %w", err)
	}

	mode := domain.StorageMode(c.Storage.DefaultMode)
	if !mode.IsValid() {
		return fmt.Errorf("storage.default_mode must be LOCAL or REMOTE (got %q)", c.Storage.DefaultMode)
	}
	if c.Storage.LocalPath == "" {
		return fmt.Errorf("storage.local_path must not be empty")
	}
	if mode == domain.StorageModeRemote && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required when storage.default_mode is REMOTE")
	}

	if err := c.Journey.validate(); err != nil {
		return fmt.Errorf("journey: %w", err)
	}

	return nil
}

func (j *JourneyConfig) validate() error {
	if j.UnseenWeight <= 0 {
		return fmt.Errorf("unseen_weight must be > 0 (got %v)", j.UnseenWeight)
	}
	if j.BaseWeight <= 0 {
		return fmt.Errorf("base_weight must be > 0 (got %v)", j.BaseWeight)
	}
	if j.CorrectDamping <= 1 {
		return fmt.Errorf("correct_damping must be > 1 (got %v)", j.CorrectDamping)
	}
	if j.MinWeight < 0 {
		return fmt.Errorf("min_weight must be >= 0 (got %v)", j.MinWeight)
	}
	if j.RecencyWindow <= 0 {
		return fmt.Errorf("recency_window must be > 0 (got %v)", j.RecencyWindow)
	}
	return nil
}

// LearnerID returns the configured single-learner identity. Validate
// guarantees the value parses.
func (c *AuthConfig) LearnerID() uuid.UUID {
	return uuid.MustParse(c.UserID)
}
