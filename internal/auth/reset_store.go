package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"myblog/internal/cache"
)

const (
	resetTokenKeyPrefix = "password_reset:"
	// ResetTokenExpiry bounds how long a mailed reset link stays valid.
	ResetTokenExpiry = time.Hour
)

// ResetTokenStoreInterface issues and consumes single-use password reset tokens.
type ResetTokenStoreInterface interface {
	Generate(ctx context.Context, userID uuid.UUID) (string, error)
	Consume(ctx context.Context, userID uuid.UUID, token string) bool
}

// ResetTokenStore keeps reset tokens in Redis, one per user, with TTL.
// Requesting a new token replaces any outstanding one.
type ResetTokenStore struct {
	cache *cache.Client
}

var _ ResetTokenStoreInterface = (*ResetTokenStore)(nil)

// NewResetTokenStore creates a new reset token store.
func NewResetTokenStore(cache *cache.Client) *ResetTokenStore {
	return &ResetTokenStore{cache: cache}
}

// Generate creates a reset token for the user and stores it.
func (s *ResetTokenStore) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.New().String()
	key := resetTokenKeyPrefix + userID.String()
	if err := s.cache.Set(ctx, key, []byte(token), ResetTokenExpiry); err != nil {
		return "", err
	}
	return token, nil
}

// Consume validates the token against the stored one and deletes it on
// success. A missing, expired or mismatched token reports false.
func (s *ResetTokenStore) Consume(ctx context.Context, userID uuid.UUID, token string) bool {
	key := resetTokenKeyPrefix + userID.String()
	stored, err := s.cache.Get(ctx, key)
	if err != nil || stored == nil {
		return false
	}
	if string(stored) != token {
		return false
	}
	_ = s.cache.Delete(ctx, key)
	return true
}
