package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietanh2810/school-portal-api/internal/cache"
)

const revokedSessionPrefix = "session:revoked:"

// SessionService tracks logged-out JWTs until they would have expired anyway.
type SessionService struct {
	store cache.Store
	now   func() time.Time
}

func NewSessionService(store cache.Store) *SessionService {
	return &SessionService{
		store: store,
		now:   time.Now,
	}
}

func (s *SessionService) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.store.Set(ctx, revokedSessionPrefix+tokenID, []byte("1"), ttl); err != nil {
		return fmt.Errorf("s.store.Set -> %w", err)
	}

	return nil
}

func (s *SessionService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	revoked, err := s.store.Exists(ctx, revokedSessionPrefix+tokenID)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		return false, fmt.Errorf("s.store.Exists -> %w", err)
	}

	return revoked, nil
}
