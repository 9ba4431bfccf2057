package profilecache

import (
	"context"

	"github.com/technoheaven/portal-client/internal/client/models"
)

// Repository is the advisory single-entry cache of the last-known
// authenticated user. It mirrors the session but is never authoritative;
// on mismatch the live profile fetch wins.
type Repository interface {
	// Load returns the cached user, or (nil, nil) if none is stored or the
	// stored record cannot be decoded.
	Load(ctx context.Context) (*models.User, error)

	// Save replaces the cached user.
	Save(ctx context.Context, user *models.User) error

	// Clear drops the cached user.
	Clear(ctx context.Context) error
}
