package profilecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/technoheaven/portal-client/internal/client/models"
	"github.com/technoheaven/portal-client/internal/dbx"
)

const userKey = "auth-user"

// SQLiteRepository stores the cached user as a single JSON-encoded entry in
// a key-value table.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*models.User, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM profile_cache WHERE key = ?`, userKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cached profile: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(value, &user); err != nil {
		// A corrupt cache entry is treated as empty; it is advisory only.
		return nil, nil
	}
	return &user, nil
}

// Save replaces the cached user record. The delete+insert pair runs in a
// transaction so a crash mid-write cannot leave a half-replaced entry.
func (r *SQLiteRepository) Save(ctx context.Context, user *models.User) error {
	value, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode cached profile: %w", err)
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM profile_cache WHERE key = ?`, userKey); err != nil {
			return fmt.Errorf("failed to save cached profile: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO profile_cache (key, value) VALUES (?, ?)`, userKey, value); err != nil {
			return fmt.Errorf("failed to save cached profile: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profile_cache`)
	if err != nil {
		return fmt.Errorf("failed to clear profile cache: %w", err)
	}
	return nil
}
