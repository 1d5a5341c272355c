package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/placename-quiz-bot/internal/infra/postgres"
)

// PreferenceRepository stores user preferences as key-value pairs scoped by user ID.
type PreferenceRepository struct {
	db postgres.DBTX
}

// NewPreferenceRepository creates a new PreferenceRepository with the provided database pool.
func NewPreferenceRepository(db postgres.DBTX) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Set inserts or overwrites the value stored under key for the user.
func (r *PreferenceRepository) Set(ctx context.Context, userID int64, key, value string) error {
	query := `
		INSERT INTO user_preferences (user_id, key, value, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query, userID, key, value)
	if err != nil {
		return fmt.Errorf("set preference: %w", err)
	}

	return nil
}

// GetAll returns every preference stored for the user.
func (r *PreferenceRepository) GetAll(ctx context.Context, userID int64) (map[string]string, error) {
	query := `
		SELECT key, value
		FROM user_preferences
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}

	return out, nil
}

// Reset deletes every preference stored for the user.
func (r *PreferenceRepository) Reset(ctx context.Context, userID int64) error {
	query := `DELETE FROM user_preferences WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}

	return nil
}
