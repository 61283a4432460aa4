package presence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fingr/internal/common"
	"github.com/dmitrijs2005/fingr/internal/dbx"
	"github.com/dmitrijs2005/fingr/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetStatus(ctx context.Context, username string, now time.Time) (models.Status, error) {
	query :=
		`SELECT online, expires_at, message FROM presence
		 WHERE username = $1
		 `

	p := models.Presence{Username: username}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&p.Online, &p.ExpiresAt, &p.Message)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Status{}, nil
		}
		return models.Status{}, fmt.Errorf("db error: %w", err)
	}

	return models.Status{Online: p.EffectiveOnline(now), Message: p.Message}, nil
}

func (r *PostgresRepository) SetOnline(ctx context.Context, username string, now time.Time, duration time.Duration, message *string) error {
	query :=
		`INSERT INTO presence (username, online, expires_at, message)
		 VALUES ($1, TRUE, $2, COALESCE($3, ''))
		 ON CONFLICT (username) DO UPDATE
		 SET online = TRUE, expires_at = EXCLUDED.expires_at, message = COALESCE($3, presence.message)
		 `

	if _, err := r.db.ExecContext(ctx, query, username, now.Add(duration), message); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Bump(ctx context.Context, username string, now time.Time, duration time.Duration) error {
	// The conditional update makes the refresh atomic: a bump racing an
	// expiry cannot resurrect an already-lapsed session.
	query :=
		`UPDATE presence SET expires_at = $2
		 WHERE username = $1 AND online AND expires_at > $3
		 `

	result, err := r.db.ExecContext(ctx, query, username, now.Add(duration), now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotOnline
	}

	return nil
}

func (r *PostgresRepository) SetOffline(ctx context.Context, username string) error {
	query :=
		`UPDATE presence SET online = FALSE
		 WHERE username = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListOnline(ctx context.Context, now time.Time) ([]string, error) {
	query :=
		`SELECT username FROM presence
		 WHERE online AND expires_at > $1
		 ORDER BY username
		 `

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return usernames, nil
}
