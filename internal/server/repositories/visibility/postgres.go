package visibility

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fingr/internal/dbx"
	"github.com/dmitrijs2005/fingr/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Record(ctx context.Context, subject, observer string, at time.Time) error {
	query :=
		`INSERT INTO visibility_log (subject, observer, checked_at)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, subject, observer, at); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListCheckers(ctx context.Context, username string) ([]models.VisibilityEntry, error) {
	// The id tiebreak keeps entries recorded within one timestamp tick in
	// insertion order.
	query :=
		`SELECT subject, observer, checked_at FROM visibility_log
		 WHERE subject = $1
		 ORDER BY checked_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []models.VisibilityEntry
	for rows.Next() {
		var e models.VisibilityEntry
		if err := rows.Scan(&e.Subject, &e.Observer, &e.At); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}
