package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/fingr/internal/server/migrations"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/presence"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/visibility"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories bound to
// one connection pool and exposes the goose migration hook.
type PostgresRepositoryManager struct {
	db         *sql.DB
	accounts   accounts.Repository
	presence   presence.Repository
	visibility visibility.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &PostgresRepositoryManager{
		db:         db,
		accounts:   accounts.NewPostgresRepository(db),
		presence:   presence.NewPostgresRepository(db),
		visibility: visibility.NewPostgresRepository(db),
	}, nil
}

// RunMigrations sets up goose with the embedded migrations and applies
// them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *PostgresRepositoryManager) Presence() presence.Repository {
	return m.presence
}

func (m *PostgresRepositoryManager) Visibility() visibility.Repository {
	return m.visibility
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

// SetPresence swaps the presence backend, e.g. for the Redis variant.
func (m *PostgresRepositoryManager) SetPresence(repo presence.Repository) {
	m.presence = repo
}
