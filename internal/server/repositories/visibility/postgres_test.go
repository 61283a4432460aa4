package visibility

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	recordQuery = `(?s)^INSERT\s+INTO\s+visibility_log\s*\(subject,\s*observer,\s*checked_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`
	listQuery   = `(?s)^SELECT\s+subject,\s*observer,\s*checked_at\s+FROM\s+visibility_log\s+WHERE\s+subject\s*=\s*\$1\s+ORDER\s+BY\s+checked_at,\s*id\s*$`
)

var at = time.Date(2025, 4, 1, 12, 0, 20, 0, time.UTC)

func TestRecord_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(recordQuery).
		WithArgs("alice", "bob", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Record(context.Background(), "alice", "bob", at); err != nil {
		t.Fatalf("Record error: %v", err)
	}
}

func TestRecord_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(recordQuery).
		WithArgs("alice", "bob", at).
		WillReturnError(errors.New("db down"))

	err := repo.Record(context.Background(), "alice", "bob", at)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListCheckers_OldestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"subject", "observer", "checked_at"}).
		AddRow("alice", "bob", at).
		AddRow("alice", "carol", at.Add(time.Minute))
	mock.ExpectQuery(listQuery).WithArgs("alice").WillReturnRows(rows)

	got, err := repo.ListCheckers(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListCheckers error: %v", err)
	}
	if len(got) != 2 || got[0].Observer != "bob" || got[1].Observer != "carol" {
		t.Fatalf("unexpected entries: %+v", got)
	}
}

func TestListCheckers_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"subject", "observer", "checked_at"})
	mock.ExpectQuery(listQuery).WithArgs("ghost").WillReturnRows(rows)

	got, err := repo.ListCheckers(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("ListCheckers error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}
