package posts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mgreer/miniblog/internal/common"
	"github.com/mgreer/miniblog/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+posts\s*\(subject,\s*content,\s*creator_id,\s*creator_name\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*created_at,\s*last_modified\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "last_modified"}).AddRow(int64(7), now, now)
	mock.ExpectQuery(q).
		WithArgs("Hello", "World", int64(1), "alice").
		WillReturnRows(rows)

	p := &models.Post{Subject: "Hello", Content: "World", CreatorID: 1, CreatorName: "alice"}
	got, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 || got.Subject != "Hello" {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*subject`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestRecent_OrderAndLimit(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*subject,\s*content,\s*creator_id,\s*creator_name,\s*created_at,\s*last_modified\s+FROM\s+posts\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s+LIMIT\s+\$1`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "subject", "content", "creator_id", "creator_name", "created_at", "last_modified"}).
		AddRow(int64(3), "c", "3", int64(1), "alice", now, now).
		AddRow(int64(2), "b", "2", int64(1), "alice", now.Add(-time.Minute), now.Add(-time.Minute))
	mock.ExpectQuery(q).
		WithArgs(10).
		WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestUpdateContent_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+posts\s+SET\s+content`).
		WithArgs(int64(99), "x").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateContent(context.Background(), 99, "x")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 99); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
