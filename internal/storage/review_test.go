package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*ReviewPostgresStorage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewReviewPostgresStorage(sqlx.NewDb(db, "postgres")), mock
}

func TestStore(t *testing.T) {
	s, mock := newMock(t)
	at := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews (url, review, model, reviewed_at) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs("https://example.com/post", "問題ありません", "gemini-1.5-flash-001", at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := s.Store(context.Background(), model.Review{
		URL:        "https://example.com/post",
		Text:       "問題ありません",
		Model:      "gemini-1.5-flash-001",
		ReviewedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Error(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reviews`)).
		WillReturnError(errors.New("relation \"reviews\" does not exist"))

	_, err := s.Store(context.Background(), model.Review{URL: "https://example.com/post", ReviewedAt: time.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reviews")
	assert.NoError(t, mock.ExpectationsWereMet())
}
