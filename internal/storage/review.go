package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kovalyov-valentin/blog-auto-review/internal/model"
)

// Журнал ревью. Сохраняем результат до отправки в чат,
// чтобы он не пропал, если чат недоступен.
type ReviewPostgresStorage struct {
	db *sqlx.DB
}

func NewReviewPostgresStorage(db *sqlx.DB) *ReviewPostgresStorage {
	return &ReviewPostgresStorage{db: db}
}

func (s *ReviewPostgresStorage) Store(ctx context.Context, review model.Review) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var id int64

	row := conn.QueryRowxContext(
		ctx,
		`INSERT INTO reviews (url, review, model, reviewed_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		review.URL,
		review.Text,
		review.Model,
		review.ReviewedAt.UTC(),
	)

	if err := row.Err(); err != nil {
		return 0, err
	}

	if err := row.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}
