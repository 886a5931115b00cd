package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/sentiment-service/internal/model"
)

// QueryRepository defines the interface for query-log persistence.
// Go interfaces are implicit — any struct that has these methods satisfies it.
// This makes testing easy: you can create a mock that implements this interface
// without importing anything from the real implementation.
type QueryRepository interface {
	Create(ctx context.Context, record *model.QueryRecord) error
	Count(ctx context.Context) (int64, error)
	CountBySuccess(ctx context.Context, success bool) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.QueryRecord, error)
}

// sqliteQueryRepository is the SQLite implementation of QueryRepository.
// The struct is unexported (lowercase first letter) — only the interface is public.
// This is a common Go pattern: export the interface, hide the implementation.
type sqliteQueryRepository struct {
	db *sqlx.DB
}

// NewQueryRepository creates a new SQLite-backed QueryRepository.
func NewQueryRepository(db *sqlx.DB) QueryRepository {
	return &sqliteQueryRepository{db: db}
}

func (r *sqliteQueryRepository) Create(ctx context.Context, record *model.QueryRecord) error {
	// NamedExecContext uses the struct's `db:` tags to map fields to :named placeholders.
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO sentiment_queries (ticker, provider, model, success, duration_ms, error_message)
		VALUES (:ticker, :provider, :model, :success, :duration_ms, :error_message)
	`, record)
	if err != nil {
		return fmt.Errorf("creating query record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	record.ID = id
	return nil
}

func (r *sqliteQueryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sentiment_queries")
	return count, err
}

func (r *sqliteQueryRepository) CountBySuccess(ctx context.Context, success bool) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM sentiment_queries WHERE success = ?", success)
	return count, err
}

func (r *sqliteQueryRepository) ListRecent(ctx context.Context, limit int) ([]model.QueryRecord, error) {
	var records []model.QueryRecord
	err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM sentiment_queries ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent queries: %w", err)
	}
	return records, nil
}
