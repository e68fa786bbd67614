package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// BugHistoryRepository stores append-only audit entries.
type BugHistoryRepository interface {
	Create(ctx context.Context, entry *domain.BugHistory) error
	ListByBug(ctx context.Context, bugID int64) ([]domain.BugHistory, error)
}

type bugHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewBugHistoryRepository builds repository.
func NewBugHistoryRepository(pool *pgxpool.Pool) BugHistoryRepository {
	return &bugHistoryRepository{pool: pool}
}

func (r *bugHistoryRepository) Create(ctx context.Context, entry *domain.BugHistory) error {
	const query = `
        INSERT INTO bug_history (bug_id, changed_field, old_value, new_value, changed_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, changed_at`
	return r.pool.QueryRow(ctx, query,
		entry.BugID,
		entry.ChangedField,
		entry.OldValue,
		entry.NewValue,
		entry.ChangedBy,
	).Scan(&entry.ID, &entry.ChangedAt)
}

func (r *bugHistoryRepository) ListByBug(ctx context.Context, bugID int64) ([]domain.BugHistory, error) {
	const query = `
        SELECT h.id, h.bug_id, h.changed_field, h.old_value, h.new_value,
               h.changed_by, h.changed_at, u.username
        FROM bug_history h
        JOIN users u ON h.changed_by = u.id
        WHERE h.bug_id=$1
        ORDER BY h.changed_at DESC, h.id DESC`
	rows, err := r.pool.Query(ctx, query, bugID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BugHistory
	for rows.Next() {
		var entry domain.BugHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.BugID,
			&entry.ChangedField,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ChangedBy,
			&entry.ChangedAt,
			&entry.ChangedByUsername,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
