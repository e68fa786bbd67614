package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bug-tracker/internal/domain"
)

// BugFilter captures listing parameters. Nil fields are not applied.
type BugFilter struct {
	Status     *domain.BugStatus
	Priority   *domain.BugPriority
	AssignedTo *int64
	SearchTerm *string
}

// BugUpdate describes a partial update. Nil pointer fields are untouched;
// assigned_to carries an explicit set flag because nil is a legal new value.
type BugUpdate struct {
	Title         *string
	Description   *string
	Status        *domain.BugStatus
	Priority      *domain.BugPriority
	SetAssignedTo bool
	AssignedTo    *int64
}

// Empty reports whether the update carries no recognized field.
func (u BugUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && !u.SetAssignedTo
}

// BugRepository encapsulates bug persistence. Reads are joined with creator
// and assignee usernames.
type BugRepository interface {
	Create(ctx context.Context, bug *domain.Bug) error
	GetByID(ctx context.Context, id int64) (*domain.Bug, error)
	List(ctx context.Context, filter BugFilter) ([]domain.Bug, error)
	Update(ctx context.Context, id int64, update BugUpdate) error
	Delete(ctx context.Context, id int64) error
}

type bugRepository struct {
	pool *pgxpool.Pool
}

// NewBugRepository instantiates repository.
func NewBugRepository(pool *pgxpool.Pool) BugRepository {
	return &bugRepository{pool: pool}
}

func (r *bugRepository) Create(ctx context.Context, bug *domain.Bug) error {
	const query = `
        INSERT INTO bugs (title, description, status, priority, created_by, assigned_to)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		bug.Title,
		bug.Description,
		bug.Status,
		bug.Priority,
		bug.CreatedBy,
		bug.AssignedTo,
	).Scan(&bug.ID, &bug.CreatedAt, &bug.UpdatedAt)
}

const bugSelect = `
        SELECT b.id, b.title, b.description, b.status, b.priority,
               b.created_by, b.assigned_to, b.created_at, b.updated_at,
               uc.username, ua.username
        FROM bugs b
        LEFT JOIN users uc ON b.created_by = uc.id
        LEFT JOIN users ua ON b.assigned_to = ua.id`

func (r *bugRepository) GetByID(ctx context.Context, id int64) (*domain.Bug, error) {
	query := bugSelect + ` WHERE b.id=$1`
	var bug domain.Bug
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&bug.ID,
		&bug.Title,
		&bug.Description,
		&bug.Status,
		&bug.Priority,
		&bug.CreatedBy,
		&bug.AssignedTo,
		&bug.CreatedAt,
		&bug.UpdatedAt,
		&bug.CreatedByUsername,
		&bug.AssignedToUsername,
	); err != nil {
		return nil, err
	}
	return &bug, nil
}

func (r *bugRepository) List(ctx context.Context, filter BugFilter) ([]domain.Bug, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("b.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("b.priority=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("b.assigned_to=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(b.title) LIKE %s OR LOWER(b.description) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY b.updated_at DESC`,
		bugSelect, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBugs(rows)
}

func (r *bugRepository) Update(ctx context.Context, id int64, update BugUpdate) error {
	if update.Empty() {
		return nil
	}

	sets := []string{}
	args := []any{}

	if update.Title != nil {
		args = append(args, *update.Title)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		sets = append(sets, fmt.Sprintf("description=$%d", len(args)))
	}
	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.Priority != nil {
		args = append(args, *update.Priority)
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	if update.SetAssignedTo {
		args = append(args, update.AssignedTo)
		sets = append(sets, fmt.Sprintf("assigned_to=$%d", len(args)))
	}

	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE bugs SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bugRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM bugs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanBugs(rows pgx.Rows) ([]domain.Bug, error) {
	var result []domain.Bug
	for rows.Next() {
		var bug domain.Bug
		if err := rows.Scan(
			&bug.ID,
			&bug.Title,
			&bug.Description,
			&bug.Status,
			&bug.Priority,
			&bug.CreatedBy,
			&bug.AssignedTo,
			&bug.CreatedAt,
			&bug.UpdatedAt,
			&bug.CreatedByUsername,
			&bug.AssignedToUsername,
		); err != nil {
			return nil, err
		}
		result = append(result, bug)
	}
	return result, rows.Err()
}
