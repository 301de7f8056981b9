package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo_webapp/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// SQLiteTodoRepository stores todos in SQLite. created_at is kept as unix nanoseconds,
// ids are generated on insert.
type SQLiteTodoRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteTodoRepository(db *sql.DB) *SQLiteTodoRepository {
	return &SQLiteTodoRepository{db: db, now: time.Now}
}

func (r *SQLiteTodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	query, args, err := sq.Select(todoColumns...).
		From(todosTable).
		OrderBy("created_at DESC", "rowid DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list todos: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	res := make([]domain.Todo, 0)
	for rows.Next() {
		t, err := scanSQLiteTodo(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return res, nil
}

func (r *SQLiteTodoRepository) Create(ctx context.Context, title string) (*domain.Todo, error) {
	t := domain.Todo{
		ID:        uuid.New(),
		Title:     title,
		Completed: false,
		CreatedAt: time.Unix(0, r.now().UnixNano()).UTC(),
	}

	query, args, err := sq.Insert(todosTable).
		Columns(todoColumns...).
		Values(t.ID.String(), t.Title, 0, t.CreatedAt.UnixNano()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create todo: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &t, nil
}

func (r *SQLiteTodoRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error) {
	query, args, err := sq.Update(todosTable).
		Set("completed", boolToInt(completed)).
		Where("id = ?", id.String()).
		Suffix("RETURNING id, title, completed, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update todo: %w", err)
	}

	t, err := scanSQLiteTodo(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update todo %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update todo %s: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteTodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := sq.Delete(todosTable).
		Where("id = ?", id.String()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete todo: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete todo %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *SQLiteTodoRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteTodo(s rowScanner) (*domain.Todo, error) {
	var (
		t         domain.Todo
		completed int64
		createdAt int64
	)
	if err := s.Scan(&t.ID, &t.Title, &completed, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	t.Completed = completed != 0
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
