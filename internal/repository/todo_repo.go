package repository

import (
	"context"
	"errors"
	"fmt"

	"todo_webapp/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool (and by pgxmock in tests)
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const todosTable = "todos"

var todoColumns = []string{"id", "title", "completed", "created_at"}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TodoRepository stores todos in PostgreSQL. id and created_at come from column defaults.
type TodoRepository struct {
	db Querier
}

func NewTodoRepository(db Querier) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	query, args, err := psql.Select(todoColumns...).
		From(todosTable).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list todos: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	res := make([]domain.Todo, 0)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return res, nil
}

func (r *TodoRepository) Create(ctx context.Context, title string) (*domain.Todo, error) {
	query, args, err := psql.Insert(todosTable).
		Columns("title", "completed").
		Values(title, false).
		Suffix("RETURNING id, title, completed, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create todo: %w", err)
	}

	var t domain.Todo
	if err := r.db.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
		return nil, mapError(err, "create todo", uuid.Nil)
	}
	return &t, nil
}

func (r *TodoRepository) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error) {
	query, args, err := psql.Update(todosTable).
		Set("completed", completed).
		Where("id = ?", id).
		Suffix("RETURNING id, title, completed, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update todo: %w", err)
	}

	var t domain.Todo
	if err := r.db.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt); err != nil {
		return nil, mapError(err, "update todo", id)
	}
	return &t, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := psql.Delete(todosTable).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete todo: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "delete todo", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete todo %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *TodoRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// mapError converts pgx errors to domain errors.
// Context errors pass through wrapped.
func mapError(err error, op string, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", op, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" { // check_violation
		return fmt.Errorf("%s %s: %w", op, id, domain.ErrValidation)
	}

	return fmt.Errorf("%s %s: %w", op, id, err)
}
