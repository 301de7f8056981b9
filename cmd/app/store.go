package main

import (
	"context"
	"database/sql"
	"fmt"

	"todo_webapp/internal/config"
	"todo_webapp/internal/db"
	"todo_webapp/internal/domain"
	"todo_webapp/internal/migrations"
	"todo_webapp/internal/repository"

	"github.com/google/uuid"
)

// todoStore is a todo repository that also backs the health checks
type todoStore interface {
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, title string) (*domain.Todo, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
	Close()
}

type pgStore struct {
	*repository.TodoRepository
	close func()
}

func (s pgStore) Close() { s.close() }

type sqliteStore struct {
	*repository.SQLiteTodoRepository
	db *sql.DB
}

func (s sqliteStore) Close() { _ = s.db.Close() }

// openStore connects to the configured driver and applies migrations when enabled
func openStore(ctx context.Context, cfg config.DatabaseConfig) (todoStore, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			sqlDB := db.SQLDB(pool)
			err := migrations.Up(ctx, sqlDB, migrations.Postgres)
			_ = sqlDB.Close()
			if err != nil {
				pool.Close()
				return nil, err
			}
		}
		return pgStore{TodoRepository: repository.NewTodoRepository(pool), close: pool.Close}, nil

	case config.DriverSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := migrations.Up(ctx, sqlDB, migrations.SQLite); err != nil {
				_ = sqlDB.Close()
				return nil, err
			}
		}
		return sqliteStore{SQLiteTodoRepository: repository.NewSQLiteTodoRepository(sqlDB), db: sqlDB}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
