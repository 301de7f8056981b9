package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"todo_webapp/internal/config"
	"todo_webapp/internal/db"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/migrations"
)

// Lists pending migrations for the configured driver, or applies them with -apply.
func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	ctx := context.Background()

	var sqlDB *sql.DB
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connect", "error", err)
		}
		defer pool.Close()
		sqlDB = db.SQLDB(pool)
	case config.DriverSQLite:
		d, err := db.OpenSQLite(ctx, cfg.Database.SQLitePath)
		if err != nil {
			logger.Fatal("open sqlite", "error", err)
		}
		sqlDB = d
	}
	defer sqlDB.Close()

	pending, err := migrations.Pending(ctx, sqlDB, cfg.Database.Driver)
	if err != nil {
		logger.Fatal("read migration status", "error", err)
	}
	if !*apply {
		for _, name := range pending {
			fmt.Println(name)
		}
		if len(pending) == 0 {
			fmt.Fprintln(os.Stderr, "no pending migrations")
		}
		return
	}

	if err := migrations.Up(ctx, sqlDB, cfg.Database.Driver); err != nil {
		logger.Fatal("apply migrations", "error", err)
	}
	fmt.Printf("applied %d migration(s)\n", len(pending))
}
