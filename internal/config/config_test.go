package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SQLiteDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CONFIG_PATH", "")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "todos.sqlite", cfg.Database.SQLitePath)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "todos:events", cfg.Redis.Channel)
	assert.True(t, cfg.Database.MigrateOnStart)
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_PATH", "")

	_, err := load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "app_port: \"9000\"\ndatabase:\n  driver: sqlite\n  sqlite_path: /tmp/a.sqlite\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("APP_PORT", "9100")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.AppPort)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/a.sqlite", cfg.Database.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "postgres ok",
			cfg:  Config{AppPort: "8080", Database: DatabaseConfig{Driver: DriverPostgres, URL: "postgres://x", MaxConns: 4, MinConns: 1}},
		},
		{
			name:    "unknown driver",
			cfg:     Config{AppPort: "8080", Database: DatabaseConfig{Driver: "mysql"}},
			wantErr: true,
		},
		{
			name:    "min above max",
			cfg:     Config{AppPort: "8080", Database: DatabaseConfig{Driver: DriverSQLite, SQLitePath: "x", MaxConns: 1, MinConns: 2}},
			wantErr: true,
		},
		{
			name:    "empty port",
			cfg:     Config{Database: DatabaseConfig{Driver: DriverSQLite, SQLitePath: "x"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
