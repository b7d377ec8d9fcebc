package db

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"movie_backend/internal/platform/config"
)

type widget struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		assert.Equal(t, "test-dsn", dsn)
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 2, attempts)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	refused := errors.New("connection refused")
	opener := func(dsn string) (*gorm.DB, error) {
		return nil, refused
	}

	_, err := ConnectWithRetry("test-dsn", 0, opener)

	assert.ErrorIs(t, err, refused)
}

func TestOpen_SQLiteWithMigrations(t *testing.T) {
	t.Parallel()

	cfg := config.DatabaseConfig{
		Driver:        "sqlite",
		SQLitePath:    filepath.Join(t.TempDir(), "test.db"),
		RunMigrations: true,
	}

	db, err := Open(cfg, &widget{})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&widget{}))
	require.NoError(t, db.Create(&widget{Code: "a"}).Error)
}

func TestOpen_SkipsMigrations(t *testing.T) {
	t.Parallel()

	cfg := config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := Open(cfg, &widget{})
	require.NoError(t, err)

	assert.False(t, db.Migrator().HasTable(&widget{}))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	t.Run("sqlite unique violation is translated", func(t *testing.T) {
		db, err := SQLiteOpener(":memory:")
		require.NoError(t, err)
		require.NoError(t, limitSQLiteConns(db))
		require.NoError(t, db.AutoMigrate(&widget{}))
		require.NoError(t, db.Create(&widget{Code: "dup"}).Error)

		err = db.Create(&widget{Code: "dup"}).Error

		assert.True(t, IsDuplicateKey(err), "got %v", err)
	})

	t.Run("postgres unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
		assert.True(t, IsDuplicateKey(err))
	})

	t.Run("other postgres error", func(t *testing.T) {
		assert.False(t, IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	})

	t.Run("unrelated error", func(t *testing.T) {
		assert.False(t, IsDuplicateKey(errors.New("boom")))
		assert.False(t, IsDuplicateKey(nil))
	})
}
