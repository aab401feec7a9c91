package database

import (
	"context"
	"testing"

	"Warbler/api/config"
	"Warbler/api/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteURLAndMigrate(t *testing.T) {
	db, err := Open(config.DatabaseConfig{URL: "sqlite::memory:"}, false, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []interface{}{&models.User{}, &models.Message{}, &models.Follow{}, &models.Like{}, &models.ResetPassword{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpenSQLiteEnforcesForeignKeys(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)
}

func TestResetRecreatesSchema(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	_, err = models.Signup(db, models.SignupParams{Username: "u", Email: "u@test.com", Password: "password"})
	require.NoError(t, err)

	require.NoError(t, Reset(db))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
