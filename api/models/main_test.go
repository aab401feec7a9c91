package models_test

import (
	"testing"

	"Warbler/api/database"
	"Warbler/api/models"
	"Warbler/api/security"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	security.Cost = bcrypt.MinCost
	m.Run()
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func signup(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user, err := models.Signup(db, models.SignupParams{
		Username: username,
		Email:    username + "@test.com",
		Password: "password",
	})
	require.NoError(t, err)
	return user
}

func post(t *testing.T, db *gorm.DB, user *models.User, text string) *models.Message {
	t.Helper()

	msg := &models.Message{Text: text, UserID: user.ID}
	require.NoError(t, msg.Create(db))
	return msg
}
