package services

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/swapshelf/bookswap/config"
	"github.com/swapshelf/bookswap/db"
	"github.com/swapshelf/bookswap/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Env:             "test",
		SessionSecret:   "test-secret",
		SessionTTLHours: 1,
	}
}

func newTestDB(t *testing.T) *db.GormDB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bookswap_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return &db.GormDB{DB: gormDB}
}

func signupTestUser(t *testing.T, svc AuthService, username string) *models.User {
	t.Helper()
	user, err := svc.SignupUser(&models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "reading1",
		Confirm:  "reading1",
	})
	require.NoError(t, err)
	return user
}
