package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/einadid/microtask-server/database"
	"github.com/einadid/microtask-server/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string, coin int64) models.User {
	t.Helper()
	u := models.User{Name: email, Email: email, Role: role, Coin: coin}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func balance(t *testing.T, db *gorm.DB, id uint) int64 {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, id).Error)
	return u.Coin
}

func reload[T any](t *testing.T, db *gorm.DB, id uint) T {
	t.Helper()
	var v T
	require.NoError(t, db.First(&v, id).Error)
	return v
}

func journal(t *testing.T, db *gorm.DB, userID uint) []models.CoinTransaction {
	t.Helper()
	var rows []models.CoinTransaction
	require.NoError(t, db.Where("user_id = ?", userID).Order("id ASC").Find(&rows).Error)
	return rows
}
