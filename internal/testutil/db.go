// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"anoa.com/kulupportal/internal/bootstrap"
	"anoa.com/kulupportal/internal/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a shared-cache memory database lives as long as one connection does
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, bootstrap.Migrate(db), "migrate")
	return db
}

// CreateUser inserts a user with the given role and status.
func CreateUser(t *testing.T, db *gorm.DB, name string, role entity.Role, status entity.Status) *entity.User {
	t.Helper()
	u := &entity.User{
		ID:     uuid.New(),
		Email:  strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@uni.edu.tr",
		Name:   name,
		Role:   role,
		Status: status,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
