// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shop-microservices/internal/core/database"
)

// NewMockDB returns a postgres-flavoured *gorm.DB backed by sqlmock.
// Expectations are checked on cleanup.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.Opts{
		LogLevel: "silent",
		Logger:   zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("sql expectations: %v", err)
		}
		_ = sqlDB.Close()
	})
	return db, mock
}
