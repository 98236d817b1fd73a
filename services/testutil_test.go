package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Chucky-Funds/earnova/model"
)

func newTestStore(t *testing.T) *StoreService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.StoreEntry{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return &StoreService{db: db}
}

func newTestSession() *SessionService {
	return &SessionService{values: make(map[string]interface{})}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
