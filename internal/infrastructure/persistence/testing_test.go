package persistence

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slotadmin/backend/internal/infrastructure/persistence/models"
)

var testDBCounter atomic.Int64

// newTestDB opens an isolated in-memory SQLite database with the full schema
// migrated. Each test gets its own named database so state never leaks between
// tests, while cache=shared keeps it alive across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.TenantModel{},
		&models.TimeslotModel{},
		&models.BlockedDateModel{},
		&models.SettingsModel{},
		&models.ReconciliationLogModel{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
