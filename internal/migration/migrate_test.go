package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alumnet/alumnet-backend/internal/domain"
)

func TestRun_CreatesSchemaIdempotently(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, Run(db))
	require.NoError(t, Run(db), "second run is a no-op")

	for _, table := range []string{"users", "profiles", "connections", "messages", "jobs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&domain.Message{}, "idx_messages_conversation"))
}
