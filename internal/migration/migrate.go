package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/pkg/logger"
)

// Models lists every table owned by the service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Profile{},
		&domain.Connection{},
		&domain.Message{},
		&domain.Job{},
	}
}

// Run creates or updates the schema. AutoMigrate only adds; it never drops columns.
func Run(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}

	// Connect relies on this index to reject the losing opposite-direction request
	if !db.Migrator().HasIndex(&domain.Connection{}, "idx_connections_pair") {
		return fmt.Errorf("connections: unique pair index missing after migration")
	}

	logger.Info("schema up to date (%d tables)", len(Models()))
	return nil
}
