package repository

import (
	"testing"
	"time"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Profile{},
		&domain.Connection{},
		&domain.Message{},
		&domain.Job{},
	))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, p *domain.Profile) *domain.Profile {
	t.Helper()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Role == "" {
		p.Role = domain.RoleAlumni
	}
	if p.EmailVisibility == "" {
		p.EmailVisibility = domain.VisibilityAlumni
	}
	if p.PhoneVisibility == "" {
		p.PhoneVisibility = domain.VisibilityAlumni
	}
	if p.LocationVisibility == "" {
		p.LocationVisibility = domain.VisibilityAlumni
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedConnection(t *testing.T, db *gorm.DB, requester, addressee string, status domain.ConnectionStatus) *domain.Connection {
	t.Helper()
	c := domain.NewConnection(uuid.NewString(), requester, addressee)
	c.Status = status
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedMessage(t *testing.T, db *gorm.DB, connectionID, senderID, content string, at time.Time) *domain.Message {
	t.Helper()
	m := &domain.Message{
		ID:           uuid.Must(uuid.NewV7()).String(),
		ConnectionID: connectionID,
		SenderID:     senderID,
		Content:      content,
		CreatedAt:    at,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}
