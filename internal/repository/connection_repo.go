package repository

import (
	"context"
	"time"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"gorm.io/gorm"
)

// ConnectionRepository connection data access interface
type ConnectionRepository interface {
	Create(ctx context.Context, conn *domain.Connection) error
	FindByID(ctx context.Context, id string) (*domain.Connection, error)
	FindBetween(ctx context.Context, userA, userB string) (*domain.Connection, error)
	UpdateStatus(ctx context.Context, id, addresseeID string, from, to domain.ConnectionStatus) (int64, error)
	Reopen(ctx context.Context, conn *domain.Connection) (int64, error)
	Touch(ctx context.Context, id string, at time.Time) error
	DeleteBetween(ctx context.Context, userA, userB string) (int64, error)
	ListAccepted(ctx context.Context, userID string) ([]*domain.ConnectionRow, error)
	ListPendingFor(ctx context.Context, addresseeID string) ([]*domain.ConnectionRow, error)
	CountAccepted(ctx context.Context, userID string) (int64, error)
	CountPendingFor(ctx context.Context, addresseeID string) (int64, error)
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

const pairPredicate = "(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)"

// Create inserts a new row. A second row for the same pair fails with
// gorm.ErrDuplicatedKey through the pair_low/pair_high unique index.
func (r *connectionRepository) Create(ctx context.Context, conn *domain.Connection) error {
	conn.PairLow, conn.PairHigh = domain.PairKey(conn.RequesterID, conn.AddresseeID)
	return r.db.WithContext(ctx).Create(conn).Error
}

// FindByID finds a connection by id
func (r *connectionRepository) FindByID(ctx context.Context, id string) (*domain.Connection, error) {
	var conn domain.Connection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// FindBetween finds the row for the pair in either ordering
func (r *connectionRepository) FindBetween(ctx context.Context, userA, userB string) (*domain.Connection, error) {
	var conn domain.Connection
	err := r.db.WithContext(ctx).
		Where(pairPredicate, userA, userB, userB, userA).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// UpdateStatus moves a row from one status to another.
// The update only applies while the row is still in from and addressed to addresseeID.
func (r *connectionRepository) UpdateStatus(ctx context.Context, id, addresseeID string, from, to domain.ConnectionStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Connection{}).
		Where("id = ? AND addressee_id = ? AND status = ?", id, addresseeID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// Reopen rewrites a rejected row as a fresh pending request
func (r *connectionRepository) Reopen(ctx context.Context, conn *domain.Connection) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&domain.Connection{}).
		Where("id = ? AND status = ?", conn.ID, domain.ConnectionRejected).
		Updates(map[string]interface{}{
			"requester_id": conn.RequesterID,
			"addressee_id": conn.AddresseeID,
			"status":       domain.ConnectionPending,
			"created_at":   now,
			"updated_at":   now,
		})
	if result.Error == nil && result.RowsAffected > 0 {
		conn.CreatedAt, conn.UpdatedAt = now, now
	}
	return result.RowsAffected, result.Error
}

// Touch bumps updated_at so the conversation sorts as recently active
func (r *connectionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Connection{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}

// DeleteBetween removes a pending or accepted row for the pair in either ordering
func (r *connectionRepository) DeleteBetween(ctx context.Context, userA, userB string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("("+pairPredicate+") AND status IN ?", userA, userB, userB, userA,
			[]domain.ConnectionStatus{domain.ConnectionPending, domain.ConnectionAccepted}).
		Delete(&domain.Connection{})
	return result.RowsAffected, result.Error
}

func (r *connectionRepository) joinedRows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("connections AS c").
		Select(`c.id, c.requester_id, c.addressee_id, c.status, c.created_at, c.updated_at,
			COALESCE(rp.first_name, '') AS requester_first_name,
			COALESCE(rp.last_name, '') AS requester_last_name,
			COALESCE(rp.photo_url, '') AS requester_photo_url,
			COALESCE(ap.first_name, '') AS addressee_first_name,
			COALESCE(ap.last_name, '') AS addressee_last_name,
			COALESCE(ap.photo_url, '') AS addressee_photo_url`).
		Joins("LEFT JOIN profiles AS rp ON rp.id = c.requester_id").
		Joins("LEFT JOIN profiles AS ap ON ap.id = c.addressee_id")
}

// ListAccepted returns the user's accepted connections, most recently updated first
func (r *connectionRepository) ListAccepted(ctx context.Context, userID string) ([]*domain.ConnectionRow, error) {
	var rows []*domain.ConnectionRow
	err := r.joinedRows(ctx).
		Where("c.status = ? AND (c.requester_id = ? OR c.addressee_id = ?)", domain.ConnectionAccepted, userID, userID).
		Order("c.updated_at DESC").Order("c.id ASC").
		Scan(&rows).Error
	return rows, err
}

// ListPendingFor returns pending requests addressed to the user, newest first
func (r *connectionRepository) ListPendingFor(ctx context.Context, addresseeID string) ([]*domain.ConnectionRow, error) {
	var rows []*domain.ConnectionRow
	err := r.joinedRows(ctx).
		Where("c.status = ? AND c.addressee_id = ?", domain.ConnectionPending, addresseeID).
		Order("c.created_at DESC").Order("c.id ASC").
		Scan(&rows).Error
	return rows, err
}

// CountAccepted counts the user's accepted connections
func (r *connectionRepository) CountAccepted(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Connection{}).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", domain.ConnectionAccepted, userID, userID).
		Count(&n).Error
	return n, err
}

// CountPendingFor counts pending requests addressed to the user
func (r *connectionRepository) CountPendingFor(ctx context.Context, addresseeID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Connection{}).
		Where("status = ? AND addressee_id = ?", domain.ConnectionPending, addresseeID).
		Count(&n).Error
	return n, err
}
