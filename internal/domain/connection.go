package domain

import (
	"fmt"
	"time"
)

// ConnectionStatus stored state of a connection row
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// ViewerState is a connection as seen by one of its two parties
type ViewerState string

const (
	ViewerNone            ViewerState = "none"
	ViewerPendingSent     ViewerState = "pending_sent"
	ViewerPendingReceived ViewerState = "pending_received"
	ViewerAccepted        ViewerState = "accepted"
)

// ErrInvalidTransition is returned by the Connection transition methods
var ErrInvalidTransition = fmt.Errorf("invalid connection transition")

// Connection links a requester and an addressee (connections table).
// PairLow/PairHigh hold the two ids in lexicographic order and carry the
// unique index, so a pair can never have two rows.
type Connection struct {
	CreatedAt   time.Time        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;index" json:"updated_at"`
	ID          string           `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	RequesterID string           `gorm:"column:requester_id;type:varchar(36);not null;index" json:"requester_id"`
	AddresseeID string           `gorm:"column:addressee_id;type:varchar(36);not null;index" json:"addressee_id"`
	PairLow     string           `gorm:"column:pair_low;type:varchar(36);not null;uniqueIndex:idx_connections_pair" json:"-"`
	PairHigh    string           `gorm:"column:pair_high;type:varchar(36);not null;uniqueIndex:idx_connections_pair" json:"-"`
	Status      ConnectionStatus `gorm:"column:status;size:10;not null;index" json:"status"`
}

func (Connection) TableName() string {
	return "connections"
}

// PairKey returns the two ids in canonical order
func PairKey(a, b string) (low, high string) {
	if a < b {
		return a, b
	}
	return b, a
}

// NewConnection builds a pending request from requester to addressee
func NewConnection(id, requesterID, addresseeID string) *Connection {
	low, high := PairKey(requesterID, addresseeID)
	return &Connection{
		ID:          id,
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		PairLow:     low,
		PairHigh:    high,
		Status:      ConnectionPending,
	}
}

// HasParty reports whether userID is requester or addressee
func (c *Connection) HasParty(userID string) bool {
	return userID != "" && (c.RequesterID == userID || c.AddresseeID == userID)
}

// Counterparty returns the other party's id, or "" if userID is not a party
func (c *Connection) Counterparty(userID string) string {
	switch userID {
	case c.RequesterID:
		return c.AddresseeID
	case c.AddresseeID:
		return c.RequesterID
	}
	return ""
}

// ViewerState maps the stored status to what userID sees
func (c *Connection) ViewerState(userID string) ViewerState {
	if c == nil || !c.HasParty(userID) {
		return ViewerNone
	}
	switch c.Status {
	case ConnectionPending:
		if c.RequesterID == userID {
			return ViewerPendingSent
		}
		return ViewerPendingReceived
	case ConnectionAccepted:
		return ViewerAccepted
	case ConnectionRejected:
		return ViewerNone
	}
	return ViewerNone
}

// Accept moves a pending request to accepted. Only the addressee may accept.
func (c *Connection) Accept(by string) error {
	switch c.Status {
	case ConnectionPending:
		if by != c.AddresseeID {
			return fmt.Errorf("%w: only the addressee can accept", ErrInvalidTransition)
		}
		c.Status = ConnectionAccepted
		return nil
	case ConnectionAccepted, ConnectionRejected:
		return fmt.Errorf("%w: %s connection cannot be accepted", ErrInvalidTransition, c.Status)
	}
	return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, c.Status)
}

// Reject moves a pending request to rejected. Only the addressee may reject.
func (c *Connection) Reject(by string) error {
	switch c.Status {
	case ConnectionPending:
		if by != c.AddresseeID {
			return fmt.Errorf("%w: only the addressee can reject", ErrInvalidTransition)
		}
		c.Status = ConnectionRejected
		return nil
	case ConnectionAccepted, ConnectionRejected:
		return fmt.Errorf("%w: %s connection cannot be rejected", ErrInvalidTransition, c.Status)
	}
	return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, c.Status)
}

// Reopen turns a rejected row into a fresh pending request from by to the other party
func (c *Connection) Reopen(by string) error {
	switch c.Status {
	case ConnectionRejected:
		other := c.Counterparty(by)
		if other == "" {
			return fmt.Errorf("%w: not a party", ErrInvalidTransition)
		}
		c.RequesterID = by
		c.AddresseeID = other
		c.Status = ConnectionPending
		return nil
	case ConnectionPending, ConnectionAccepted:
		return fmt.Errorf("%w: %s connection cannot be reopened", ErrInvalidTransition, c.Status)
	}
	return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, c.Status)
}

// CanRemove reports whether by may delete the row: either party, pending or accepted
func (c *Connection) CanRemove(by string) bool {
	if !c.HasParty(by) {
		return false
	}
	switch c.Status {
	case ConnectionPending, ConnectionAccepted:
		return true
	case ConnectionRejected:
		return false
	}
	return false
}

// ConnectionStatusResponse answer of the status query
type ConnectionStatusResponse struct {
	ConnectionID string      `json:"connection_id,omitempty"`
	State        ViewerState `json:"state"`
}

// PartySummary display fields of one party
type PartySummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PhotoURL  string `json:"photo_url"`
}

// ConnectionSummary accepted connection joined with both parties
type ConnectionSummary struct {
	UpdatedAt    time.Time        `json:"updated_at"`
	CreatedAt    time.Time        `json:"created_at"`
	ID           string           `json:"id"`
	Status       ConnectionStatus `json:"status"`
	Requester    PartySummary     `json:"requester"`
	Addressee    PartySummary     `json:"addressee"`
	Counterparty PartySummary     `json:"counterparty"`
	UnreadCount  int64            `json:"unread_count"`
}

// ConnectionRequest pending request addressed to the caller
type ConnectionRequest struct {
	CreatedAt    time.Time    `json:"created_at"`
	ConnectionID string       `json:"connection_id"`
	Requester    PartySummary `json:"requester"`
}

// ConnectionRow flat join row read by the repository
type ConnectionRow struct {
	CreatedAt          time.Time
	UpdatedAt          time.Time
	ID                 string
	RequesterID        string
	AddresseeID        string
	Status             ConnectionStatus
	RequesterFirstName string
	RequesterLastName  string
	RequesterPhotoURL  string
	AddresseeFirstName string
	AddresseeLastName  string
	AddresseePhotoURL  string
}

// ToSummary builds the caller-relative view of a joined row
func (r *ConnectionRow) ToSummary(callerID string) *ConnectionSummary {
	s := &ConnectionSummary{
		ID:        r.ID,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Requester: PartySummary{
			ID:        r.RequesterID,
			FirstName: r.RequesterFirstName,
			LastName:  r.RequesterLastName,
			PhotoURL:  r.RequesterPhotoURL,
		},
		Addressee: PartySummary{
			ID:        r.AddresseeID,
			FirstName: r.AddresseeFirstName,
			LastName:  r.AddresseeLastName,
			PhotoURL:  r.AddresseePhotoURL,
		},
	}
	if callerID == r.RequesterID {
		s.Counterparty = s.Addressee
	} else {
		s.Counterparty = s.Requester
	}
	return s
}
