package domain

import (
	"errors"
	"testing"
)

func TestPairKey_OrderIndependent(t *testing.T) {
	lo1, hi1 := PairKey("b-user", "a-user")
	lo2, hi2 := PairKey("a-user", "b-user")
	if lo1 != lo2 || hi1 != hi2 {
		t.Fatalf("PairKey not symmetric: (%s,%s) vs (%s,%s)", lo1, hi1, lo2, hi2)
	}
	if lo1 != "a-user" || hi1 != "b-user" {
		t.Errorf("unexpected order: %s,%s", lo1, hi1)
	}
}

func TestViewerState_Complementary(t *testing.T) {
	c := NewConnection("c1", "alice", "bob")

	if got := c.ViewerState("alice"); got != ViewerPendingSent {
		t.Errorf("requester state = %s, want %s", got, ViewerPendingSent)
	}
	if got := c.ViewerState("bob"); got != ViewerPendingReceived {
		t.Errorf("addressee state = %s, want %s", got, ViewerPendingReceived)
	}
	if got := c.ViewerState("carol"); got != ViewerNone {
		t.Errorf("outsider state = %s, want %s", got, ViewerNone)
	}

	c.Status = ConnectionAccepted
	if c.ViewerState("alice") != ViewerAccepted || c.ViewerState("bob") != ViewerAccepted {
		t.Error("accepted connection should read accepted for both parties")
	}

	c.Status = ConnectionRejected
	if c.ViewerState("alice") != ViewerNone || c.ViewerState("bob") != ViewerNone {
		t.Error("rejected connection should read none for both parties")
	}

	var missing *Connection
	if missing.ViewerState("alice") != ViewerNone {
		t.Error("nil connection should read none")
	}
}

func TestAccept(t *testing.T) {
	c := NewConnection("c1", "alice", "bob")

	err := c.Accept("alice")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("requester accept: expected ErrInvalidTransition, got %v", err)
	}
	if c.Status != ConnectionPending {
		t.Fatalf("status changed after failed accept: %s", c.Status)
	}

	if err := c.Accept("bob"); err != nil {
		t.Fatalf("addressee accept: %v", err)
	}
	if c.Status != ConnectionAccepted {
		t.Errorf("status = %s, want accepted", c.Status)
	}

	if err := c.Accept("bob"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second accept: expected ErrInvalidTransition, got %v", err)
	}
}

func TestReject(t *testing.T) {
	c := NewConnection("c1", "alice", "bob")

	if err := c.Reject("alice"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("requester reject: expected ErrInvalidTransition, got %v", err)
	}
	if err := c.Reject("bob"); err != nil {
		t.Fatalf("addressee reject: %v", err)
	}
	if c.Status != ConnectionRejected {
		t.Errorf("status = %s, want rejected", c.Status)
	}
}

func TestReopen(t *testing.T) {
	c := NewConnection("c1", "alice", "bob")
	if err := c.Reopen("bob"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reopen pending: expected ErrInvalidTransition, got %v", err)
	}

	c.Status = ConnectionRejected
	if err := c.Reopen("carol"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("reopen by outsider: expected ErrInvalidTransition, got %v", err)
	}

	if err := c.Reopen("bob"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if c.RequesterID != "bob" || c.AddresseeID != "alice" || c.Status != ConnectionPending {
		t.Errorf("unexpected row after reopen: %+v", c)
	}
	lo, hi := PairKey("alice", "bob")
	if c.PairLow != lo || c.PairHigh != hi {
		t.Error("reopen must keep the canonical pair")
	}
}

func TestCanRemove(t *testing.T) {
	tests := []struct {
		name   string
		status ConnectionStatus
		by     string
		want   bool
	}{
		{"requester pending", ConnectionPending, "alice", true},
		{"addressee pending", ConnectionPending, "bob", true},
		{"requester accepted", ConnectionAccepted, "alice", true},
		{"addressee accepted", ConnectionAccepted, "bob", true},
		{"outsider", ConnectionAccepted, "carol", false},
		{"rejected", ConnectionRejected, "alice", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConnection("c1", "alice", "bob")
			c.Status = tt.status
			if got := c.CanRemove(tt.by); got != tt.want {
				t.Errorf("CanRemove(%s) = %v, want %v", tt.by, got, tt.want)
			}
		})
	}
}

func TestConnectionRow_ToSummary(t *testing.T) {
	row := &ConnectionRow{
		ID:                 "c1",
		RequesterID:        "alice",
		AddresseeID:        "bob",
		Status:             ConnectionAccepted,
		RequesterFirstName: "Alice",
		AddresseeFirstName: "Bob",
	}

	if s := row.ToSummary("alice"); s.Counterparty.ID != "bob" || s.Counterparty.FirstName != "Bob" {
		t.Errorf("alice's counterparty = %+v", s.Counterparty)
	}
	if s := row.ToSummary("bob"); s.Counterparty.ID != "alice" {
		t.Errorf("bob's counterparty = %+v", s.Counterparty)
	}
}
