package domain

import "time"

// TicketStatus enumerates lifecycle states for complaint tickets.
type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "OPEN"
	TicketStatusAssigned  TicketStatus = "ASSIGNED"
	TicketStatusCompleted TicketStatus = "COMPLETED"
	TicketStatusRejected  TicketStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is legal from the status.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusCompleted || s == TicketStatusRejected
}

// Ticket is the aggregate for facility complaints.
type Ticket struct {
	ID              string
	ExternalKey     string
	CreatorID       string
	DepartmentID    string
	AssigneeID      *string
	Title           string
	Description     string
	Category        string
	Floor           *string
	Location        string
	Status          TicketStatus
	NeedsTriage     bool
	EvidenceBefore  *string
	EvidenceAfter   *string
	CompletionNotes *string
	RejectReason    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AssignedAt      *time.Time
	CompletedAt     *time.Time
}

// TicketDraft carries the user-supplied fields of a new complaint.
// The owning department is never part of the draft; routing derives it.
type TicketDraft struct {
	CreatorID      string
	Title          string
	Description    string
	Category       string
	Floor          *string
	Location       string
	EvidenceBefore *string
}
