package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketAssigned  EventType = "ticket_assigned"
	EventTicketCompleted EventType = "ticket_completed"
	EventTicketRejected  EventType = "ticket_rejected"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted on a lifecycle transition.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	DepartmentID string  `json:"department_id"`
	Category     string  `json:"category"`
	Floor        *string `json:"floor,omitempty"`
	RoutingBasis string  `json:"routing_basis"`
	NeedsTriage  bool    `json:"needs_triage,omitempty"`
	Title        string  `json:"title"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	DepartmentID string `json:"department_id"`
	AssigneeID   string `json:"assignee_id"`
}

// TicketCompletedPayload payload.
type TicketCompletedPayload struct {
	DepartmentID string  `json:"department_id"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	EvidenceRef  string  `json:"evidence_ref"`
	Notes        *string `json:"notes,omitempty"`
}

// TicketRejectedPayload payload.
type TicketRejectedPayload struct {
	DepartmentID string `json:"department_id"`
	Reason       string `json:"reason"`
}
