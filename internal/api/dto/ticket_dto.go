package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Floor          *string `json:"floor"`
	Location       string  `json:"location"`
	EvidenceBefore *string `json:"evidence_before"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	TechnicianID string `json:"technician_id"`
}

// CompleteTicketRequest payload.
type CompleteTicketRequest struct {
	EvidenceRef string `json:"evidence_ref"`
	Notes       string `json:"notes"`
}

// RejectTicketRequest payload.
type RejectTicketRequest struct {
	Reason string `json:"reason"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID              string              `json:"id"`
	ExternalKey     string              `json:"external_key"`
	CreatorID       string              `json:"creator_id"`
	DepartmentID    string              `json:"department_id"`
	AssigneeID      *string             `json:"assignee_id"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Category        string              `json:"category"`
	Floor           *string             `json:"floor"`
	Location        string              `json:"location"`
	Status          domain.TicketStatus `json:"status"`
	NeedsTriage     bool                `json:"needs_triage"`
	EvidenceBefore  *string             `json:"evidence_before,omitempty"`
	EvidenceAfter   *string             `json:"evidence_after,omitempty"`
	CompletionNotes *string             `json:"completion_notes,omitempty"`
	RejectReason    *string             `json:"reject_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	AssignedAt      *time.Time          `json:"assigned_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
}

// TicketHistoryResponse represents one audit entry.
type TicketHistoryResponse struct {
	ID          string                  `json:"id"`
	ChangeType  domain.TicketChangeType `json:"change_type"`
	ChangedByID *string                 `json:"changed_by_id"`
	OldValue    map[string]any          `json:"old_value"`
	NewValue    map[string]any          `json:"new_value"`
	CreatedAt   time.Time               `json:"created_at"`
}
