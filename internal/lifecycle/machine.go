package lifecycle

import (
	"strings"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/routing"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// The complete transition table. COMPLETED and REJECTED are absorbing.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:      {domain.TicketStatusAssigned, domain.TicketStatusRejected},
	domain.TicketStatusAssigned:  {domain.TicketStatusCompleted, domain.TicketStatusRejected},
	domain.TicketStatusCompleted: {},
	domain.TicketStatusRejected:  {},
}

// CanTransition reports whether next is reachable from current.
func CanTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Create validates a draft and produces a new ticket in OPEN, placed by
// the resolver's decision. The department is set here and never null.
func Create(draft domain.TicketDraft, placement routing.Placement, now time.Time) (domain.Ticket, error) {
	missing := map[string]any{}
	if strings.TrimSpace(draft.Title) == "" {
		missing["title"] = "required"
	}
	if strings.TrimSpace(draft.Category) == "" {
		missing["category"] = "required"
	}
	if strings.TrimSpace(draft.Description) == "" {
		missing["description"] = "required"
	}
	if strings.TrimSpace(draft.Location) == "" {
		missing["location"] = "required"
	}
	if len(missing) > 0 {
		return domain.Ticket{}, apperrors.NewValidationError("ticket draft incomplete", missing)
	}

	return domain.Ticket{
		CreatorID:      draft.CreatorID,
		DepartmentID:   placement.DepartmentID,
		Title:          strings.TrimSpace(draft.Title),
		Description:    strings.TrimSpace(draft.Description),
		Category:       strings.ToLower(strings.TrimSpace(draft.Category)),
		Floor:          draft.Floor,
		Location:       strings.TrimSpace(draft.Location),
		Status:         domain.TicketStatusOpen,
		NeedsTriage:    placement.NeedsTriage,
		EvidenceBefore: draft.EvidenceBefore,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Assign attaches a technician to an OPEN ticket. The technician must
// belong to the ticket's department.
func Assign(ticket domain.Ticket, technician *domain.User, now time.Time) (domain.Ticket, error) {
	if err := guardNotTerminal(ticket); err != nil {
		return ticket, err
	}
	if ticket.Status != domain.TicketStatusOpen {
		return ticket, apperrors.NewInvalidTransition(string(ticket.Status), string(domain.TicketStatusAssigned))
	}
	if technician == nil || technician.Role != domain.RoleTechnician {
		return ticket, apperrors.NewForbidden("assignee must be a technician")
	}
	if technician.DepartmentID == nil || *technician.DepartmentID != ticket.DepartmentID {
		return ticket, apperrors.NewForbidden("technician outside ticket department")
	}

	assignedAt := now
	ticket.Status = domain.TicketStatusAssigned
	ticket.AssigneeID = &technician.ID
	ticket.AssignedAt = &assignedAt
	ticket.UpdatedAt = now
	return ticket, nil
}

// Complete closes out an ASSIGNED ticket as terminal success. An "after"
// evidence reference is mandatory; notes are optional.
func Complete(ticket domain.Ticket, evidenceRef, notes string, now time.Time) (domain.Ticket, error) {
	if err := guardNotTerminal(ticket); err != nil {
		return ticket, err
	}
	if ticket.Status != domain.TicketStatusAssigned {
		return ticket, apperrors.NewInvalidTransition(string(ticket.Status), string(domain.TicketStatusCompleted))
	}
	if strings.TrimSpace(evidenceRef) == "" {
		return ticket, apperrors.NewMissingEvidence()
	}

	completedAt := now
	evidence := strings.TrimSpace(evidenceRef)
	ticket.Status = domain.TicketStatusCompleted
	ticket.EvidenceAfter = &evidence
	ticket.CompletedAt = &completedAt
	ticket.UpdatedAt = now
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		ticket.CompletionNotes = &trimmed
	}
	return ticket, nil
}

// Reject terminates a ticket from OPEN or ASSIGNED with a reason.
func Reject(ticket domain.Ticket, reason string, now time.Time) (domain.Ticket, error) {
	if err := guardNotTerminal(ticket); err != nil {
		return ticket, err
	}
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return ticket, apperrors.NewValidationError("rejection reason required", map[string]any{"reason": "required"})
	}

	ticket.Status = domain.TicketStatusRejected
	ticket.RejectReason = &trimmed
	ticket.UpdatedAt = now
	return ticket, nil
}

func guardNotTerminal(ticket domain.Ticket) error {
	if ticket.Status.IsTerminal() {
		return apperrors.NewTerminalState(string(ticket.Status))
	}
	return nil
}
