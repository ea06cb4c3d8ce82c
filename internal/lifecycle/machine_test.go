package lifecycle

import (
	"testing"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/routing"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func technician(id, dept string) *domain.User {
	return &domain.User{
		ID:           id,
		Role:         domain.RoleTechnician,
		DepartmentID: &dept,
		Status:       domain.UserStatusActive,
	}
}

func openTicket(dept string) domain.Ticket {
	return domain.Ticket{
		ID:           "t1",
		CreatorID:    "u1",
		DepartmentID: dept,
		Title:        "Broken AC",
		Description:  "Room 204 AC not cooling",
		Category:     "ac",
		Location:     "Room 204",
		Status:       domain.TicketStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	return apperrors.ToDomainError(err).Code
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from domain.TicketStatus
		to   domain.TicketStatus
		want bool
	}{
		{domain.TicketStatusOpen, domain.TicketStatusAssigned, true},
		{domain.TicketStatusOpen, domain.TicketStatusRejected, true},
		{domain.TicketStatusOpen, domain.TicketStatusCompleted, false},
		{domain.TicketStatusAssigned, domain.TicketStatusCompleted, true},
		{domain.TicketStatusAssigned, domain.TicketStatusRejected, true},
		{domain.TicketStatusAssigned, domain.TicketStatusOpen, false},
		{domain.TicketStatusCompleted, domain.TicketStatusOpen, false},
		{domain.TicketStatusCompleted, domain.TicketStatusAssigned, false},
		{domain.TicketStatusCompleted, domain.TicketStatusRejected, false},
		{domain.TicketStatusRejected, domain.TicketStatusOpen, false},
		{domain.TicketStatusRejected, domain.TicketStatusAssigned, false},
		{domain.TicketStatusRejected, domain.TicketStatusCompleted, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	placement := routing.Placement{DepartmentID: "mechanical", Basis: routing.BasisCategory}

	draft := domain.TicketDraft{
		CreatorID:   "u1",
		Title:       " ",
		Description: "",
		Category:    "ac",
		Location:    "Room 204",
	}
	_, err := Create(draft, placement, now)
	if code := errCode(t, err); code != apperrors.CodeValidation {
		t.Errorf("code = %s, want %s", code, apperrors.CodeValidation)
	}
	details := apperrors.ToDomainError(err).Details
	if _, ok := details["title"]; !ok {
		t.Error("details should name title")
	}
	if _, ok := details["description"]; !ok {
		t.Error("details should name description")
	}
	if _, ok := details["category"]; ok {
		t.Error("category was provided, should not be flagged")
	}
}

func TestCreateProducesOpenTicket(t *testing.T) {
	placement := routing.Placement{DepartmentID: "general", Basis: routing.BasisFallback, NeedsTriage: true}
	draft := domain.TicketDraft{
		CreatorID:   "u1",
		Title:       "  Strange smell ",
		Description: "Smells odd near stairwell",
		Category:    " Mystery ",
		Location:    "Stairwell B",
	}
	ticket, err := Create(draft, placement, now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("Status = %s, want OPEN", ticket.Status)
	}
	if ticket.DepartmentID != "general" {
		t.Errorf("DepartmentID = %q, want general", ticket.DepartmentID)
	}
	if !ticket.NeedsTriage {
		t.Error("NeedsTriage should carry over from placement")
	}
	if ticket.Title != "Strange smell" {
		t.Errorf("Title = %q, want trimmed", ticket.Title)
	}
	if ticket.Category != "mystery" {
		t.Errorf("Category = %q, want normalized lowercase", ticket.Category)
	}
	if ticket.AssigneeID != nil {
		t.Error("new ticket must be unassigned")
	}
}

func TestAssign(t *testing.T) {
	ticket := openTicket("mechanical")
	tech := technician("tech-1", "mechanical")

	updated, err := Assign(ticket, tech, now)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if updated.Status != domain.TicketStatusAssigned {
		t.Errorf("Status = %s, want ASSIGNED", updated.Status)
	}
	if updated.AssigneeID == nil || *updated.AssigneeID != "tech-1" {
		t.Error("AssigneeID not set")
	}
	if updated.AssignedAt == nil || !updated.AssignedAt.Equal(now) {
		t.Error("AssignedAt not set")
	}
}

func TestAssignGuards(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.TicketStatus
		tech     *domain.User
		wantCode string
	}{
		{"from assigned", domain.TicketStatusAssigned, technician("tech-1", "mechanical"), apperrors.CodeInvalidTransition},
		{"from completed", domain.TicketStatusCompleted, technician("tech-1", "mechanical"), apperrors.CodeTerminalState},
		{"from rejected", domain.TicketStatusRejected, technician("tech-1", "mechanical"), apperrors.CodeTerminalState},
		{"wrong department", domain.TicketStatusOpen, technician("tech-1", "it"), apperrors.CodeForbidden},
		{"not a technician", domain.TicketStatusOpen, &domain.User{ID: "u2", Role: domain.RoleEndUser}, apperrors.CodeForbidden},
		{"nil technician", domain.TicketStatusOpen, nil, apperrors.CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := openTicket("mechanical")
			ticket.Status = tt.status
			_, err := Assign(ticket, tt.tech, now)
			if code := errCode(t, err); code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestComplete(t *testing.T) {
	ticket := openTicket("mechanical")
	ticket.Status = domain.TicketStatusAssigned
	ticket.AssigneeID = strPtr("tech-1")

	updated, err := Complete(ticket, " photo://after/42 ", "replaced the compressor", now)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if updated.Status != domain.TicketStatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", updated.Status)
	}
	if updated.EvidenceAfter == nil || *updated.EvidenceAfter != "photo://after/42" {
		t.Error("EvidenceAfter not trimmed and stored")
	}
	if updated.CompletionNotes == nil || *updated.CompletionNotes != "replaced the compressor" {
		t.Error("CompletionNotes not stored")
	}
	if updated.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
}

func TestCompleteGuards(t *testing.T) {
	tests := []struct {
		name     string
		status   domain.TicketStatus
		evidence string
		wantCode string
	}{
		{"missing evidence", domain.TicketStatusAssigned, "  ", apperrors.CodeMissingEvidence},
		{"from open", domain.TicketStatusOpen, "photo://x", apperrors.CodeInvalidTransition},
		{"from completed", domain.TicketStatusCompleted, "photo://x", apperrors.CodeTerminalState},
		{"from rejected", domain.TicketStatusRejected, "photo://x", apperrors.CodeTerminalState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := openTicket("mechanical")
			ticket.Status = tt.status
			_, err := Complete(ticket, tt.evidence, "", now)
			if code := errCode(t, err); code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
}

func TestCompleteOptionalNotes(t *testing.T) {
	ticket := openTicket("mechanical")
	ticket.Status = domain.TicketStatusAssigned
	updated, err := Complete(ticket, "photo://x", "   ", now)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if updated.CompletionNotes != nil {
		t.Error("blank notes should stay nil")
	}
}

func TestReject(t *testing.T) {
	for _, status := range []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusAssigned} {
		ticket := openTicket("mechanical")
		ticket.Status = status
		updated, err := Reject(ticket, " duplicate of CMP-1 ", now)
		if err != nil {
			t.Fatalf("Reject from %s: %v", status, err)
		}
		if updated.Status != domain.TicketStatusRejected {
			t.Errorf("Status = %s, want REJECTED", updated.Status)
		}
		if updated.RejectReason == nil || *updated.RejectReason != "duplicate of CMP-1" {
			t.Error("RejectReason not trimmed and stored")
		}
	}
}

func TestRejectGuards(t *testing.T) {
	ticket := openTicket("mechanical")
	if _, err := Reject(ticket, "   ", now); errCode(t, err) != apperrors.CodeValidation {
		t.Error("blank reason should be a validation failure")
	}

	for _, status := range []domain.TicketStatus{domain.TicketStatusCompleted, domain.TicketStatusRejected} {
		ticket := openTicket("mechanical")
		ticket.Status = status
		if _, err := Reject(ticket, "late", now); errCode(t, err) != apperrors.CodeTerminalState {
			t.Errorf("reject from %s should report terminal state", status)
		}
	}
}

func TestTerminalStatesAbsorbing(t *testing.T) {
	tech := technician("tech-1", "mechanical")
	for _, status := range []domain.TicketStatus{domain.TicketStatusCompleted, domain.TicketStatusRejected} {
		ticket := openTicket("mechanical")
		ticket.Status = status

		if _, err := Assign(ticket, tech, now); errCode(t, err) != apperrors.CodeTerminalState {
			t.Errorf("Assign from %s should be terminal", status)
		}
		if _, err := Complete(ticket, "photo://x", "", now); errCode(t, err) != apperrors.CodeTerminalState {
			t.Errorf("Complete from %s should be terminal", status)
		}
		if _, err := Reject(ticket, "reason", now); errCode(t, err) != apperrors.CodeTerminalState {
			t.Errorf("Reject from %s should be terminal", status)
		}
	}
}
