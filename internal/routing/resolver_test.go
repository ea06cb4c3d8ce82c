package routing

import (
	"testing"

	"github.com/spec-kit/complaint-service/internal/directory"
	"github.com/spec-kit/complaint-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestRoutePrecedence(t *testing.T) {
	resolver := NewResolver(directory.Seed())

	tests := []struct {
		name        string
		draft       domain.TicketDraft
		wantDept    string
		wantBasis   Basis
		wantTriage  bool
	}{
		{
			name:      "floor mapping wins over category",
			draft:     domain.TicketDraft{Category: "plumbing", Floor: strPtr("4")},
			wantDept:  "electrical",
			wantBasis: BasisFloor,
		},
		{
			name:      "category routing without floor",
			draft:     domain.TicketDraft{Category: "plumbing"},
			wantDept:  "mechanical",
			wantBasis: BasisCategory,
		},
		{
			name:      "unmapped floor falls through to category",
			draft:     domain.TicketDraft{Category: "plumbing", Floor: strPtr("9")},
			wantDept:  "mechanical",
			wantBasis: BasisCategory,
		},
		{
			name:      "empty floor string is no floor",
			draft:     domain.TicketDraft{Category: "lighting", Floor: strPtr("  ")},
			wantDept:  "electrical",
			wantBasis: BasisCategory,
		},
		{
			name:       "unknown everything goes to fallback with triage",
			draft:      domain.TicketDraft{Category: "mystery", Floor: strPtr("9")},
			wantDept:   "general",
			wantBasis:  BasisFallback,
			wantTriage: true,
		},
		{
			name:       "no floor and unknown category",
			draft:      domain.TicketDraft{Category: "mystery"},
			wantDept:   "general",
			wantBasis:  BasisFallback,
			wantTriage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Route(tt.draft)
			if got.DepartmentID != tt.wantDept {
				t.Errorf("DepartmentID = %q, want %q", got.DepartmentID, tt.wantDept)
			}
			if got.Basis != tt.wantBasis {
				t.Errorf("Basis = %q, want %q", got.Basis, tt.wantBasis)
			}
			if got.NeedsTriage != tt.wantTriage {
				t.Errorf("NeedsTriage = %v, want %v", got.NeedsTriage, tt.wantTriage)
			}
		})
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	resolver := NewResolver(directory.Seed())
	draft := domain.TicketDraft{Category: "ac", Floor: strPtr("2")}
	first := resolver.Route(draft)
	for i := 0; i < 10; i++ {
		if got := resolver.Route(draft); got != first {
			t.Fatalf("Route not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestBasisOfMatchesRoute(t *testing.T) {
	resolver := NewResolver(directory.Seed())

	drafts := []domain.TicketDraft{
		{Category: "plumbing", Floor: strPtr("4")},
		{Category: "plumbing"},
		{Category: "mystery", Floor: strPtr("9")},
		{Category: "lab", Floor: strPtr("2")},
	}
	for _, draft := range drafts {
		placement := resolver.Route(draft)
		ticket := domain.Ticket{Category: draft.Category, Floor: draft.Floor}
		if got := resolver.BasisOf(ticket); got != placement.Basis {
			t.Errorf("BasisOf(%v/%v) = %q, Route gave %q", draft.Category, draft.Floor, got, placement.Basis)
		}
	}
}
