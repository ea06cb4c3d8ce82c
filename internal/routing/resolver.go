package routing

import (
	"strings"

	"github.com/spec-kit/complaint-service/internal/directory"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// Basis records which directory branch placed a ticket.
type Basis string

const (
	BasisFloor    Basis = "FLOOR"
	BasisCategory Basis = "CATEGORY"
	BasisFallback Basis = "FALLBACK"
)

// Placement is the resolver's decision for a draft.
type Placement struct {
	DepartmentID string
	Basis        Basis
	// NeedsTriage marks fallback-routed tickets for manual triage on the
	// super-admin overview. It is a visible state, not an error.
	NeedsTriage bool
}

// Resolver computes the owning department for new tickets. It never
// consults the assignee: department and technician assignment are
// decoupled steps.
type Resolver struct {
	dir *directory.Directory
}

// NewResolver builds a resolver over a directory.
func NewResolver(dir *directory.Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Route applies the precedence rule, most specific first:
//
//  1. an explicit floor key with a floor mapping wins ("where" routing,
//     QR-tagged physical zones),
//  2. otherwise the category mapping ("what" routing),
//  3. otherwise the fallback department, flagged for triage.
//
// Same draft, same directory, same placement.
func (r *Resolver) Route(draft domain.TicketDraft) Placement {
	if draft.Floor != nil && strings.TrimSpace(*draft.Floor) != "" {
		if dept, ok := r.dir.DepartmentForFloor(*draft.Floor); ok {
			return Placement{DepartmentID: dept, Basis: BasisFloor}
		}
	}
	if r.dir.HasCategory(draft.Category) {
		return Placement{DepartmentID: r.dir.DepartmentForCategory(draft.Category), Basis: BasisCategory}
	}
	return Placement{DepartmentID: r.dir.Fallback(), Basis: BasisFallback, NeedsTriage: true}
}

// BasisOf recomputes the routing branch for an existing ticket. Dashboards
// use it to split a head's tickets into physically-local (floor-routed)
// versus specialty (category-routed) views with the same rule the write
// side used.
func (r *Resolver) BasisOf(ticket domain.Ticket) Basis {
	if ticket.Floor != nil && strings.TrimSpace(*ticket.Floor) != "" {
		if _, ok := r.dir.DepartmentForFloor(*ticket.Floor); ok {
			return BasisFloor
		}
	}
	if r.dir.HasCategory(ticket.Category) {
		return BasisCategory
	}
	return BasisFallback
}
