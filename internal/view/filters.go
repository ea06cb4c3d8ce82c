package view

import (
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/routing"
)

// TechnicianView selects which slice of the department's tickets a
// technician is asking for.
type TechnicianView string

const (
	// TechnicianViewQueue is the work queue: OPEN and ASSIGNED tickets.
	TechnicianViewQueue TechnicianView = "queue"
	// TechnicianViewHistory is the completed-work view.
	TechnicianViewHistory TechnicianView = "history"
)

// HeadTab selects one of the department head's two disjoint sub-views.
// The split mirrors the resolver's precedence branches, so a head can
// tell physically-local problems from specialty-routed ones.
type HeadTab string

const (
	HeadTabFloor    HeadTab = "floor"
	HeadTabCategory HeadTab = "category"
)

// AdminFilter narrows the super-admin's unrestricted view.
type AdminFilter struct {
	DepartmentID *string
	Floor        *string
	Statuses     []domain.TicketStatus
}

// VisibleTo slices a snapshot to what the caller's role permits. The
// returned slice is freshly allocated; the input is never modified.
// Technician callers get their department with no status cut here; the
// view-specific helpers below apply the queue/history split.
func VisibleTo(user *domain.User, tickets []domain.Ticket) []domain.Ticket {
	if user == nil {
		return []domain.Ticket{}
	}
	switch user.Role {
	case domain.RoleSuperAdmin:
		out := make([]domain.Ticket, len(tickets))
		copy(out, tickets)
		return out
	case domain.RoleTechnician, domain.RoleDepartmentHead:
		if user.DepartmentID == nil {
			return []domain.Ticket{}
		}
		return filter(tickets, func(t *domain.Ticket) bool {
			return t.DepartmentID == *user.DepartmentID
		})
	default:
		return filter(tickets, func(t *domain.Ticket) bool {
			return t.CreatorID == user.ID
		})
	}
}

// ForTechnician returns the department tickets in the requested view.
func ForTechnician(technician *domain.User, view TechnicianView, tickets []domain.Ticket) []domain.Ticket {
	scoped := VisibleTo(technician, tickets)
	if technician == nil || technician.Role != domain.RoleTechnician {
		return []domain.Ticket{}
	}
	switch view {
	case TechnicianViewHistory:
		return filter(scoped, func(t *domain.Ticket) bool {
			return t.Status == domain.TicketStatusCompleted
		})
	default:
		return filter(scoped, func(t *domain.Ticket) bool {
			return t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusAssigned
		})
	}
}

// ForHeadTab returns one of the head's sub-views. The floor tab holds
// tickets the resolver placed via the floor branch; the category tab
// holds the category-routed ones. Fallback-routed tickets appear in
// neither tab, only in the head's full department view.
func ForHeadTab(head *domain.User, tab HeadTab, resolver *routing.Resolver, tickets []domain.Ticket) []domain.Ticket {
	scoped := VisibleTo(head, tickets)
	if head == nil || head.Role != domain.RoleDepartmentHead {
		return []domain.Ticket{}
	}
	want := routing.BasisCategory
	if tab == HeadTabFloor {
		want = routing.BasisFloor
	}
	return filter(scoped, func(t *domain.Ticket) bool {
		return resolver.BasisOf(*t) == want
	})
}

// ForAdmin slices the full snapshot along the reporting dimensions.
func ForAdmin(admin *domain.User, f AdminFilter, tickets []domain.Ticket) []domain.Ticket {
	scoped := VisibleTo(admin, tickets)
	if admin == nil || admin.Role != domain.RoleSuperAdmin {
		return []domain.Ticket{}
	}
	return filter(scoped, func(t *domain.Ticket) bool {
		if f.DepartmentID != nil && t.DepartmentID != *f.DepartmentID {
			return false
		}
		if f.Floor != nil {
			if t.Floor == nil || *t.Floor != *f.Floor {
				return false
			}
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
			return false
		}
		return true
	})
}

// NeedingTriage returns fallback-routed tickets awaiting manual placement.
func NeedingTriage(tickets []domain.Ticket) []domain.Ticket {
	return filter(tickets, func(t *domain.Ticket) bool {
		return t.NeedsTriage && !t.Status.IsTerminal()
	})
}

func filter(tickets []domain.Ticket, keep func(*domain.Ticket) bool) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if keep(&tickets[i]) {
			out = append(out, tickets[i])
		}
	}
	return out
}

func containsStatus(set []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
