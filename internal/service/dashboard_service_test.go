package service

import (
	"context"
	"testing"

	"github.com/spec-kit/complaint-service/internal/directory"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/routing"
	"github.com/spec-kit/complaint-service/internal/view"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

func seedTicket(repo *fakeTicketRepo, ticket domain.Ticket) {
	_ = repo.Create(context.Background(), &ticket)
}

func newDashboardFixture(users ...domain.User) (*DashboardService, *fakeTicketRepo) {
	tickets := newFakeTicketRepo()
	dir := directory.Seed()
	svc := NewDashboardService(DashboardDependencies{
		TicketRepo: tickets,
		UserRepo:   newFakeUserRepo(users...),
		Directory:  dir,
		Resolver:   routing.NewResolver(dir),
	})
	return svc, tickets
}

func TestUserTicketsRollup(t *testing.T) {
	user := endUser("u1")
	svc, tickets := newDashboardFixture(user)

	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "mechanical", Status: domain.TicketStatusOpen})
	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "it", Status: domain.TicketStatusCompleted})
	seedTicket(tickets, domain.Ticket{CreatorID: "u2", DepartmentID: "it", Status: domain.TicketStatusOpen})

	mine, stats, err := svc.UserTickets(context.Background(), &user)
	if err != nil {
		t.Fatalf("UserTickets: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("len = %d, want 2 (own tickets only)", len(mine))
	}
	if stats.Total != 2 || stats.Open != 1 || stats.Completed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestTechnicianTicketsRequiresRole(t *testing.T) {
	user := endUser("u1")
	svc, _ := newDashboardFixture(user)

	_, err := svc.TechnicianTickets(context.Background(), &user, view.TechnicianViewQueue)
	if got := code(t, err); got != apperrors.CodeForbidden {
		t.Errorf("code = %s, want %s", got, apperrors.CodeForbidden)
	}
}

func TestTechnicianQueueAndHistory(t *testing.T) {
	tech := staff("tech-1", domain.RoleTechnician, "mechanical")
	svc, tickets := newDashboardFixture(tech)

	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "mechanical", Status: domain.TicketStatusOpen})
	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "mechanical", Status: domain.TicketStatusCompleted, AssigneeID: strPtr("tech-1")})
	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "it", Status: domain.TicketStatusOpen})

	queue, err := svc.TechnicianTickets(context.Background(), &tech, view.TechnicianViewQueue)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(queue) != 1 || queue[0].Status != domain.TicketStatusOpen {
		t.Errorf("queue = %+v, want one OPEN mechanical ticket", queue)
	}

	history, err := svc.TechnicianTickets(context.Background(), &tech, view.TechnicianViewHistory)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Status != domain.TicketStatusCompleted {
		t.Errorf("history = %+v, want one COMPLETED ticket", history)
	}
}

func TestHeadDashboard(t *testing.T) {
	head := staff("head-1", domain.RoleDepartmentHead, "mechanical")
	tech := staff("tech-1", domain.RoleTechnician, "mechanical")
	svc, tickets := newDashboardFixture(head, tech)

	// category-routed
	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "mechanical", Category: "plumbing", Status: domain.TicketStatusOpen})
	// floor-routed
	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "mechanical", Category: "wall", Floor: strPtr("5"), Status: domain.TicketStatusCompleted, AssigneeID: strPtr("tech-1")})
	// other department, must not leak in
	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "it", Category: "lab", Status: domain.TicketStatusOpen})

	dashboard, err := svc.HeadDashboard(context.Background(), &head)
	if err != nil {
		t.Fatalf("HeadDashboard: %v", err)
	}
	if dashboard.Stats.Total != 2 {
		t.Errorf("Stats.Total = %d, want 2", dashboard.Stats.Total)
	}
	if dashboard.CompletionRate != 0.5 {
		t.Errorf("CompletionRate = %v, want 0.5", dashboard.CompletionRate)
	}
	if len(dashboard.FloorRouted) != 1 || len(dashboard.CategoryRouted) != 1 {
		t.Errorf("tabs = %d floor / %d category, want 1/1",
			len(dashboard.FloorRouted), len(dashboard.CategoryRouted))
	}
	if len(dashboard.Technicians) != 1 || dashboard.Technicians[0].Counts.Completed != 1 {
		t.Errorf("Technicians = %+v", dashboard.Technicians)
	}
}

func TestAdminOverview(t *testing.T) {
	admin := domain.User{ID: "admin", Role: domain.RoleSuperAdmin, Status: domain.UserStatusActive}
	svc, tickets := newDashboardFixture(admin)

	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "mechanical", Status: domain.TicketStatusOpen, Floor: strPtr("5")})
	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "general", Status: domain.TicketStatusOpen, NeedsTriage: true})
	seedTicket(tickets, domain.Ticket{CreatorID: "u1", DepartmentID: "it", Status: domain.TicketStatusCompleted, AssigneeID: strPtr("tech-2")})

	overview, err := svc.AdminOverview(context.Background(), &admin, view.AdminFilter{})
	if err != nil {
		t.Fatalf("AdminOverview: %v", err)
	}
	if overview.Overall.Total != 3 {
		t.Errorf("Overall.Total = %d, want 3", overview.Overall.Total)
	}
	if len(overview.ByDepartment) != 3 {
		t.Errorf("ByDepartment groups = %d, want 3", len(overview.ByDepartment))
	}
	if len(overview.NeedsTriage) != 1 {
		t.Errorf("NeedsTriage = %d, want 1", len(overview.NeedsTriage))
	}

	filtered, err := svc.AdminOverview(context.Background(), &admin, view.AdminFilter{DepartmentID: strPtr("it")})
	if err != nil {
		t.Fatalf("filtered AdminOverview: %v", err)
	}
	if filtered.Overall.Total != 1 || filtered.Overall.Completed != 1 {
		t.Errorf("filtered Overall = %+v", filtered.Overall)
	}
}

func TestAdminOverviewRequiresRole(t *testing.T) {
	head := staff("head-1", domain.RoleDepartmentHead, "mechanical")
	svc, _ := newDashboardFixture(head)

	_, err := svc.AdminOverview(context.Background(), &head, view.AdminFilter{})
	if got := code(t, err); got != apperrors.CodeForbidden {
		t.Errorf("code = %s, want %s", got, apperrors.CodeForbidden)
	}
}
