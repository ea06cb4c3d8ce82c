package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/complaint-service/internal/aggregate"
	"github.com/spec-kit/complaint-service/internal/directory"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/routing"
	"github.com/spec-kit/complaint-service/internal/view"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

const overviewCacheKey = "dashboard:overview"

// DashboardService computes the role-scoped views and rollups behind
// every dashboard screen. Each request takes one snapshot of the ticket
// collection; aggregation and filtering are pure over that snapshot, so
// staleness is bounded by snapshot (and cache) age, never correctness.
type DashboardService struct {
	tickets       repository.TicketRepository
	users         repository.UserRepository
	dir           *directory.Directory
	resolver      *routing.Resolver
	cache         *redis.Client
	cacheTTL      time.Duration
	snapshotLimit int
}

// DashboardDependencies bundles collaborators for the service.
type DashboardDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Directory  *directory.Directory
	Resolver   *routing.Resolver
	// Cache is optional; without it every overview is recomputed.
	Cache         *redis.Client
	CacheTTL      time.Duration
	SnapshotLimit int
}

// TechnicianLoad pairs a technician with their ticket counts.
type TechnicianLoad struct {
	UserID string           `json:"user_id"`
	Name   string           `json:"name"`
	Counts aggregate.Counts `json:"counts"`
}

// HeadDashboard is the department head's view.
type HeadDashboard struct {
	DepartmentID   string                      `json:"department_id"`
	HeadUserID     string                      `json:"head_user_id,omitempty"`
	Stats          aggregate.Counts            `json:"stats"`
	CompletionRate float64                     `json:"completion_rate"`
	FloorStats     map[string]aggregate.Counts `json:"floor_stats"`
	Technicians    []TechnicianLoad            `json:"technicians"`
	FloorRouted    []domain.Ticket             `json:"floor_routed"`
	CategoryRouted []domain.Ticket             `json:"category_routed"`
}

// AdminOverview is the super-admin's cross-department report.
type AdminOverview struct {
	Overall      aggregate.Counts            `json:"overall"`
	ByDepartment map[string]aggregate.Counts `json:"by_department"`
	ByFloor      map[string]aggregate.Counts `json:"by_floor"`
	ByTechnician map[string]aggregate.Counts `json:"by_technician"`
	NeedsTriage  []domain.Ticket             `json:"needs_triage"`
	GeneratedAt  time.Time                   `json:"generated_at"`
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	limit := deps.SnapshotLimit
	if limit <= 0 {
		limit = 1000
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &DashboardService{
		tickets:       deps.TicketRepo,
		users:         deps.UserRepo,
		dir:           deps.Directory,
		resolver:      deps.Resolver,
		cache:         deps.Cache,
		cacheTTL:      ttl,
		snapshotLimit: limit,
	}
}

// UserTickets returns the caller's own complaints with an overall rollup.
func (s *DashboardService) UserTickets(ctx context.Context, user *domain.User) ([]domain.Ticket, aggregate.Counts, error) {
	if user == nil {
		return nil, aggregate.Counts{}, apperrors.NewUnauthorized("user required")
	}
	snapshot, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		CreatorID: &user.ID,
		Limit:     s.snapshotLimit,
	})
	if err != nil {
		return nil, aggregate.Counts{}, apperrors.MapError(err)
	}
	return snapshot, aggregate.Overall(snapshot), nil
}

// TechnicianTickets returns the technician's work queue or history view.
func (s *DashboardService) TechnicianTickets(ctx context.Context, technician *domain.User, v view.TechnicianView) ([]domain.Ticket, error) {
	if technician == nil || technician.Role != domain.RoleTechnician {
		return nil, apperrors.NewForbidden("technician required")
	}
	if technician.DepartmentID == nil {
		return nil, apperrors.NewForbidden("technician has no department")
	}
	snapshot, err := s.departmentSnapshot(ctx, *technician.DepartmentID)
	if err != nil {
		return nil, err
	}
	return view.ForTechnician(technician, v, snapshot), nil
}

// HeadDashboard builds the department head's full view: overall stats,
// floor-wise stats, technician loads, and the two routing sub-views.
func (s *DashboardService) HeadDashboard(ctx context.Context, head *domain.User) (*HeadDashboard, error) {
	if head == nil || head.Role != domain.RoleDepartmentHead {
		return nil, apperrors.NewForbidden("department head required")
	}
	if head.DepartmentID == nil {
		return nil, apperrors.NewForbidden("head has no department")
	}
	dept := *head.DepartmentID

	snapshot, err := s.departmentSnapshot(ctx, dept)
	if err != nil {
		return nil, err
	}

	stats := aggregate.Overall(snapshot)
	dashboard := &HeadDashboard{
		DepartmentID:   dept,
		Stats:          stats,
		CompletionRate: stats.CompletionRate(),
		FloorStats:     aggregate.Aggregate(snapshot, aggregate.GroupByFloor),
		FloorRouted:    view.ForHeadTab(head, view.HeadTabFloor, s.resolver, snapshot),
		CategoryRouted: view.ForHeadTab(head, view.HeadTabCategory, s.resolver, snapshot),
	}
	if headID, ok := s.dir.HeadOf(dept); ok {
		dashboard.HeadUserID = headID
	}

	techRole := domain.RoleTechnician
	technicians, err := s.users.List(ctx, repository.UserFilter{
		Role:         &techRole,
		DepartmentID: &dept,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byTech := aggregate.Aggregate(snapshot, aggregate.GroupByTechnician)
	dashboard.Technicians = make([]TechnicianLoad, 0, len(technicians))
	for _, tech := range technicians {
		dashboard.Technicians = append(dashboard.Technicians, TechnicianLoad{
			UserID: tech.ID,
			Name:   tech.Name,
			Counts: byTech[tech.ID],
		})
	}
	return dashboard, nil
}

// AdminOverview builds the super-admin report, optionally narrowed along
// the department and floor dimensions. The unfiltered overview is cached
// briefly; filtered requests always recompute.
func (s *DashboardService) AdminOverview(ctx context.Context, admin *domain.User, f view.AdminFilter) (*AdminOverview, error) {
	if admin == nil || admin.Role != domain.RoleSuperAdmin {
		return nil, apperrors.NewForbidden("super-admin required")
	}

	unfiltered := f.DepartmentID == nil && f.Floor == nil && len(f.Statuses) == 0
	if unfiltered {
		if cached := s.cachedOverview(ctx); cached != nil {
			return cached, nil
		}
	}

	snapshot, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{Limit: s.snapshotLimit})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	scoped := view.ForAdmin(admin, f, snapshot)

	overview := &AdminOverview{
		Overall:      aggregate.Overall(scoped),
		ByDepartment: aggregate.Aggregate(scoped, aggregate.GroupByDepartment),
		ByFloor:      aggregate.Aggregate(scoped, aggregate.GroupByFloor),
		ByTechnician: aggregate.Aggregate(scoped, aggregate.GroupByTechnician),
		NeedsTriage:  view.NeedingTriage(scoped),
		GeneratedAt:  time.Now(),
	}
	if unfiltered {
		s.storeOverview(ctx, overview)
	}
	return overview, nil
}

func (s *DashboardService) departmentSnapshot(ctx context.Context, departmentID string) ([]domain.Ticket, error) {
	snapshot, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		DepartmentID: &departmentID,
		Limit:        s.snapshotLimit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return snapshot, nil
}

func (s *DashboardService) cachedOverview(ctx context.Context) *AdminOverview {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, overviewCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var overview AdminOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil
	}
	return &overview
}

func (s *DashboardService) storeOverview(ctx context.Context, overview *AdminOverview) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, overviewCacheKey, raw, s.cacheTTL).Err()
}
