package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/lifecycle"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/routing"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintService drives the ticket lifecycle: routing on creation and
// the guarded transitions. Every transition is a conditional update
// against the store; a lost race surfaces as CONFLICT and is retryable.
type ComplaintService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	history    repository.TicketHistoryRepository
	resolver   *routing.Resolver
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	opTimeout  time.Duration
}

// ComplaintDependencies bundles collaborators for the service.
type ComplaintDependencies struct {
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	HistoryRepo repository.TicketHistoryRepository
	Resolver    *routing.Resolver
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	// OpTimeout bounds each store round trip. Zero means the caller's
	// context deadline is the only bound.
	OpTimeout time.Duration
}

// ComplaintDraftInput describes a new complaint payload.
type ComplaintDraftInput struct {
	Title          string
	Description    string
	Category       string
	Floor          *string
	Location       string
	EvidenceBefore *string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		resolver:   deps.Resolver,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		opTimeout:  deps.OpTimeout,
	}
}

// CreateTicket routes a draft and stores it in OPEN.
func (s *ComplaintService) CreateTicket(ctx context.Context, creator *domain.User, input ComplaintDraftInput) (*domain.Ticket, error) {
	if creator == nil {
		return nil, apperrors.NewUnauthorized("authenticated creator required")
	}
	draft := domain.TicketDraft{
		CreatorID:      creator.ID,
		Title:          input.Title,
		Description:    input.Description,
		Category:       input.Category,
		Floor:          input.Floor,
		Location:       input.Location,
		EvidenceBefore: input.EvidenceBefore,
	}

	placement := s.resolver.Route(draft)
	ticket, err := lifecycle.Create(draft, placement, time.Now())
	if err != nil {
		return nil, err
	}
	ticket.ExternalKey = generateTicketKey()

	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.tickets.Create(ctx, &ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordStatusChange(ctx, &creator.ID, ticket.ID, "", ticket.Status)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(creator),
		Payload: events.TicketCreatedPayload{
			DepartmentID: ticket.DepartmentID,
			Category:     ticket.Category,
			Floor:        ticket.Floor,
			RoutingBasis: string(placement.Basis),
			NeedsTriage:  ticket.NeedsTriage,
			Title:        ticket.Title,
		},
	})
	return &ticket, nil
}

// AssignTicket attaches a technician to an OPEN ticket. Technicians may
// claim tickets in their own department; heads assign within theirs; the
// super-admin assigns anywhere.
func (s *ComplaintService) AssignTicket(ctx context.Context, actor *domain.User, ticketID, technicianID string) (*domain.Ticket, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, ticket); err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleTechnician && actor.ID != technicianID {
		return nil, apperrors.NewForbidden("technicians may only claim tickets for themselves")
	}

	technician, err := s.users.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"user_id": technicianID})
		}
		return nil, apperrors.MapError(err)
	}
	if technician.Status != domain.UserStatusActive {
		return nil, apperrors.NewForbidden("technician suspended")
	}

	expected := ticket.Status
	updated, err := lifecycle.Assign(*ticket, technician, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.applyTransition(ctx, &updated, expected); err != nil {
		return nil, err
	}

	s.recordStatusChange(ctx, &actor.ID, updated.ID, expected, updated.Status)
	s.recordAssigneeChange(ctx, actor.ID, updated.ID, ticket.AssigneeID, updated.AssigneeID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: updated.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketAssignedPayload{
			DepartmentID: updated.DepartmentID,
			AssigneeID:   technician.ID,
		},
	})
	return &updated, nil
}

// CompleteTicket closes an ASSIGNED ticket with completion evidence.
// Only the assigned technician (or the super-admin) may complete.
func (s *ComplaintService) CompleteTicket(ctx context.Context, actor *domain.User, ticketID, evidenceRef, notes string) (*domain.Ticket, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, ticket); err != nil {
		return nil, err
	}

	expected := ticket.Status
	updated, err := lifecycle.Complete(*ticket, evidenceRef, notes, time.Now())
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleSuperAdmin {
		if ticket.AssigneeID == nil || *ticket.AssigneeID != actor.ID {
			return nil, apperrors.NewForbidden("only the assigned technician may complete")
		}
	}
	if err := s.applyTransition(ctx, &updated, expected); err != nil {
		return nil, err
	}

	s.recordStatusChange(ctx, &actor.ID, updated.ID, expected, updated.Status)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCompleted,
		TicketID: updated.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCompletedPayload{
			DepartmentID: updated.DepartmentID,
			AssigneeID:   updated.AssigneeID,
			EvidenceRef:  strings.TrimSpace(evidenceRef),
			Notes:        updated.CompletionNotes,
		},
	})
	return &updated, nil
}

// RejectTicket terminates a ticket from OPEN or ASSIGNED with a reason.
func (s *ComplaintService) RejectTicket(ctx context.Context, actor *domain.User, ticketID, reason string) (*domain.Ticket, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, ticket); err != nil {
		return nil, err
	}

	expected := ticket.Status
	updated, err := lifecycle.Reject(*ticket, reason, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.applyTransition(ctx, &updated, expected); err != nil {
		return nil, err
	}

	s.recordStatusChange(ctx, &actor.ID, updated.ID, expected, updated.Status)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRejected,
		TicketID: updated.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketRejectedPayload{
			DepartmentID: updated.DepartmentID,
			Reason:       strings.TrimSpace(reason),
		},
	})
	return &updated, nil
}

// GetTicketFor fetches a ticket the caller is allowed to see.
func (s *ComplaintService) GetTicketFor(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canSee(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return ticket, nil
}

// ListHistoryFor returns the transition audit trail for a visible ticket.
func (s *ComplaintService) ListHistoryFor(ctx context.Context, caller *domain.User, ticketID string, limit, offset int) ([]domain.TicketHistory, error) {
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	ctx, cancel := s.bound(ctx)
	defer cancel()

	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canSee(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	entries, err := s.history.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *ComplaintService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// applyTransition writes the transition under the optimistic guard.
func (s *ComplaintService) applyTransition(ctx context.Context, ticket *domain.Ticket, expected domain.TicketStatus) error {
	err := s.tickets.UpdateIfStatus(ctx, ticket, expected)
	if err == nil {
		s.metrics.RecordTransition(string(expected), string(ticket.Status))
		return nil
	}
	if errors.Is(err, repository.ErrStaleStatus) {
		return apperrors.NewConcurrentModification(map[string]any{
			"ticket_id":       ticket.ID,
			"expected_status": string(expected),
		})
	}
	return apperrors.MapError(err)
}

// authorizeMutation checks department-level rights over the ticket.
func (s *ComplaintService) authorizeMutation(actor *domain.User, ticket *domain.Ticket) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authenticated actor required")
	}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return nil
	case domain.RoleTechnician, domain.RoleDepartmentHead:
		if actor.DepartmentID == nil || *actor.DepartmentID != ticket.DepartmentID {
			return apperrors.NewForbidden("actor outside ticket department")
		}
		return nil
	default:
		return apperrors.NewForbidden("role may not mutate tickets")
	}
}

func canSee(caller *domain.User, ticket *domain.Ticket) bool {
	if caller == nil {
		return false
	}
	switch caller.Role {
	case domain.RoleSuperAdmin:
		return true
	case domain.RoleTechnician, domain.RoleDepartmentHead:
		return caller.DepartmentID != nil && *caller.DepartmentID == ticket.DepartmentID
	default:
		return ticket.CreatorID == caller.ID
	}
}

func (s *ComplaintService) recordStatusChange(ctx context.Context, actorID *string, ticketID string, oldStatus, newStatus domain.TicketStatus) {
	if s.history == nil {
		return
	}
	entry := &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: actorID,
		ChangeType:  domain.ChangeTypeStatus,
		OldValue: map[string]any{
			"status": oldStatus,
		},
		NewValue: map[string]any{
			"status": newStatus,
		},
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("ticket history write failed",
			zap.String("ticket_id", ticketID),
			zap.String("change_type", string(domain.ChangeTypeStatus)),
			zap.Error(err))
	}
}

func (s *ComplaintService) recordAssigneeChange(ctx context.Context, actorID string, ticketID string, oldAssignee, newAssignee *string) {
	if s.history == nil {
		return
	}
	entry := &domain.TicketHistory{
		TicketID:    ticketID,
		ChangedByID: &actorID,
		ChangeType:  domain.ChangeTypeAssignee,
		OldValue: map[string]any{
			"assignee_user_id": oldAssignee,
		},
		NewValue: map[string]any{
			"assignee_user_id": newAssignee,
		},
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Warn("ticket history write failed",
			zap.String("ticket_id", ticketID),
			zap.String("change_type", string(domain.ChangeTypeAssignee)),
			zap.Error(err))
	}
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func (s *ComplaintService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func actorOf(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: user.ID, Role: user.Role}
}

func generateTicketKey() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
