package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// TicketsHandler manages end-user complaint endpoints.
type TicketsHandler struct {
	complaints *service.ComplaintService
	dashboards *service.DashboardService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(complaints *service.ComplaintService, dashboards *service.DashboardService) *TicketsHandler {
	return &TicketsHandler{complaints: complaints, dashboards: dashboards}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.complaints.CreateTicket(c.Context(), principal.User, service.ComplaintDraftInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Floor:          req.Floor,
		Location:       req.Location,
		EvidenceBefore: req.EvidenceBefore,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets returns the caller's own complaints with a rollup.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, stats, err := h.dashboards.UserTickets(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  ticketResponses(tickets),
		"stats": stats,
	})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.complaints.GetTicketFor(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	limit, offset := parsePagination(c)
	entries, err := h.complaints.ListHistoryFor(c.Context(), principal.User, c.Params("id"), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.TicketHistoryResponse{
			ID:          entry.ID,
			ChangeType:  entry.ChangeType,
			ChangedByID: entry.ChangedByID,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:              ticket.ID,
		ExternalKey:     ticket.ExternalKey,
		CreatorID:       ticket.CreatorID,
		DepartmentID:    ticket.DepartmentID,
		AssigneeID:      ticket.AssigneeID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Category:        ticket.Category,
		Floor:           ticket.Floor,
		Location:        ticket.Location,
		Status:          ticket.Status,
		NeedsTriage:     ticket.NeedsTriage,
		EvidenceBefore:  ticket.EvidenceBefore,
		EvidenceAfter:   ticket.EvidenceAfter,
		CompletionNotes: ticket.CompletionNotes,
		RejectReason:    ticket.RejectReason,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		AssignedAt:      ticket.AssignedAt,
		CompletedAt:     ticket.CompletedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}
