package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/view"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// StaffTicketsHandler manages technician and department head work on tickets.
type StaffTicketsHandler struct {
	complaints *service.ComplaintService
	dashboards *service.DashboardService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(complaints *service.ComplaintService, dashboards *service.DashboardService) *StaffTicketsHandler {
	return &StaffTicketsHandler{complaints: complaints, dashboards: dashboards}
}

// ListQueue GET /staff/tickets returns the technician's queue or history.
func (h *StaffTicketsHandler) ListQueue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	v := view.TechnicianViewQueue
	if strings.EqualFold(c.Query("view"), string(view.TechnicianViewHistory)) {
		v = view.TechnicianViewHistory
	}
	tickets, err := h.dashboards.TechnicianTickets(c.Context(), principal.User, v)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// Claim POST /staff/tickets/:id/claim lets a technician take an open ticket.
func (h *StaffTicketsHandler) Claim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.complaints.AssignTicket(c.Context(), principal.User, c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Assign POST /staff/tickets/:id/assign places a ticket with a named technician.
func (h *StaffTicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TechnicianID) == "" {
		return apperrors.NewValidationError("technician_id required", nil)
	}
	ticket, err := h.complaints.AssignTicket(c.Context(), principal.User, c.Params("id"), req.TechnicianID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Complete POST /staff/tickets/:id/complete closes out assigned work.
func (h *StaffTicketsHandler) Complete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CompleteTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.complaints.CompleteTicket(c.Context(), principal.User, c.Params("id"), req.EvidenceRef, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Reject POST /staff/tickets/:id/reject terminates a ticket with a reason.
func (h *StaffTicketsHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RejectTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.complaints.RejectTicket(c.Context(), principal.User, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}
