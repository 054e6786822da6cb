package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helpdesk-app/helpdesk/internal/api/dto"
	"github.com/helpdesk-app/helpdesk/internal/auth"
	"github.com/helpdesk-app/helpdesk/internal/domain"
	"github.com/helpdesk-app/helpdesk/internal/service"
	apperrors "github.com/helpdesk-app/helpdesk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	logger  *zap.Logger
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, logger *zap.Logger) *TicketsHandler {
	return &TicketsHandler{service: ticketService, logger: logger}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return failResult(c, http.StatusUnauthorized, "You must be logged in to create a ticket")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return failResult(c, http.StatusBadRequest, "Please fill in all fields")
	}
	if req.Subject == "" || req.Description == "" || req.Priority == "" {
		return failResult(c, http.StatusBadRequest, "Please fill in all fields")
	}

	input := service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    domain.TicketPriority(req.Priority),
	}
	if _, err := h.service.CreateTicket(c.Context(), user.ID, input); err != nil {
		return h.normalize(c, err, "An error occurred while creating the ticket")
	}
	return c.Status(http.StatusCreated).JSON(dto.ActionResult{Success: true, Message: "Ticket created successfully"})
}

// ListTickets GET /tickets. Anonymous callers get an empty list, not an error.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return c.JSON(fiber.Map{"data": []dto.TicketResponse{}})
	}
	tickets, err := h.service.ListTickets(c.Context(), user.ID)
	if err != nil {
		return h.normalize(c, err, "An error occurred while fetching tickets")
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return failResult(c, http.StatusBadRequest, "Ticket ID is required")
	}
	ticket, err := h.service.GetTicketByID(c.Context(), id)
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		if domainErr.Code == "NOT_FOUND" {
			return failResult(c, http.StatusNotFound, "There is no ticket with this ID")
		}
		return h.normalize(c, err, "An error occurred while fetching the ticket")
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// CloseTicket POST /tickets/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	var req dto.CloseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return failResult(c, http.StatusBadRequest, "Ticket ID is required")
	}
	if req.TicketID == 0 {
		return failResult(c, http.StatusBadRequest, "Ticket ID is required")
	}
	user, ok := auth.CurrentUser(c)
	if !ok {
		return failResult(c, http.StatusUnauthorized, "Unauthorized")
	}

	if err := h.service.CloseTicket(c.Context(), user.ID, req.TicketID); err != nil {
		return h.normalize(c, err, "An error occurred while closing the ticket")
	}
	return c.JSON(dto.ActionResult{Success: true, Message: "Ticket closed successfully"})
}

func (h *TicketsHandler) normalize(c *fiber.Ctx, err error, genericMsg string) error {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.HTTPStatus >= 500 {
		h.logger.Error("ticket flow failed", zap.Error(domainErr))
		return failResult(c, domainErr.HTTPStatus, genericMsg)
	}
	return failResult(c, domainErr.HTTPStatus, domainErr.Message)
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Description: ticket.Description,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		UserID:      ticket.UserID,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}
