package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-app/helpdesk/internal/domain"
	"github.com/helpdesk-app/helpdesk/internal/events"
	"github.com/helpdesk-app/helpdesk/internal/repository"
	apperrors "github.com/helpdesk-app/helpdesk/pkg/util"
)

// ViewCache abstracts the Redis-backed ticket view cache so the service can
// run without one and tests can observe invalidations.
type ViewCache interface {
	GetList(ctx context.Context, userID int64) ([]domain.Ticket, bool)
	SetList(ctx context.Context, userID int64, tickets []domain.Ticket)
	InvalidateList(ctx context.Context, userID int64)
	GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, bool)
	SetTicket(ctx context.Context, ticket *domain.Ticket)
	InvalidateTicket(ctx context.Context, ticketID int64)
}

// TicketCreateInput describes the ticket submission payload.
type TicketCreateInput struct {
	Subject     string
	Description string
	Priority    domain.TicketPriority
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	cache      ViewCache
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Cache      ViewCache
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket creates an open ticket owned by the user and invalidates the
// owner's cached listing.
func (s *TicketService) CreateTicket(ctx context.Context, userID int64, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
		UserID:      userID,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateList(ctx, userID)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:   events.EventTicketCreated,
		UserID: userID,
		Payload: events.TicketCreatedPayload{
			TicketID: ticket.ID,
			Subject:  ticket.Subject,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListTickets returns the user's tickets ordered by creation time descending,
// served from the view cache when warm.
func (s *TicketService) ListTickets(ctx context.Context, userID int64) ([]domain.Ticket, error) {
	if s.cache != nil {
		if tickets, ok := s.cache.GetList(ctx, userID); ok {
			return tickets, nil
		}
	}

	tickets, err := s.tickets.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetList(ctx, userID, tickets)
	}
	return tickets, nil
}

// GetTicketByID looks a ticket up by identifier regardless of owner.
func (s *TicketService) GetTicketByID(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	if s.cache != nil {
		if ticket, ok := s.cache.GetTicket(ctx, ticketID); ok {
			return ticket, nil
		}
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetTicket(ctx, ticket)
	}
	return ticket, nil
}

// CloseTicket transitions a ticket to Closed. Only the owner may close it;
// a missing ticket and a foreign owner produce the identical error so the
// response leaks nothing about ticket existence.
func (s *TicketService) CloseTicket(ctx context.Context, userID, ticketID int64) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewForbidden("You are not authorized to close this ticket")
		}
		return err
	}
	if ticket.UserID != userID {
		return apperrors.NewForbidden("You are not authorized to close this ticket")
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusClosed); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateList(ctx, userID)
		s.cache.InvalidateTicket(ctx, ticketID)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:   events.EventTicketClosed,
		UserID: userID,
		Payload: events.TicketClosedPayload{
			TicketID:  ticketID,
			OldStatus: oldStatus,
		},
	})
	return nil
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}
