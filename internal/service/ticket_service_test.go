package service

import (
	"context"
	"errors"
	"testing"

	"github.com/helpdesk-app/helpdesk/internal/domain"
	apperrors "github.com/helpdesk-app/helpdesk/pkg/util"
)

func newTicketTestService() (*TicketService, *fakeTicketRepo, *fakeViewCache) {
	repo := newFakeTicketRepo()
	viewCache := newFakeViewCache()
	svc := NewTicketService(TicketDependencies{TicketRepo: repo, Cache: viewCache})
	return svc, repo, viewCache
}

func TestCreateTicket(t *testing.T) {
	svc, repo, viewCache := newTicketTestService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, 1, TicketCreateInput{
		Subject:     "  Printer on fire  ",
		Description: "It is actually on fire",
		Priority:    domain.TicketPriorityHigh,
	})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}

	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status = %q, want Open", ticket.Status)
	}
	if ticket.UserID != 1 {
		t.Errorf("owner = %d, want 1", ticket.UserID)
	}
	if ticket.Subject != "Printer on fire" {
		t.Errorf("subject = %q, want trimmed", ticket.Subject)
	}
	if len(repo.tickets) != 1 {
		t.Fatalf("ticket count = %d, want 1", len(repo.tickets))
	}
	if len(viewCache.listInvalidations) != 1 || viewCache.listInvalidations[0] != 1 {
		t.Errorf("list invalidations = %v, want [1]", viewCache.listInvalidations)
	}
}

func TestListTickets_OwnerScopedAndOrdered(t *testing.T) {
	svc, _, _ := newTicketTestService()
	ctx := context.Background()

	first, err := svc.CreateTicket(ctx, 1, TicketCreateInput{Subject: "first", Description: "d", Priority: domain.TicketPriorityLow})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	second, err := svc.CreateTicket(ctx, 1, TicketCreateInput{Subject: "second", Description: "d", Priority: domain.TicketPriorityLow})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}
	if _, err := svc.CreateTicket(ctx, 2, TicketCreateInput{Subject: "other user", Description: "d", Priority: domain.TicketPriorityLow}); err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}

	tickets, err := svc.ListTickets(ctx, 1)
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("ticket count = %d, want 2", len(tickets))
	}
	for _, ticket := range tickets {
		if ticket.UserID != 1 {
			t.Errorf("listing leaked ticket owned by %d", ticket.UserID)
		}
	}
	// Most recent first.
	if tickets[0].ID != second.ID || tickets[1].ID != first.ID {
		t.Errorf("order = [%d %d], want [%d %d]", tickets[0].ID, tickets[1].ID, second.ID, first.ID)
	}
}

func TestListTickets_ServedFromCache(t *testing.T) {
	svc, repo, viewCache := newTicketTestService()
	ctx := context.Background()

	warm := []domain.Ticket{{ID: 7, Subject: "cached", UserID: 1}}
	viewCache.SetList(ctx, 1, warm)

	tickets, err := svc.ListTickets(ctx, 1)
	if err != nil {
		t.Fatalf("ListTickets() error = %v", err)
	}
	if repo.listCalls != 0 {
		t.Errorf("repo queried %d times despite warm cache", repo.listCalls)
	}
	if len(tickets) != 1 || tickets[0].ID != 7 {
		t.Errorf("tickets = %v, want cached entry", tickets)
	}
}

func TestGetTicketByID(t *testing.T) {
	svc, _, _ := newTicketTestService()
	ctx := context.Background()

	created, err := svc.CreateTicket(ctx, 1, TicketCreateInput{Subject: "s", Description: "d", Priority: domain.TicketPriorityLow})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}

	ticket, err := svc.GetTicketByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTicketByID() error = %v", err)
	}
	if ticket.ID != created.ID {
		t.Errorf("ticket ID = %d, want %d", ticket.ID, created.ID)
	}

	_, err = svc.GetTicketByID(ctx, 404)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestCloseTicket(t *testing.T) {
	svc, repo, viewCache := newTicketTestService()
	ctx := context.Background()

	owned, err := svc.CreateTicket(ctx, 1, TicketCreateInput{Subject: "s", Description: "d", Priority: domain.TicketPriorityHigh})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}

	if err := svc.CloseTicket(ctx, 1, owned.ID); err != nil {
		t.Fatalf("CloseTicket() error = %v", err)
	}
	if got := repo.tickets[owned.ID].Status; got != domain.TicketStatusClosed {
		t.Errorf("status = %q, want Closed", got)
	}
	if len(viewCache.ticketInvalidation) != 1 || viewCache.ticketInvalidation[0] != owned.ID {
		t.Errorf("detail invalidations = %v, want [%d]", viewCache.ticketInvalidation, owned.ID)
	}
	// One invalidation from create, one from close.
	if len(viewCache.listInvalidations) != 2 {
		t.Errorf("list invalidations = %v, want two entries", viewCache.listInvalidations)
	}

	// Closing an already closed ticket is a last-write-wins no-op.
	if err := svc.CloseTicket(ctx, 1, owned.ID); err != nil {
		t.Errorf("re-close error = %v, want nil", err)
	}
}

func TestCloseTicket_ForbiddenCollapsed(t *testing.T) {
	svc, repo, _ := newTicketTestService()
	ctx := context.Background()

	owned, err := svc.CreateTicket(ctx, 1, TicketCreateInput{Subject: "s", Description: "d", Priority: domain.TicketPriorityLow})
	if err != nil {
		t.Fatalf("CreateTicket() error = %v", err)
	}

	tests := []struct {
		name     string
		userID   int64
		ticketID int64
	}{
		{name: "foreign owner", userID: 2, ticketID: owned.ID},
		{name: "missing ticket", userID: 2, ticketID: 404},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CloseTicket(ctx, tt.userID, tt.ticketID)
			var domainErr *apperrors.DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != "FORBIDDEN" {
				t.Fatalf("error = %v, want FORBIDDEN", err)
			}
			messages = append(messages, domainErr.Message)
		})
	}
	// Missing and foreign must be indistinguishable to the caller.
	if len(messages) == 2 && messages[0] != messages[1] {
		t.Errorf("messages differ: %q vs %q", messages[0], messages[1])
	}

	if got := repo.tickets[owned.ID].Status; got != domain.TicketStatusOpen {
		t.Errorf("status = %q, want still Open", got)
	}
}
