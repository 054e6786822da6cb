package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-app/helpdesk/internal/domain"
)

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTicketRepo struct {
	tickets   map[int64]*domain.Ticket
	nextID    int64
	listCalls int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]*domain.Ticket), nextID: 1}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = r.nextID
	r.nextID++
	// Distinct timestamps so descending order is observable.
	ticket.CreatedAt = time.Now().Add(time.Duration(ticket.ID) * time.Millisecond)
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListByOwner(_ context.Context, userID int64) ([]domain.Ticket, error) {
	r.listCalls++
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.UserID == userID {
			result = append(result, *ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id int64, status domain.TicketStatus) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	return nil
}

type fakeViewCache struct {
	lists              map[int64][]domain.Ticket
	details            map[int64]*domain.Ticket
	listInvalidations  []int64
	ticketInvalidation []int64
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{
		lists:   make(map[int64][]domain.Ticket),
		details: make(map[int64]*domain.Ticket),
	}
}

func (c *fakeViewCache) GetList(_ context.Context, userID int64) ([]domain.Ticket, bool) {
	tickets, ok := c.lists[userID]
	return tickets, ok
}

func (c *fakeViewCache) SetList(_ context.Context, userID int64, tickets []domain.Ticket) {
	c.lists[userID] = tickets
}

func (c *fakeViewCache) InvalidateList(_ context.Context, userID int64) {
	delete(c.lists, userID)
	c.listInvalidations = append(c.listInvalidations, userID)
}

func (c *fakeViewCache) GetTicket(_ context.Context, ticketID int64) (*domain.Ticket, bool) {
	ticket, ok := c.details[ticketID]
	return ticket, ok
}

func (c *fakeViewCache) SetTicket(_ context.Context, ticket *domain.Ticket) {
	c.details[ticket.ID] = ticket
}

func (c *fakeViewCache) InvalidateTicket(_ context.Context, ticketID int64) {
	delete(c.details, ticketID)
	c.ticketInvalidation = append(c.ticketInvalidation, ticketID)
}
