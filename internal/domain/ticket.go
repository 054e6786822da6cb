package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "Open"
	TicketStatusClosed TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels offered on the submission form.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// Ticket is the aggregate for support requests. UserID identifies the owner
// and never changes after creation.
type Ticket struct {
	ID          int64
	Subject     string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	UserID      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
