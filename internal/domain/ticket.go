package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen            TicketStatus = "Open"
	TicketStatusInProgress      TicketStatus = "InProgress"
	TicketStatusDone            TicketStatus = "Done"
	TicketStatusWaitingCustomer TicketStatus = "WaitingCustomer"
)

// TicketOwnerUnassigned is the owner placeholder for webhook-opened tickets.
const TicketOwnerUnassigned = "Unassigned"

// Valid reports whether the status is one of the known lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusDone, TicketStatusWaitingCustomer:
		return true
	}
	return false
}

// Ticket is one unit of attendance work for a customer. CSAT is a 1-5
// satisfaction score filled in later by an operator.
type Ticket struct {
	ID          string
	CustomerID  string
	Description string
	Owner       string
	Status      TicketStatus
	CSAT        *int
	CreatedAt   time.Time
}
