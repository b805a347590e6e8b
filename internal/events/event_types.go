package events

import (
	"time"

	"github.com/jsancolett-dev/agency-os/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLeadCaptured EventType = "lead_captured"
	EventTicketOpened EventType = "ticket_opened"
)

// Event represents a domain event emitted by the webhook pipeline.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CustomerID string      `json:"customer_id"`
	TicketID   string      `json:"ticket_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// LeadCapturedPayload describes a customer auto-provisioned from a webhook.
type LeadCapturedPayload struct {
	ReferenceCode string `json:"reference_code"`
	CompanyName   string `json:"company_name"`
	Phone         string `json:"phone"`
}

// TicketOpenedPayload describes a ticket opened by the webhook pipeline.
type TicketOpenedPayload struct {
	Status      domain.TicketStatus `json:"status"`
	Owner       string              `json:"owner"`
	Provider    string              `json:"provider,omitempty"`
	NewCustomer bool                `json:"new_customer"`
}
