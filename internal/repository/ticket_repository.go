package repository

import (
	"context"

	"github.com/jsancolett-dev/agency-os/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
}

type ticketRepository struct {
	db DB
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, customer_id, description, owner, status, csat)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.db.QueryRow(ctx, query,
		ticket.ID,
		ticket.CustomerID,
		ticket.Description,
		ticket.Owner,
		ticket.Status,
		ticket.CSAT,
	).Scan(&ticket.CreatedAt)
}
