package repository

import (
	"context"
	"fmt"

	"github.com/jsancolett-dev/agency-os/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	// ResolveOrProvision returns the id of the customer whose stored phone
	// matches candidate.Phone, inserting candidate when no such row exists.
	// The returned flag is true when candidate was inserted. Must run inside
	// a transaction.
	ResolveOrProvision(ctx context.Context, candidate *domain.Customer) (string, bool, error)
}

type customerRepository struct {
	db DB
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(db DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) ResolveOrProvision(ctx context.Context, candidate *domain.Customer) (string, bool, error) {
	// Transaction-scoped advisory lock keyed on the phone serializes
	// concurrent first messages from an unseen number, so the conditional
	// insert below never races with itself.
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, candidate.Phone); err != nil {
		return "", false, fmt.Errorf("lock phone: %w", err)
	}

	const query = `
        WITH existing AS (
            SELECT id FROM customers WHERE phone = $5 ORDER BY created_at ASC LIMIT 1
        ), inserted AS (
            INSERT INTO customers (id, reference_code, company_name, contact_name, phone)
            SELECT $1, $2, $3, $4, $5
            WHERE NOT EXISTS (SELECT 1 FROM existing)
            RETURNING id
        )
        SELECT id, TRUE FROM inserted
        UNION ALL
        SELECT id, FALSE FROM existing`

	var id string
	var provisioned bool
	if err := r.db.QueryRow(ctx, query,
		candidate.ID,
		candidate.ReferenceCode,
		candidate.CompanyName,
		candidate.ContactName,
		candidate.Phone,
	).Scan(&id, &provisioned); err != nil {
		return "", false, err
	}
	return id, provisioned, nil
}
