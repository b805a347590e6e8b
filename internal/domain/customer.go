package domain

import "time"

// ContactNameFallback is stored when a webhook-provisioned lead carries no
// display name.
const ContactNameFallback = "Não informado"

// Customer is an agency client account. Records are created either by a
// dashboard operator or auto-provisioned from an inbound webhook; the
// gateway never mutates or deletes them.
type Customer struct {
	ID            string
	ReferenceCode string
	CompanyName   string
	ContactName   *string
	Email         *string
	Phone         string
	CreatedAt     time.Time
}
