package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jsancolett-dev/agency-os/internal/domain"
	"github.com/jsancolett-dev/agency-os/internal/events"
	"github.com/jsancolett-dev/agency-os/internal/repository"
)

// referenceCodePrefix marks customers provisioned from WhatsApp leads.
const referenceCodePrefix = "WPP"

// IntakeService turns a normalized webhook event into a customer and an
// open ticket within one transaction.
type IntakeService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	provider   string
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Provider   string
}

// IntakeInput is the canonical inbound event: a sender phone, an optional
// display name, and the message text.
type IntakeInput struct {
	Phone       string
	DisplayName string
	Text        string
}

// IntakeResult reports what one webhook delivery produced.
type IntakeResult struct {
	CustomerID    string
	TicketID      string
	ReferenceCode string
	NewCustomer   bool
}

// NewIntakeService constructs the service.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		provider:   deps.Provider,
	}
}

// HandleInbound resolves (or provisions) the customer for the sender phone
// and opens a ticket against it. Both writes share one transaction: a
// failure leaves neither a dangling ticket nor an orphaned customer.
func (s *IntakeService) HandleInbound(ctx context.Context, input IntakeInput) (*IntakeResult, error) {
	phone := strings.TrimSpace(input.Phone)
	displayName := strings.TrimSpace(input.DisplayName)

	contact := displayName
	if contact == "" {
		contact = domain.ContactNameFallback
	}
	candidate := &domain.Customer{
		ID:            uuid.NewString(),
		ReferenceCode: generateReferenceCode(),
		CompanyName:   leadCompanyName(displayName, phone),
		ContactName:   &contact,
		Phone:         phone,
	}

	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Description: fmt.Sprintf("Primeira mensagem: '%s'", input.Text),
		Owner:       domain.TicketOwnerUnassigned,
		Status:      domain.TicketStatusOpen,
	}

	var result IntakeResult
	err := s.store.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		customerID, provisioned, err := r.Customers.ResolveOrProvision(ctx, candidate)
		if err != nil {
			return fmt.Errorf("resolve customer: %w", err)
		}

		ticket.CustomerID = customerID
		if err := r.Tickets.Create(ctx, ticket); err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}

		result = IntakeResult{
			CustomerID:    customerID,
			TicketID:      ticket.ID,
			ReferenceCode: candidate.ReferenceCode,
			NewCustomer:   provisioned,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("webhook intake failed",
			zap.String("phone", phone),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("ticket opened from webhook",
		zap.String("ticket_id", result.TicketID),
		zap.String("customer_id", result.CustomerID),
		zap.Bool("new_customer", result.NewCustomer))
	s.publishEvents(ctx, candidate, result)

	return &result, nil
}

func (s *IntakeService) publishEvents(ctx context.Context, candidate *domain.Customer, result IntakeResult) {
	if s.dispatcher == nil {
		return
	}
	now := time.Now().UTC()
	if result.NewCustomer {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventLeadCaptured,
			CustomerID: result.CustomerID,
			Timestamp:  now,
			Payload: events.LeadCapturedPayload{
				ReferenceCode: candidate.ReferenceCode,
				CompanyName:   candidate.CompanyName,
				Phone:         candidate.Phone,
			},
		})
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventTicketOpened,
		CustomerID: result.CustomerID,
		TicketID:   result.TicketID,
		Timestamp:  now,
		Payload: events.TicketOpenedPayload{
			Status:      domain.TicketStatusOpen,
			Owner:       domain.TicketOwnerUnassigned,
			Provider:    s.provider,
			NewCustomer: result.NewCustomer,
		},
	})
}

func generateReferenceCode() string {
	return referenceCodePrefix + strings.ToUpper(uuid.NewString()[:5])
}

func leadCompanyName(displayName, phone string) string {
	label := displayName
	if label == "" {
		label = phone
	}
	return fmt.Sprintf("Lead WhatsApp (%s)", label)
}
