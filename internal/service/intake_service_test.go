package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jsancolett-dev/agency-os/internal/domain"
	"github.com/jsancolett-dev/agency-os/internal/events"
	"github.com/jsancolett-dev/agency-os/internal/repository"
)

// memStore is an in-memory Store with transactional rollback semantics.
type memStore struct {
	mu            sync.Mutex
	customers     []domain.Customer
	tickets       []domain.Ticket
	failTicket    error
	failCustomers error
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	custSnapshot := append([]domain.Customer(nil), m.customers...)
	tickSnapshot := append([]domain.Ticket(nil), m.tickets...)

	repos := repository.Repositories{
		Customers: &memCustomers{store: m},
		Tickets:   &memTickets{store: m},
	}
	if err := fn(ctx, repos); err != nil {
		m.customers = custSnapshot
		m.tickets = tickSnapshot
		return err
	}
	return nil
}

type memCustomers struct {
	store *memStore
}

func (r *memCustomers) ResolveOrProvision(ctx context.Context, candidate *domain.Customer) (string, bool, error) {
	if r.store.failCustomers != nil {
		return "", false, r.store.failCustomers
	}
	for _, c := range r.store.customers {
		if c.Phone == candidate.Phone {
			return c.ID, false, nil
		}
	}
	r.store.customers = append(r.store.customers, *candidate)
	return candidate.ID, true, nil
}

type memTickets struct {
	store *memStore
}

func (r *memTickets) Create(ctx context.Context, ticket *domain.Ticket) error {
	if r.store.failTicket != nil {
		return r.store.failTicket
	}
	r.store.tickets = append(r.store.tickets, *ticket)
	return nil
}

func newTestIntake(store repository.Store) (*IntakeService, events.Dispatcher) {
	dispatcher := events.NewInMemoryDispatcher()
	return NewIntakeService(IntakeDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Provider:   "umbler",
	}), dispatcher
}

func TestHandleInboundProvisionsCustomerAndOpensTicket(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestIntake(store)

	result, err := svc.HandleInbound(context.Background(), IntakeInput{
		Phone:       "5511999998888",
		DisplayName: "Maria",
		Text:        "Oi, preciso de ajuda",
	})
	require.NoError(t, err)
	assert.True(t, result.NewCustomer)

	require.Len(t, store.customers, 1)
	customer := store.customers[0]
	assert.Equal(t, "5511999998888", customer.Phone)
	assert.Equal(t, "Lead WhatsApp (Maria)", customer.CompanyName)
	require.NotNil(t, customer.ContactName)
	assert.Equal(t, "Maria", *customer.ContactName)
	assert.Regexp(t, regexp.MustCompile(`^WPP[0-9A-F]{5}$`), customer.ReferenceCode)

	require.Len(t, store.tickets, 1)
	ticket := store.tickets[0]
	assert.Equal(t, customer.ID, ticket.CustomerID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketOwnerUnassigned, ticket.Owner)
	assert.Contains(t, ticket.Description, "Oi, preciso de ajuda")
}

func TestHandleInboundWithoutDisplayNameUsesPhoneAndFallback(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestIntake(store)

	_, err := svc.HandleInbound(context.Background(), IntakeInput{
		Phone: "5511988887777",
		Text:  "olá",
	})
	require.NoError(t, err)

	require.Len(t, store.customers, 1)
	customer := store.customers[0]
	assert.Equal(t, "Lead WhatsApp (5511988887777)", customer.CompanyName)
	require.NotNil(t, customer.ContactName)
	assert.Equal(t, domain.ContactNameFallback, *customer.ContactName)
}

func TestHandleInboundReusesExistingCustomer(t *testing.T) {
	store := &memStore{}
	svc, _ := newTestIntake(store)

	first, err := svc.HandleInbound(context.Background(), IntakeInput{Phone: "5511999998888", Text: "primeira"})
	require.NoError(t, err)
	second, err := svc.HandleInbound(context.Background(), IntakeInput{Phone: "5511999998888", Text: "segunda"})
	require.NoError(t, err)

	assert.False(t, second.NewCustomer)
	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.NotEqual(t, first.TicketID, second.TicketID)
	assert.Len(t, store.customers, 1)
	assert.Len(t, store.tickets, 2)
}

func TestHandleInboundRollsBackOnTicketFailure(t *testing.T) {
	store := &memStore{failTicket: errors.New("connection reset")}
	svc, _ := newTestIntake(store)

	_, err := svc.HandleInbound(context.Background(), IntakeInput{Phone: "5511999998888", Text: "oi"})
	require.Error(t, err)

	assert.Empty(t, store.customers, "auto-provisioned customer must not outlive a failed ticket insert")
	assert.Empty(t, store.tickets)
}

func TestHandleInboundPublishesEvents(t *testing.T) {
	store := &memStore{}
	svc, dispatcher := newTestIntake(store)

	var captured []events.Event
	dispatcher.Subscribe(events.EventLeadCaptured, func(ctx context.Context, e events.Event) error {
		captured = append(captured, e)
		return nil
	})
	dispatcher.Subscribe(events.EventTicketOpened, func(ctx context.Context, e events.Event) error {
		captured = append(captured, e)
		return nil
	})

	result, err := svc.HandleInbound(context.Background(), IntakeInput{Phone: "551100001111", Text: "oi"})
	require.NoError(t, err)

	require.Len(t, captured, 2)
	assert.Equal(t, events.EventLeadCaptured, captured[0].Type)
	assert.Equal(t, events.EventTicketOpened, captured[1].Type)
	assert.Equal(t, result.TicketID, captured[1].TicketID)

	// A repeat delivery from a known phone only announces the ticket.
	captured = nil
	_, err = svc.HandleInbound(context.Background(), IntakeInput{Phone: "551100001111", Text: "de novo"})
	require.NoError(t, err)
	require.Len(t, captured, 1)
	assert.Equal(t, events.EventTicketOpened, captured[0].Type)
}

func TestGenerateReferenceCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := generateReferenceCode()
		assert.Regexp(t, regexp.MustCompile(`^WPP[0-9A-F]{5}$`), code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
