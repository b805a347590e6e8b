package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesAllSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	d.Subscribe(EventTicketOpened, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("handler failure must not stop delivery")
	})
	d.Subscribe(EventTicketOpened, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketOpened, TicketID: "t-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	d := NewInMemoryDispatcher()
	err := d.Publish(context.Background(), Event{Type: EventLeadCaptured})
	require.NoError(t, err)
}
