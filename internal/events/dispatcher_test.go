package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventComplaintCreated, func(ctx context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventComplaintCreated, TicketID: "SVN00001"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SVN00001", got[0].TicketID)
}

func TestDispatcherIgnoresOtherEventTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventComplaintAssigned, func(ctx context.Context, event Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintCreated}))
	assert.False(t, called)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var order []string
	d.Subscribe(EventComplaintStatusChanged, func(ctx context.Context, event Event) error {
		order = append(order, "first")
		return errors.New("handler failure")
	})
	d.Subscribe(EventComplaintStatusChanged, func(ctx context.Context, event Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintStatusChanged}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventComplaintCreated}))
}
