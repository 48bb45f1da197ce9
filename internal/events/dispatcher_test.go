package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("FailingHandlerDoesNotBlockOthers", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		d := NewInMemoryDispatcher(zap.New(core))

		var delivered []string
		d.Subscribe(EventTicketOpened, func(context.Context, Event) error {
			delivered = append(delivered, "first")
			return errors.New("boom")
		})
		d.Subscribe(EventTicketOpened, func(context.Context, Event) error {
			delivered = append(delivered, "second")
			return nil
		})

		err := d.Publish(ctx, Event{ID: "evt-1", Type: EventTicketOpened})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, delivered)

		entries := logs.FilterMessage("event handler failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "evt-1", entries[0].ContextMap()["eventId"])
	})

	t.Run("NoSubscribersIsNoOp", func(t *testing.T) {
		d := NewInMemoryDispatcher(zap.NewNop())
		require.NoError(t, d.Publish(ctx, Event{Type: EventUserBanned}))
	})

	t.Run("OnlyMatchingTypeInvoked", func(t *testing.T) {
		d := NewInMemoryDispatcher(zap.NewNop())

		var calls int
		d.Subscribe(EventTicketClosed, func(context.Context, Event) error {
			calls++
			return nil
		})

		require.NoError(t, d.Publish(ctx, Event{Type: EventTicketOpened}))
		require.NoError(t, d.Publish(ctx, Event{Type: EventTicketClosed}))
		assert.Equal(t, 1, calls)
	})
}
