package messaging

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emoclass/emoclass-backend/internal/domain/shared"
)

func syncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: false, EnableMetrics: true})
}

func TestInMemoryEventBus_PublishReachesSubscriber(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var got []string
	err := bus.Subscribe(shared.EventCheckinRecorded, func(event shared.Event) error {
		got = append(got, event.AggregateID())
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(shared.NewCheckinRecordedEvent("s-1", "stressed")))

	assert.Equal(t, []string{"s-1"}, got)
	assert.Equal(t, int64(1), bus.Metrics().Published(shared.EventCheckinRecorded))
	assert.Equal(t, int64(1), bus.Metrics().Handled(shared.EventCheckinRecorded))
}

func TestInMemoryEventBus_NoHandlersIsNotAnError(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	assert.NoError(t, bus.Publish(shared.NewCheckinRecordedEvent("s-1", "sleepy")))
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventCheckinRecorded, func(shared.Event) error {
		return errors.New("handler failed")
	}))

	assert.NoError(t, bus.Publish(shared.NewCheckinRecordedEvent("s-1", "normal")))
	assert.Equal(t, int64(1), bus.Metrics().Failed(shared.EventCheckinRecorded))
}

func TestInMemoryEventBus_AsyncDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{AsyncMode: true, WorkerPoolSize: 2})

	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, bus.Subscribe(shared.EventCheckinRecorded, func(shared.Event) error {
		wg.Done()
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewCheckinRecordedEvent("s-1", "stressed")))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler was never invoked")
	}

	require.NoError(t, bus.Close())
}

func TestInMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	assert.ErrorIs(t, bus.Publish(shared.NewCheckinRecordedEvent("s-1", "happy")), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventCheckinRecorded, func(shared.Event) error { return nil }), ErrEventBusClosed)
}
