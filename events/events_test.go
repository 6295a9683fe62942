package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"payouts/models"

	"github.com/stretchr/testify/assert"
)

// TestEventDeliveryIntegration tests the complete flow from TransactionalBus to the main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan UpdateApprovedEvent, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	mainBus.Subscribe(EventTypeUpdateApproved, func(ctx context.Context, event Event) {
		defer wg.Done()
		if approvedEvent, ok := event.(UpdateApprovedEvent); ok {
			select {
			case eventReceived <- approvedEvent:
			case <-time.After(1 * time.Second):
				t.Error("Timeout sending event to channel")
			}
		} else {
			t.Errorf("Expected UpdateApprovedEvent, got %T", event)
		}
	})

	testEvent := UpdateApprovedEvent{
		UpdateID:   42,
		UserID:     7,
		OldBalance: models.Cents(1000),
		NewBalance: models.Cents(123450),
		ApprovedBy: "mod@example.com",
	}

	// Publish to the transactional bus (simulating the service layer)
	transactionalBus.Publish(testEvent)

	// Flush events (simulating a successful transaction commit)
	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	wg.Wait()

	select {
	case receivedEvent := <-eventReceived:
		assert.Equal(t, testEvent, receivedEvent)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestDiscardedEventsNotDelivered tests that rollback drops pending events
func TestDiscardedEventsNotDelivered(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	delivered := make(chan Event, 1)
	mainBus.Subscribe(EventTypeUpdateRequested, func(ctx context.Context, event Event) {
		delivered <- event
	})

	transactionalBus.Publish(UpdateRequestedEvent{UpdateID: 42, UserID: 7})
	transactionalBus.Discard()

	err := transactionalBus.Flush(context.Background())
	assert.NoError(t, err)

	select {
	case <-delivered:
		t.Fatal("Discarded event should not be delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestSessionChangeSubscription tests the at-subscription-time contract
// for session notifications: every transition reaches every handler.
func TestSessionChangeSubscription(t *testing.T) {
	bus := NewBus()

	received := make(chan SessionChangeEvent, 2)
	bus.Subscribe(EventTypeSessionChange, func(ctx context.Context, event Event) {
		if e, ok := event.(SessionChangeEvent); ok {
			received <- e
		}
	})

	bus.Emit(context.Background(), SessionChangeEvent{UserID: 7, Email: "asha@example.com", SignedIn: true})
	bus.Emit(context.Background(), SessionChangeEvent{UserID: 7, Email: "asha@example.com", SignedIn: false})

	first := <-received
	second := <-received

	// Handlers run asynchronously so arrival order is not guaranteed,
	// but both transitions must arrive.
	assert.NotEqual(t, first.SignedIn, second.SignedIn)
}
