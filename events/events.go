package events

import (
	"context"
	"sync"

	"payouts/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserCreated     EventType = "user_created"
	EventTypeUpdateRequested EventType = "update_requested"
	EventTypeUpdateApproved  EventType = "update_approved"
	EventTypeUpdateDismissed EventType = "update_dismissed"
	EventTypeSessionChange   EventType = "session_change"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserCreatedEvent represents a new user signup
type UserCreatedEvent struct {
	UserID         int64
	Email          string
	Name           string
	InitialBalance models.Cents
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// UpdateRequestedEvent represents a submitted balance change request
type UpdateRequestedEvent struct {
	UpdateID   int64
	UserID     int64
	Name       string
	NewBalance models.Cents
}

func (e UpdateRequestedEvent) Type() EventType {
	return EventTypeUpdateRequested
}

// UpdateApprovedEvent represents an approved balance change
type UpdateApprovedEvent struct {
	UpdateID   int64
	UserID     int64
	OldBalance models.Cents
	NewBalance models.Cents
	ApprovedBy string
}

func (e UpdateApprovedEvent) Type() EventType {
	return EventTypeUpdateApproved
}

// UpdateDismissedEvent represents a pending update discarded without effect
type UpdateDismissedEvent struct {
	UpdateID    int64
	UserID      int64
	DismissedBy string
}

func (e UpdateDismissedEvent) Type() EventType {
	return EventTypeUpdateDismissed
}

// SessionChangeEvent fires on every identity transition: signup, login
// and logout. SignedIn is false when the identity became nil.
type SessionChangeEvent struct {
	UserID   int64
	Email    string
	SignedIn bool
}

func (e SessionChangeEvent) Type() EventType {
	return EventTypeSessionChange
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Call handlers asynchronously to avoid blocking
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the enclosing database
// transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit. Events are emitted on a
// background context; the transaction context may already be done.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events to main event bus")

	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops pending events, called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
