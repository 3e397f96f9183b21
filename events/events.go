package events

import (
	"context"
	"sync"

	"gmbot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeLotteryPlayed EventType = "lottery_played"
	EventTypeMemberJoined  EventType = "member_joined"
	EventTypeRaceStarted   EventType = "race_started"
	EventTypeRaceFinished  EventType = "race_finished"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a wallet balance change that occurred
type BalanceChangeEvent struct {
	UserID       int64
	GuildID      int64
	ResourceKind models.ResourceKind
	Delta        int64
	NewBalance   int64
	Reason       string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// LotteryPlayedEvent represents a completed lottery play
type LotteryPlayedEvent struct {
	UserID       int64
	GuildID      int64
	Payout       int64
	VaultBalance int64
}

func (e LotteryPlayedEvent) Type() EventType {
	return EventTypeLotteryPlayed
}

// MemberJoinedEvent represents the first observed activity of a member
type MemberJoinedEvent struct {
	UserID  int64
	GuildID int64
}

func (e MemberJoinedEvent) Type() EventType {
	return EventTypeMemberJoined
}

// RaceStartedEvent represents a race leaving the PREPARED state
type RaceStartedEvent struct {
	RaceID       int64
	GuildID      int64
	HostUserID   int64
	Participants int
}

func (e RaceStartedEvent) Type() EventType {
	return EventTypeRaceStarted
}

// RaceFinishedEvent represents a race reaching the FINISHED state
type RaceFinishedEvent struct {
	RaceID  int64
	GuildID int64
}

func (e RaceFinishedEvent) Type() EventType {
	return EventTypeRaceFinished
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

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events outlive the transaction context; emit on a fresh one.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
