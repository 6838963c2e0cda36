// Package notify implements the notification broker: a single-slot, timed,
// typed status channel the pipeline uses to report outcomes to whatever
// presentation layer is listening.
//
// Publishing replaces the current message and restarts its timer. There is
// no queue.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gaurav-prasanna/sheetpipe/core/pubsub"
)

// Kind is the severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Default display durations per kind.
const (
	SuccessDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
	InfoDuration    = 3 * time.Second
	WarningDuration = 4 * time.Second
)

// Notification is one status message. A zero Duration is sticky.
type Notification struct {
	ID       uint64
	Message  string
	Kind     Kind
	Duration time.Duration
	PostedAt time.Time
}

// Event is delivered to subscribers. Active is false when the slot was
// cleared, either explicitly or by expiry.
type Event struct {
	Notification Notification
	Active       bool
}

// Broker holds at most one current notification.
type Broker struct {
	mu      sync.Mutex
	clock   Clock
	current *Notification
	timer   Timer
	seq     uint64
	topic   *pubsub.Topic[Event]
	logger  *slog.Logger
}

// New creates a Broker. A nil clock uses the system clock; a nil logger
// uses slog.Default().
func New(clock Clock, logger *slog.Logger) *Broker {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		clock:  clock,
		topic:  pubsub.New[Event](),
		logger: logger,
	}
}

// Publish replaces the current notification. A positive duration schedules
// an auto-clear that is cancelled if another message supersedes this one.
func (b *Broker) Publish(message string, kind Kind, duration time.Duration) Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if duration < 0 {
		duration = 0
	}

	b.seq++
	n := Notification{
		ID:       b.seq,
		Message:  message,
		Kind:     kind,
		Duration: duration,
		PostedAt: b.clock.Now(),
	}
	b.current = &n

	if duration > 0 {
		id := n.ID
		b.timer = b.clock.AfterFunc(duration, func() { b.expire(id) })
	}

	b.logger.Debug("notification published", "id", n.ID, "kind", kind, "message", message, "duration", duration)
	b.topic.Publish(Event{Notification: n, Active: true})
	return n
}

// Success publishes a success message with the default duration.
func (b *Broker) Success(message string) Notification {
	return b.Publish(message, KindSuccess, SuccessDuration)
}

// Error publishes an error message with the default duration.
func (b *Broker) Error(message string) Notification {
	return b.Publish(message, KindError, ErrorDuration)
}

// Info publishes an info message with the default duration.
func (b *Broker) Info(message string) Notification {
	return b.Publish(message, KindInfo, InfoDuration)
}

// Warning publishes a warning message with the default duration.
func (b *Broker) Warning(message string) Notification {
	return b.Publish(message, KindWarning, WarningDuration)
}

// Clear drops the current notification.
func (b *Broker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.clearLocked()
}

// Current returns the displayed notification, if any.
func (b *Broker) Current() (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notification{}, false
	}
	return *b.current, true
}

// Subscribe returns a channel of notification events. See pubsub.Topic.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	return b.topic.Subscribe()
}

// Close stops the pending auto-clear and closes every subscriber channel.
// The current notification stays readable through Current.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.topic.Close()
}

// expire clears the slot only if id is still the current message.
func (b *Broker) expire(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.ID != id {
		return
	}
	b.timer = nil
	b.clearLocked()
}

func (b *Broker) clearLocked() {
	if b.current == nil {
		return
	}
	prev := *b.current
	b.current = nil
	b.topic.Publish(Event{Notification: prev, Active: false})
}
