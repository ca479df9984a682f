// Package event provides the game-wide event queue. Events are emitted
// during a tick and delivered in order when the queue is flushed.
package event

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type names an event.
type Type string

const (
	ResetCursor    Type = "reset_cursor"
	CaughtAsteroid Type = "caught_asteroid"
	UpdateHUD      Type = "update_hud"
	Shake          Type = "shake"
	PlanetGrow     Type = "planet_grow"
)

const buildPrefix = "build_"

// maxFlushRounds bounds how many times Flush drains events that handlers
// emit while it runs.
const maxFlushRounds = 64

// Build returns the menu selection event for a building kind.
func Build(kind string) Type {
	return Type(buildPrefix + kind)
}

// BuildKind returns the building kind of a build event.
func (t Type) BuildKind() (string, bool) {
	s := string(t)
	if !strings.HasPrefix(s, buildPrefix) {
		return "", false
	}
	return s[len(buildPrefix):], true
}

// Event is a single emitted event with its positional arguments.
type Event struct {
	Type Type
	Args []any
}

// Arg returns the i-th argument, or nil if absent.
func (e Event) Arg(i int) any {
	if i < 0 || i >= len(e.Args) {
		return nil
	}
	return e.Args[i]
}

// Handler receives delivered events.
type Handler func(Event)

type subscription struct {
	id      uuid.UUID
	handler Handler
	once    bool
}

// Queue buffers emitted events until Flush and fans them out to subscribers.
type Queue struct {
	subs    map[Type][]subscription
	index   map[uuid.UUID]Type
	pending []Event
	logger  *zap.Logger
}

// NewQueue creates an empty queue.
func NewQueue(logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{
		subs:   make(map[Type][]subscription),
		index:  make(map[uuid.UUID]Type),
		logger: logger,
	}
}

// Emit queues an event for delivery on the next Flush.
func (q *Queue) Emit(t Type, args ...any) {
	q.pending = append(q.pending, Event{Type: t, Args: args})
}

// Subscribe registers h for every event of type t.
func (q *Queue) Subscribe(t Type, h Handler) uuid.UUID {
	return q.add(t, h, false)
}

// SubscribeOnce registers h for the next event of type t only.
func (q *Queue) SubscribeOnce(t Type, h Handler) uuid.UUID {
	return q.add(t, h, true)
}

func (q *Queue) add(t Type, h Handler, once bool) uuid.UUID {
	id := uuid.New()
	q.subs[t] = append(q.subs[t], subscription{id: id, handler: h, once: once})
	q.index[id] = t
	return id
}

// Unsubscribe removes a subscription. It reports whether it was present.
func (q *Queue) Unsubscribe(id uuid.UUID) bool {
	t, ok := q.index[id]
	if !ok {
		return false
	}
	delete(q.index, id)

	subs := q.subs[t]
	for i, s := range subs {
		if s.id == id {
			q.subs[t] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(q.subs[t]) == 0 {
		delete(q.subs, t)
	}
	return true
}

// Flush delivers pending events in FIFO order. Events emitted by handlers
// during the flush are delivered in the same call. It returns the number
// of events delivered.
func (q *Queue) Flush() int {
	delivered := 0
	for round := 0; len(q.pending) > 0; round++ {
		if round >= maxFlushRounds {
			q.logger.Warn("event flush did not settle, deferring remaining events",
				zap.Int("pending", len(q.pending)))
			break
		}
		batch := q.pending
		q.pending = nil
		for _, ev := range batch {
			q.deliver(ev)
			delivered++
		}
	}
	return delivered
}

func (q *Queue) deliver(ev Event) {
	subs := q.subs[ev.Type]
	if len(subs) == 0 {
		q.logger.Debug("event dropped, no subscribers", zap.String("event", string(ev.Type)))
		return
	}

	// Handlers may subscribe or unsubscribe while we iterate.
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		if _, live := q.index[s.id]; !live {
			continue
		}
		if s.once {
			q.Unsubscribe(s.id)
		}
		s.handler(ev)
	}
}

// Pending returns the number of events waiting for Flush.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// Subscribers returns the number of live subscriptions for t.
func (q *Queue) Subscribers(t Type) int {
	return len(q.subs[t])
}
