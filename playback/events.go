package playback

import "sync"

// EventType identifies a playback notification.
type EventType string

const (
	// EventFrameChanged fires when the displayed frame index changes.
	EventFrameChanged EventType = "frame_changed"
	// EventFinished fires when a one-shot animation reaches its last entry.
	EventFinished EventType = "finished"
	// EventHalted fires whenever playback stops on its own or by Stop.
	EventHalted EventType = "halted"
)

// Event is the payload passed to handlers. Cursor is a position in the
// forward sequence; FrameIndex is a frame-array position (-1 for none).
type Event struct {
	Type       EventType
	Animation  string
	Cursor     int
	FrameIndex int
}

// Handler receives playback events.
type Handler func(evt Event)

// Bus dispatches events to subscribed handlers. It is safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers map[EventType][]subscription
}

type subscription struct {
	id int
	fn Handler
}

// Subscribe registers h for events of type evt and returns a func that
// removes it. Calling the returned func more than once is harmless.
func (b *Bus) Subscribe(evt EventType, h Handler) func() {
	if b == nil || h == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = make(map[EventType][]subscription)
	}
	b.nextID++
	id := b.nextID
	b.handlers[evt] = append(b.handlers[evt], subscription{id: id, fn: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.handlers[evt]
			for i, s := range subs {
				if s.id == id {
					b.handlers[evt] = append(subs[:i:i], subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Emit sends evt to all handlers of its type.
func (b *Bus) Emit(evt Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	subs := append([]subscription(nil), b.handlers[evt.Type]...)
	b.mu.Unlock()
	for _, s := range subs {
		s.fn(evt)
	}
}

// eventQueue collects events under the scheduler lock so they can be
// emitted after it is released.
type eventQueue struct {
	items []Event
}

func (q *eventQueue) push(evt Event) {
	q.items = append(q.items, evt)
}

func (q *eventQueue) drain() []Event {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
