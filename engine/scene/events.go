package scene

import (
	"sync"
)

type EventType int

const (
	// A valid resource path was accepted. Context carries the new path.
	EventPathChanged EventType = iota
	// The current load's completion resolved. No payload.
	EventLoaded
)

type EventContext struct {
	Type EventType
	// Path is set for EventPathChanged only.
	Path string
}

type EventHandler func(context EventContext)

type registeredHandler struct {
	id      uint64
	handler EventHandler
}

// eventRegistry dispatches the manager's closed set of notifications to
// subscribed handlers in registration order.
type eventRegistry struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[EventType][]registeredHandler
}

func newEventRegistry() *eventRegistry {
	return &eventRegistry{
		handlers: make(map[EventType][]registeredHandler),
	}
}

func (r *eventRegistry) subscribe(eventType EventType, handler EventHandler) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.handlers[eventType] = append(r.handlers[eventType], registeredHandler{
		id:      r.nextID,
		handler: handler,
	})
	return r.nextID
}

func (r *eventRegistry) unsubscribe(eventType EventType, id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	registered := r.handlers[eventType]
	for i, e := range registered {
		if e.id == id {
			r.handlers[eventType] = append(registered[:i], registered[i+1:]...)
			return true
		}
	}
	return false
}

// fire invokes the handlers registered for the context's type, synchronously
// on the calling goroutine. The handler list is copied first so a handler may
// subscribe or unsubscribe without invalidating the dispatch.
func (r *eventRegistry) fire(context EventContext) {
	r.mu.Lock()
	registered := make([]registeredHandler, len(r.handlers[context.Type]))
	copy(registered, r.handlers[context.Type])
	r.mu.Unlock()

	for _, e := range registered {
		e.handler(context)
	}
}

func (r *eventRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[EventType][]registeredHandler)
}
