// Package events provides a minimal publish/subscribe registry keyed by
// event name.
package events

// Emitter maps event names to ordered handler lists. The zero value is
// ready to use. It is not safe for concurrent use; handlers run on the
// goroutine that calls Trigger.
type Emitter[T any] struct {
	handlers map[string][]func(T)
}

// On registers fn for name. Registering the same function twice makes it
// run twice.
func (e *Emitter[T]) On(name string, fn func(T)) {
	if fn == nil {
		return
	}
	if e.handlers == nil {
		e.handlers = make(map[string][]func(T))
	}
	e.handlers[name] = append(e.handlers[name], fn)
}

// Trigger calls every handler registered for name, in registration order.
// Handlers registered while triggering run from the next Trigger on.
func (e *Emitter[T]) Trigger(name string, data T) {
	for _, fn := range e.handlers[name] {
		fn(data)
	}
}

// Count returns the number of handlers registered for name.
func (e *Emitter[T]) Count(name string) int {
	return len(e.handlers[name])
}
