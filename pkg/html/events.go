package html

// Event is a DOM event delivered to Go listeners.
type Event struct {
	Type   string
	Target *Node

	// Pointer events
	ClientX float64
	ClientY float64

	// Transition events
	PropertyName string
	ElapsedTime  float64

	Detail any

	currentTarget *Node
	stopped       bool
}

// CurrentTarget is the node whose listener is running.
func (e *Event) CurrentTarget() *Node {
	return e.currentTarget
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// EventListener is a Go callback registered on a node.
type EventListener func(*Event)

// ListenerID identifies a registration so it can be removed later.
type ListenerID int

// ListenerOptions mirrors the addEventListener options bag.
type ListenerOptions struct {
	Once bool
}

type eventListener struct {
	id       ListenerID
	callback EventListener
	options  ListenerOptions
}

// EventTarget manages the listeners of one node. Dispatch happens on the
// caller's goroutine; it is not safe for concurrent use.
type EventTarget struct {
	listeners map[string][]eventListener
	nextID    ListenerID
}

func newEventTarget() *EventTarget {
	return &EventTarget{listeners: make(map[string][]eventListener)}
}

func (et *EventTarget) add(eventType string, fn EventListener, opts ListenerOptions) ListenerID {
	et.nextID++
	et.listeners[eventType] = append(et.listeners[eventType], eventListener{
		id:       et.nextID,
		callback: fn,
		options:  opts,
	})
	return et.nextID
}

func (et *EventTarget) remove(eventType string, id ListenerID) bool {
	listeners := et.listeners[eventType]
	for i, l := range listeners {
		if l.id == id {
			et.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
			return true
		}
	}
	return false
}

// dispatch runs a snapshot of the listeners so that listeners added or
// removed while dispatching do not affect the current round.
func (et *EventTarget) dispatch(event *Event) {
	listeners := make([]eventListener, len(et.listeners[event.Type]))
	copy(listeners, et.listeners[event.Type])

	for _, l := range listeners {
		if l.options.Once {
			et.remove(event.Type, l.id)
		}
		l.callback(event)
	}
}

// AddEventListener registers fn for eventType on n.
func (n *Node) AddEventListener(eventType string, fn EventListener, opts ListenerOptions) ListenerID {
	if n.events == nil {
		n.events = newEventTarget()
	}
	return n.events.add(eventType, fn, opts)
}

// RemoveEventListener unregisters a listener. It reports whether the
// listener was still registered.
func (n *Node) RemoveEventListener(eventType string, id ListenerID) bool {
	if n.events == nil {
		return false
	}
	return n.events.remove(eventType, id)
}

// HasEventListeners reports whether any listener for eventType is registered on n.
func (n *Node) HasEventListeners(eventType string) bool {
	return n.events != nil && len(n.events.listeners[eventType]) > 0
}

// DispatchEvent delivers event to n and then bubbles it to n's ancestors.
func (n *Node) DispatchEvent(event *Event) {
	if event.Target == nil {
		event.Target = n
	}
	for node := n; node != nil && !event.stopped; node = node.Parent {
		if node.events == nil {
			continue
		}
		event.currentTarget = node
		node.events.dispatch(event)
	}
	event.currentTarget = nil
}
