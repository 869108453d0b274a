package termgrid

// Property names a piece of grid state reported by PropertyChanged events.
type Property string

const (
	PropertyVisibleIndex    Property = "VisibleIndex"
	PropertyText            Property = "Text"
	PropertySelectingRange  Property = "SelectingRange"
	PropertySelections      Property = "Selections"
	PropertyCursorPoint     Property = "CursorPoint"
	PropertyBufferWidth     Property = "BufferWidth"
	PropertyBufferHeight    Property = "BufferHeight"
	PropertyMaxBufferHeight Property = "MaxBufferHeight"
	PropertyTitle           Property = "Title"
	PropertyCursorSettings  Property = "CursorSettings"
)

// EventKind distinguishes layout invalidation from single property changes.
type EventKind int

const (
	// LayoutChanged means cell geometry must be regenerated.
	LayoutChanged EventKind = iota
	// PropertyChanged means the named property has a new value.
	PropertyChanged
)

func (k EventKind) String() string {
	switch k {
	case LayoutChanged:
		return "LayoutChanged"
	case PropertyChanged:
		return "PropertyChanged"
	default:
		return "Unknown"
	}
}

// Event is delivered to listeners after a mutating call completes.
type Event struct {
	Kind     EventKind
	Property Property
}

// Listener receives grid change notifications.
type Listener interface {
	OnGridEvent(e Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(e Event)

// OnGridEvent calls f(e).
func (f ListenerFunc) OnGridEvent(e Event) {
	f(e)
}

// Subscribe registers l and returns a function that removes it.
func (g *Grid) Subscribe(l Listener) func() {
	g.nextListener++
	id := g.nextListener
	g.listeners = append(g.listeners, listenerEntry{id: id, l: l})
	return func() {
		for i, e := range g.listeners {
			if e.id == id {
				g.listeners = append(g.listeners[:i], g.listeners[i+1:]...)
				return
			}
		}
	}
}

type listenerEntry struct {
	id int
	l  Listener
}

// touch records that p changed. Layout-affecting properties also request a layout event.
func (g *Grid) touch(props ...Property) {
	for _, p := range props {
		if !g.hasPending(p) {
			g.pending = append(g.pending, p)
		}
		if p != PropertySelectingRange && p != PropertyTitle && p != PropertyMaxBufferHeight {
			g.layoutDirty = true
		}
	}
}

func (g *Grid) hasPending(p Property) bool {
	for _, q := range g.pending {
		if q == p {
			return true
		}
	}
	return false
}

// commit enforces the scroll-back cap, re-asserts the grid invariants and
// delivers pending notifications. Every mutator defers it.
func (g *Grid) commit() {
	g.trim()
	g.validate()
	if len(g.pending) == 0 && !g.layoutDirty {
		return
	}
	pending := g.pending
	layout := g.layoutDirty
	g.pending = nil
	g.layoutDirty = false

	listeners := make([]listenerEntry, len(g.listeners))
	copy(listeners, g.listeners)
	for _, p := range pending {
		for _, e := range listeners {
			e.l.OnGridEvent(Event{Kind: PropertyChanged, Property: p})
		}
	}
	if layout {
		for _, e := range listeners {
			e.l.OnGridEvent(Event{Kind: LayoutChanged})
		}
	}
}
