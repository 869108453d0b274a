package keybind

import "fmt"

// Resolver offers a key event to a binding table.
type Resolver[T any] interface {
	// Process returns true if a binding fired and consumed the event.
	Process(target T, mods Modifiers, key Key, preview bool) bool
}

// Binding is a guarded action for one chord.
type Binding[T any] struct {
	Chord Chord
	// Verify reports whether the binding applies to target. Nil always applies.
	Verify func(target T) bool
	// Action runs the binding. Returning false lets resolution continue in the parent.
	Action func(target T) bool
	// Description is shown in help listings.
	Description string
}

// Collection is a named, ordered binding table with an optional parent.
// It holds no locks; callers use it from the goroutine that owns the target.
type Collection[T any] struct {
	Name   string
	Parent Resolver[T]

	order    []Chord
	bindings map[Chord]Binding[T]
}

var _ Resolver[struct{}] = (*Collection[struct{}])(nil)

// NewCollection creates an empty table. parent may be nil.
func NewCollection[T any](name string, parent Resolver[T]) *Collection[T] {
	return &Collection[T]{
		Name:     name,
		Parent:   parent,
		bindings: make(map[Chord]Binding[T]),
	}
}

// Add registers b. It fails if b has no action or its chord is already bound here.
func (c *Collection[T]) Add(b Binding[T]) error {
	if b.Action == nil {
		return fmt.Errorf("%w: %s in %s", ErrNilAction, b.Chord, c.Name)
	}
	if _, ok := c.bindings[b.Chord]; ok {
		return fmt.Errorf("%w: %s in %s", ErrDuplicateBinding, b.Chord, c.Name)
	}
	c.order = append(c.order, b.Chord)
	c.bindings[b.Chord] = b
	return nil
}

// Set registers b, replacing any binding for the same chord in place.
func (c *Collection[T]) Set(b Binding[T]) error {
	if b.Action == nil {
		return fmt.Errorf("%w: %s in %s", ErrNilAction, b.Chord, c.Name)
	}
	if _, ok := c.bindings[b.Chord]; !ok {
		c.order = append(c.order, b.Chord)
	}
	c.bindings[b.Chord] = b
	return nil
}

// Remove deletes the binding for chord. It returns false if there was none.
func (c *Collection[T]) Remove(chord Chord) bool {
	if _, ok := c.bindings[chord]; !ok {
		return false
	}
	delete(c.bindings, chord)
	for i, o := range c.order {
		if o == chord {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Lookup returns the local binding for chord, ignoring the parent.
func (c *Collection[T]) Lookup(chord Chord) (Binding[T], bool) {
	b, ok := c.bindings[chord]
	return b, ok
}

// Bindings returns the local bindings in insertion order.
func (c *Collection[T]) Bindings() []Binding[T] {
	out := make([]Binding[T], 0, len(c.order))
	for _, chord := range c.order {
		out = append(out, c.bindings[chord])
	}
	return out
}

// Len returns the number of local bindings.
func (c *Collection[T]) Len() int {
	return len(c.order)
}

// Process fires the binding for the exact (mods, key, preview) chord. If none
// is bound here, or it does not verify, or its action declines, the parent
// gets the event.
func (c *Collection[T]) Process(target T, mods Modifiers, key Key, preview bool) bool {
	chord := Chord{Modifiers: mods, Key: key, Preview: preview}
	if b, ok := c.bindings[chord]; ok {
		if b.Verify == nil || b.Verify(target) {
			if b.Action(target) {
				return true
			}
		}
	}
	if c.Parent != nil {
		return c.Parent.Process(target, mods, key, preview)
	}
	return false
}
