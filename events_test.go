package termgrid

import "testing"

type recorder struct {
	events []Event
}

func (r *recorder) OnGridEvent(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) properties() []Property {
	var out []Property
	for _, e := range r.events {
		if e.Kind == PropertyChanged {
			out = append(out, e.Property)
		}
	}
	return out
}

func (r *recorder) layouts() int {
	n := 0
	for _, e := range r.events {
		if e.Kind == LayoutChanged {
			n++
		}
	}
	return n
}

func TestWriteNotifies(t *testing.T) {
	g := New()
	rec := &recorder{}
	g.Subscribe(rec)

	g.WriteText("hello")

	props := rec.properties()
	if len(props) != 2 || props[0] != PropertyText || props[1] != PropertyCursorPoint {
		t.Errorf("expected Text and CursorPoint once each, got %v", props)
	}
	if rec.layouts() != 1 {
		t.Errorf("expected one layout event, got %d", rec.layouts())
	}
	if last := rec.events[len(rec.events)-1]; last.Kind != LayoutChanged {
		t.Errorf("expected layout event last, got %+v", last)
	}
}

func TestUnsubscribe(t *testing.T) {
	g := New()
	a, b := &recorder{}, &recorder{}
	unsubscribe := g.Subscribe(a)
	g.Subscribe(b)

	unsubscribe()
	g.WriteText("x")

	if len(a.events) != 0 {
		t.Errorf("expected no events after unsubscribe, got %v", a.events)
	}
	if len(b.events) == 0 {
		t.Error("expected remaining listener to be notified")
	}
	unsubscribe()
}

func TestSelectingRangeSkipsLayout(t *testing.T) {
	g := New()
	g.WriteText("hello")
	rec := &recorder{}
	g.Subscribe(rec)

	if err := g.BeginSelecting(Pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := g.UpdateSelecting(Pt(2, 0)); err != nil {
		t.Fatal(err)
	}

	props := rec.properties()
	if len(props) != 1 || props[0] != PropertySelectingRange {
		t.Errorf("expected only SelectingRange, got %v", props)
	}
	if rec.layouts() != 0 {
		t.Errorf("expected no layout events while dragging, got %d", rec.layouts())
	}

	rec.events = nil
	if err := g.EndSelecting(false); err != nil {
		t.Fatal(err)
	}
	if rec.layouts() != 1 {
		t.Errorf("expected committed selection to request layout, got %d", rec.layouts())
	}
}

func TestListenerMayUnsubscribeDuringDelivery(t *testing.T) {
	g := New()
	var unsubscribe func()
	calls := 0
	unsubscribe = g.Subscribe(ListenerFunc(func(Event) {
		calls++
		unsubscribe()
	}))

	g.WriteText("x")
	g.WriteText("y")

	if calls != 3 {
		t.Errorf("expected delivery of the first batch only, got %d calls", calls)
	}
}

func TestEventKindString(t *testing.T) {
	if LayoutChanged.String() != "LayoutChanged" || PropertyChanged.String() != "PropertyChanged" {
		t.Error("unexpected event kind names")
	}
	if EventKind(9).String() != "Unknown" {
		t.Error("expected Unknown for an invalid kind")
	}
}
