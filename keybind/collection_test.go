package keybind

import (
	"errors"
	"testing"
)

type target struct {
	log      []string
	readOnly bool
}

func record(name string, handled bool) func(*target) bool {
	return func(t *target) bool {
		t.log = append(t.log, name)
		return handled
	}
}

func TestCollectionAdd(t *testing.T) {
	c := NewCollection[*target]("normal", nil)

	if err := c.Add(Binding[*target]{Chord: MustParseChord("Ctrl+C")}); !errors.Is(err, ErrNilAction) {
		t.Errorf("expected ErrNilAction, got %v", err)
	}
	if err := c.Add(Binding[*target]{Chord: MustParseChord("Ctrl+C"), Action: record("copy", true)}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Add(Binding[*target]{Chord: MustParseChord("ctrl+c"), Action: record("again", true)}); !errors.Is(err, ErrDuplicateBinding) {
		t.Errorf("expected ErrDuplicateBinding, got %v", err)
	}
	preview := MustParseChord("Ctrl+C").AsPreview()
	if err := c.Add(Binding[*target]{Chord: preview, Action: record("interrupt", true)}); err != nil {
		t.Errorf("expected preview chord to be distinct, got %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 bindings, got %d", c.Len())
	}
}

func TestCollectionOrderAndSet(t *testing.T) {
	c := NewCollection[*target]("normal", nil)
	for _, spec := range []string{"Ctrl+A", "Ctrl+B", "Ctrl+C"} {
		if err := c.Add(Binding[*target]{Chord: MustParseChord(spec), Action: record(spec, true)}); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.Set(Binding[*target]{Chord: MustParseChord("Ctrl+B"), Action: record("replaced", true), Description: "b"}); err != nil {
		t.Fatal(err)
	}
	if !c.Remove(MustParseChord("Ctrl+A")) {
		t.Error("expected Remove to report a removed binding")
	}
	if c.Remove(MustParseChord("Ctrl+A")) {
		t.Error("expected second Remove to report nothing")
	}

	got := c.Bindings()
	if len(got) != 2 || got[0].Chord != MustParseChord("Ctrl+B") || got[1].Chord != MustParseChord("Ctrl+C") {
		t.Fatalf("unexpected order %+v", got)
	}
	if got[0].Description != "b" {
		t.Errorf("expected Set to replace in place, got %q", got[0].Description)
	}
	if _, ok := c.Lookup(MustParseChord("Ctrl+A")); ok {
		t.Error("expected removed chord to be gone")
	}
}

func TestCollectionProcess(t *testing.T) {
	global := NewCollection[*target]("global", nil)
	normal := NewCollection[*target]("normal", global)

	must := func(c *Collection[*target], b Binding[*target]) {
		t.Helper()
		if err := c.Add(b); err != nil {
			t.Fatal(err)
		}
	}
	must(global, Binding[*target]{Chord: MustParseChord("Ctrl+L"), Action: record("global-clear", true)})
	must(global, Binding[*target]{Chord: MustParseChord("Ctrl+V"), Action: record("global-paste", true)})
	must(normal, Binding[*target]{
		Chord:  MustParseChord("Ctrl+V"),
		Verify: func(t *target) bool { return !t.readOnly },
		Action: record("paste", true),
	})
	must(normal, Binding[*target]{Chord: MustParseChord("Ctrl+K"), Action: record("declines", false)})
	must(global, Binding[*target]{Chord: MustParseChord("Ctrl+K"), Action: record("global-k", true)})

	tests := []struct {
		name     string
		readOnly bool
		mods     Modifiers
		key      Key
		preview  bool
		handled  bool
		log      []string
	}{
		{"local", false, ModCtrl, 'v', false, true, []string{"paste"}},
		{"verify fails", true, ModCtrl, 'v', false, true, []string{"global-paste"}},
		{"parent only", false, ModCtrl, 'l', false, true, []string{"global-clear"}},
		{"action declines", false, ModCtrl, 'k', false, true, []string{"declines", "global-k"}},
		{"exact modifiers", false, ModCtrl | ModShift, 'v', false, false, nil},
		{"wrong phase", false, ModCtrl, 'v', true, false, nil},
		{"unbound", false, ModNone, 'x', false, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := &target{readOnly: tt.readOnly}
			if got := normal.Process(tgt, tt.mods, tt.key, tt.preview); got != tt.handled {
				t.Errorf("Process = %v, want %v", got, tt.handled)
			}
			if len(tgt.log) != len(tt.log) {
				t.Fatalf("log = %v, want %v", tgt.log, tt.log)
			}
			for i := range tt.log {
				if tgt.log[i] != tt.log[i] {
					t.Errorf("log = %v, want %v", tgt.log, tt.log)
				}
			}
		})
	}
}

func TestPlatform(t *testing.T) {
	tests := []struct {
		in      string
		want    Platform
		primary Modifiers
	}{
		{"linux", PlatformLinux, ModCtrl},
		{"darwin", PlatformMacOS, ModMeta},
		{"MacOS", PlatformMacOS, ModMeta},
		{"windows", PlatformWindows, ModCtrl},
	}

	for _, tt := range tests {
		p, err := ParsePlatform(tt.in)
		if err != nil || p != tt.want {
			t.Errorf("ParsePlatform(%q) = %v, %v, want %v", tt.in, p, err, tt.want)
		}
		if p.Primary() != tt.primary {
			t.Errorf("%s.Primary() = %s, want %s", p, p.Primary(), tt.primary)
		}
	}
	if _, err := ParsePlatform("plan9"); err == nil {
		t.Error("expected unknown platform to fail")
	}
}
