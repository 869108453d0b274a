package session

import (
	"fmt"
	"testing"
)

func TestHistoryAdd(t *testing.T) {
	h := NewHistory(3)

	tests := []struct {
		line string
		want bool
	}{
		{"ls", true},
		{"ls", false},
		{"   ", false},
		{"pwd", true},
		{"ls", true},
		{"echo", true},
	}
	for _, tt := range tests {
		if got := h.Add(tt.line); got != tt.want {
			t.Errorf("Add(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}

	if got := fmt.Sprint(h.Entries()); got != "[pwd ls echo]" {
		t.Errorf("expected oldest entry to be evicted, got %s", got)
	}
}

func TestHistoryNavigation(t *testing.T) {
	h := NewHistory(10)
	h.Load([]string{"one", "two"})

	if _, ok := h.Next(); ok {
		t.Error("expected Next at the end to fail")
	}
	if got, ok := h.Prev("draft"); !ok || got != "two" {
		t.Errorf("Prev = %q, %v", got, ok)
	}
	if got, ok := h.Prev("ignored"); !ok || got != "one" {
		t.Errorf("Prev = %q, %v", got, ok)
	}
	if _, ok := h.Prev(""); ok {
		t.Error("expected Prev at the oldest entry to fail")
	}
	if got, ok := h.Next(); !ok || got != "two" {
		t.Errorf("Next = %q, %v", got, ok)
	}
	if got, ok := h.Next(); !ok || got != "draft" {
		t.Errorf("expected Next to return the draft, got %q, %v", got, ok)
	}

	h.Prev("x")
	h.Add("three")
	if got, _ := h.Prev(""); got != "three" {
		t.Errorf("expected Add to reset navigation, got %q", got)
	}
}

func TestHistoryDefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < DEFAULT_HISTORY_SIZE+5; i++ {
		h.Add(fmt.Sprint(i))
	}
	if h.Len() != DEFAULT_HISTORY_SIZE {
		t.Errorf("expected %d entries, got %d", DEFAULT_HISTORY_SIZE, h.Len())
	}
}
