// Package session keeps console history and persists grid state between runs.
package session

import "strings"

// DEFAULT_HISTORY_SIZE is the capacity used when NewHistory gets a non-positive size.
const DEFAULT_HISTORY_SIZE = 500

// History is a bounded list of submitted lines with a navigation cursor.
type History struct {
	entries  []string
	capacity int
	cursor   int
	draft    string
}

// NewHistory creates an empty history holding at most capacity lines.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DEFAULT_HISTORY_SIZE
	}
	return &History{capacity: capacity}
}

// Add appends line and resets navigation. Blank lines and repeats of the
// newest entry are skipped; Add reports whether line was stored.
func (h *History) Add(line string) bool {
	defer h.Reset()
	if strings.TrimSpace(line) == "" {
		return false
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return false
	}
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.capacity; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
	return true
}

// Prev moves to the previous entry. current is kept as the draft when
// navigation starts so Next can return to it.
func (h *History) Prev(current string) (string, bool) {
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next moves towards the newest entry and finally back to the draft.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.cursor], true
}

// Reset ends navigation.
func (h *History) Reset() {
	h.cursor = len(h.entries)
	h.draft = ""
}

// Entries returns a copy of the lines, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of stored lines.
func (h *History) Len() int {
	return len(h.entries)
}

// Load replaces the entries, keeping the newest lines that fit.
func (h *History) Load(lines []string) {
	h.entries = h.entries[:0]
	for _, l := range lines {
		h.Add(l)
	}
	h.Reset()
}
