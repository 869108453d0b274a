package termgrid

import "sync"

// ClipboardSystem selects the system clipboard; ClipboardPrimary the primary selection.
const (
	ClipboardSystem  byte = 'c'
	ClipboardPrimary byte = 'p'
)

// --- Clipboard Provider ---

// ClipboardProvider backs Copy, Paste and OSC 52 clipboard sequences.
type ClipboardProvider interface {
	// Read returns content from the specified clipboard ('c' for clipboard, 'p' for primary selection).
	Read(clipboard byte) string
	// Write stores content to the specified clipboard.
	Write(clipboard byte, data []byte)
}

// NoopClipboard ignores all clipboard operations.
type NoopClipboard struct{}

func (NoopClipboard) Read(clipboard byte) string        { return "" }
func (NoopClipboard) Write(clipboard byte, data []byte) {}

// MemoryClipboard keeps clipboard contents in memory, one slot per clipboard name.
// It is safe for concurrent use so hosts may fill it from their own goroutines.
//
// Example:
//
//	clip := termgrid.NewMemoryClipboard()
//	grid := termgrid.New(termgrid.WithClipboard(clip))
type MemoryClipboard struct {
	mu    sync.Mutex
	slots map[byte]string
}

// NewMemoryClipboard creates an empty in-memory clipboard.
func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{slots: make(map[byte]string)}
}

// Read returns the content stored under clipboard.
func (m *MemoryClipboard) Read(clipboard byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[clipboard]
}

// Write replaces the content stored under clipboard.
func (m *MemoryClipboard) Write(clipboard byte, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[clipboard] = string(data)
}

// --- Bell Provider ---

// BellProvider handles bell/beep events triggered by BEL (0x07) characters.
type BellProvider interface {
	// Ring is called when a bell character is received.
	Ring()
}

// NoopBell ignores all bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// BellFunc adapts a function to BellProvider.
type BellFunc func()

func (f BellFunc) Ring() { f() }

// Ensure implementations satisfy their interfaces
var _ ClipboardProvider = (*NoopClipboard)(nil)
var _ ClipboardProvider = (*MemoryClipboard)(nil)
var _ BellProvider = (*NoopBell)(nil)
var _ BellProvider = BellFunc(nil)
