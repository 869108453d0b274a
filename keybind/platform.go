package keybind

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform selects a family of default chords.
type Platform int

const (
	PlatformLinux Platform = iota
	PlatformMacOS
	PlatformWindows
)

// CurrentPlatform returns the platform the program was built for.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "darwin", "ios":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	default:
		return PlatformLinux
	}
}

func (p Platform) String() string {
	switch p {
	case PlatformMacOS:
		return "macos"
	case PlatformWindows:
		return "windows"
	default:
		return "linux"
	}
}

// ParsePlatform accepts "linux", "macos" (or "darwin") and "windows".
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linux", "":
		return PlatformLinux, nil
	case "macos", "darwin", "mac":
		return PlatformMacOS, nil
	case "windows":
		return PlatformWindows, nil
	}
	return PlatformLinux, fmt.Errorf("keybind: unknown platform %q", s)
}

// Primary returns the modifier used for clipboard and editing shortcuts:
// Cmd on macOS, Ctrl elsewhere.
func (p Platform) Primary() Modifiers {
	if p == PlatformMacOS {
		return ModMeta
	}
	return ModCtrl
}
