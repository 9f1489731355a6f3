package service

import (
	"strings"

	"github.com/berrythewa/clipman-history/internal/types"
)

// DefaultHotkey opens the history popup
const DefaultHotkey = "Alt+V"

var modifierNames = map[string]string{
	"CTRL":    "Ctrl",
	"CONTROL": "Ctrl",
	"ALT":     "Alt",
	"SHIFT":   "Shift",
	"SUPER":   "Super",
	"WIN":     "Super",
	"CMD":     "Super",
}

var modifierOrder = []string{"Ctrl", "Alt", "Shift", "Super"}

// ParseHotkey validates a shortcut such as "ctrl+shift+v" and returns its
// canonical form ("Ctrl+Shift+V"). Exactly one letter key is required.
func ParseHotkey(s string) (string, error) {
	seen := make(map[string]bool)
	var key string

	for _, part := range strings.Split(s, "+") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			return "", types.Wrapf(types.ErrInvalidArgument, "hotkey %q has an empty part", s)
		}
		if name, ok := modifierNames[part]; ok {
			seen[name] = true
			continue
		}
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' {
			if key != "" {
				return "", types.Wrapf(types.ErrInvalidArgument, "hotkey %q has more than one key", s)
			}
			key = part
			continue
		}
		return "", types.Wrapf(types.ErrInvalidArgument, "hotkey %q: unknown key %q", s, part)
	}
	if key == "" {
		return "", types.Wrapf(types.ErrInvalidArgument, "hotkey %q has no letter key", s)
	}

	parts := make([]string, 0, len(seen)+1)
	for _, m := range modifierOrder {
		if seen[m] {
			parts = append(parts, m)
		}
	}
	return strings.Join(append(parts, key), "+"), nil
}
