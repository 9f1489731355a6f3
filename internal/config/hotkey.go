package config

import "sync"

// HotkeyStore persists hotkey changes made at runtime back to the config file
type HotkeyStore struct {
	mu   sync.Mutex
	cfg  *Config
	path string
}

func NewHotkeyStore(cfg *Config, path string) *HotkeyStore {
	return &HotkeyStore{cfg: cfg, path: path}
}

func (h *HotkeyStore) Hotkey() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.Hotkey
}

// SetHotkey saves the new value, restoring the previous one if the write fails
func (h *HotkeyStore) SetHotkey(hotkey string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.cfg.Hotkey
	h.cfg.Hotkey = hotkey
	if err := h.cfg.Save(h.path); err != nil {
		h.cfg.Hotkey = prev
		return err
	}
	return nil
}
