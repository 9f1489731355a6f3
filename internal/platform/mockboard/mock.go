// Package mockboard provides an in-memory clipboard for testing.
package mockboard

import (
	"context"
	"sync"

	"github.com/berrythewa/clipman-history/internal/platform"
	"github.com/berrythewa/clipman-history/internal/types"
)

// MockClipboard behaves like a system clipboard: every write, whether made
// through Write or simulated with Copy, is announced to watchers.
type MockClipboard struct {
	mu       sync.Mutex
	content  *platform.Content
	watchers []chan *platform.Content
	writes   int
	denied   bool
}

// New creates a new MockClipboard instance
func New() *MockClipboard {
	return &MockClipboard{content: &platform.Content{}}
}

func (m *MockClipboard) Read() (*platform.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.denied {
		return nil, types.ErrClipboardAccessDenied
	}
	c := *m.content
	return &c, nil
}

func (m *MockClipboard) Write(content *platform.Content) error {
	m.mu.Lock()
	if m.denied {
		m.mu.Unlock()
		return types.ErrClipboardAccessDenied
	}
	m.writes++
	m.mu.Unlock()

	m.Copy(content)
	return nil
}

// Copy simulates a user copying content in another application
func (m *MockClipboard) Copy(content *platform.Content) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *content
	m.content = &c

	// notifications are dropped when a watcher falls 64 changes behind
	for _, w := range m.watchers {
		snapshot := c
		select {
		case w <- &snapshot:
		default:
		}
	}
}

func (m *MockClipboard) Watch(ctx context.Context) (<-chan *platform.Content, error) {
	ch := make(chan *platform.Content, 64)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// Watchers returns the number of active watchers
func (m *MockClipboard) Watchers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers)
}

// Writes returns how many times Write succeeded
func (m *MockClipboard) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Current returns the clipboard content without going through Read
func (m *MockClipboard) Current() platform.Content {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.content
}

// SetDenied makes every subsequent Read and Write fail
func (m *MockClipboard) SetDenied(denied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied = denied
}

// MockInput records paste injections and reports a fixed cursor position
type MockInput struct {
	mu     sync.Mutex
	X, Y   int
	Err    error
	pastes int
}

func (m *MockInput) Paste(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.pastes++
	return nil
}

func (m *MockInput) CursorPosition() (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.X, m.Y, nil
}

// Pastes returns how many pastes were injected
func (m *MockInput) Pastes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pastes
}
