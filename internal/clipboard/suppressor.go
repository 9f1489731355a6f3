package clipboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/metrics"
)

// DefaultSuppressWindow bounds how long a self-write mark stays armed. The
// native clipboard watcher polls once a second, so the window must exceed that.
const DefaultSuppressWindow = 2 * time.Second

type writeMark struct {
	token   string
	expires time.Time
}

// Suppressor keeps the watcher from recording clipboard changes the daemon
// caused itself. Writes and observations share one lock, so a notification
// is either seen before the write starts or after its mark is armed.
type Suppressor struct {
	mu      sync.Mutex
	window  time.Duration
	pending *writeMark
	now     func() time.Time
	logger  *zap.Logger
}

func NewSuppressor(window time.Duration, logger *zap.Logger) *Suppressor {
	if window <= 0 {
		window = DefaultSuppressWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suppressor{window: window, now: time.Now, logger: logger}
}

// Guard performs a clipboard write and, if it succeeds, arms a mark so that
// the next change notification within the window is ignored.
func (s *Suppressor) Guard(write func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := write(); err != nil {
		return err
	}
	s.pending = &writeMark{
		token:   uuid.NewString(),
		expires: s.now().Add(s.window),
	}
	s.logger.Debug("Armed self-write suppression",
		zap.String("token", s.pending.token),
		zap.Duration("window", s.window))
	return nil
}

// Observe is called for every change notification. It reports true, and
// consumes the mark, when the change was caused by a guarded write.
func (s *Suppressor) Observe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	mark := s.pending
	if mark == nil {
		return false
	}
	s.pending = nil
	if s.now().After(mark.expires) {
		return false
	}

	metrics.CapturesSuppressed.Inc()
	s.logger.Debug("Suppressed self-caused clipboard change", zap.String("token", mark.token))
	return true
}
