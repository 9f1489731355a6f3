package clipboard

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/berrythewa/clipman-history/internal/metrics"
	"github.com/berrythewa/clipman-history/internal/platform"
	"github.com/berrythewa/clipman-history/internal/types"
)

// MonitorOptions configures a Monitor
type MonitorOptions struct {
	// RatePerSecond caps how many captures are processed per second; bursts
	// beyond it are delayed, not dropped. Zero disables the limit.
	RatePerSecond float64
	Logger        *zap.Logger
}

// Monitor is the capture watcher. It turns clipboard change notifications
// into recorded history entries, skipping changes the daemon made itself.
type Monitor struct {
	clipboard  platform.Clipboard
	processor  *ContentProcessor
	recorder   *Recorder
	suppressor *Suppressor
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewMonitor(cb platform.Clipboard, processor *ContentProcessor, recorder *Recorder, suppressor *Suppressor, opts MonitorOptions) *Monitor {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return &Monitor{
		clipboard:  cb,
		processor:  processor,
		recorder:   recorder,
		suppressor: suppressor,
		limiter:    limiter,
		logger:     logger,
	}
}

// Run watches the clipboard until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	changes, err := m.clipboard.Watch(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("Starting clipboard monitor")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Clipboard monitor stopped")
			return nil
		case content, ok := <-changes:
			if !ok {
				m.logger.Info("Clipboard watch channel closed")
				return nil
			}
			m.handle(ctx, content)
		}
	}
}

func (m *Monitor) handle(ctx context.Context, content *platform.Content) {
	if m.suppressor.Observe() {
		return
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return
	}

	item := m.processor.Process(content, time.Now().UnixMilli())
	if item == nil {
		metrics.CapturesDropped.WithLabelValues("filtered").Inc()
		return
	}

	if _, err := m.recorder.Record(item); err != nil {
		metrics.CapturesDropped.WithLabelValues(types.Code(err)).Inc()
	}
}
