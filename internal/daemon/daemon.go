// Package daemon wires the history store, capture pipeline and command
// surfaces into one long-running process.
package daemon

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/berrythewa/clipman-history/internal/clipboard"
	"github.com/berrythewa/clipman-history/internal/config"
	"github.com/berrythewa/clipman-history/internal/ipc"
	"github.com/berrythewa/clipman-history/internal/metrics"
	"github.com/berrythewa/clipman-history/internal/platform"
	"github.com/berrythewa/clipman-history/internal/query"
	"github.com/berrythewa/clipman-history/internal/retention"
	"github.com/berrythewa/clipman-history/internal/service"
	"github.com/berrythewa/clipman-history/internal/storage"
)

// Options replaces the platform collaborators, mainly for tests. Nil fields
// get the native implementations.
type Options struct {
	ConfigPath string
	Clipboard  platform.Clipboard
	Paster     platform.Paster
	Cursor     platform.CursorLocator
}

// Daemon owns every long-lived component of the backend
type Daemon struct {
	cfg     *config.Config
	store   *storage.BoltStorage
	monitor *clipboard.Monitor
	ipc     *ipc.Server
	metrics *metrics.Server
	service *service.Service
	logger  *zap.Logger
}

// New opens the store and builds the capture and command pipelines. Nothing
// runs until Run is called.
func New(cfg *config.Config, opts Options, logger *zap.Logger) (*Daemon, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath:            cfg.Storage.DBPath,
		CompressThreshold: cfg.Storage.CompressThreshold,
		OpenTimeout:       cfg.Storage.OpenTimeout,
		OpenRetries:       cfg.Storage.OpenRetries,
		Logger:            logger.Named("storage"),
	})
	if err != nil {
		return nil, err
	}

	engine, err := query.NewEngine(store, query.Options{
		DefaultLimit:   cfg.Query.DefaultLimit,
		MaxLimit:       cfg.Query.MaxLimit,
		ImageCacheSize: cfg.Query.ImageCacheSize,
	}, logger.Named("query"))
	if err != nil {
		store.Close()
		return nil, err
	}

	cb := opts.Clipboard
	if cb == nil {
		cb = platform.NewClipboard(platform.ClipboardOptions{
			PollInterval: cfg.Capture.PollInterval,
			Logger:       logger.Named("platform"),
		})
	}
	paster := opts.Paster
	if paster == nil {
		paster = platform.NewPaster(logger.Named("platform"))
	}
	cursor := opts.Cursor
	if cursor == nil {
		cursor = platform.NewCursorLocator(logger.Named("platform"))
	}

	rm := retention.NewManager(cfg.Storage.Capacity, logger.Named("retention"))
	recorder := clipboard.NewRecorder(store, rm, cfg.Fingerprint, logger.Named("recorder"))
	recorder.OnEvict(func(ids []int64) {
		for _, id := range ids {
			engine.Forget(id)
		}
	})
	suppressor := clipboard.NewSuppressor(cfg.Capture.SuppressWindow, logger.Named("suppressor"))
	processor := clipboard.NewContentProcessor(cfg.Capture.MaxContentSize, logger.Named("processor"))
	monitor := clipboard.NewMonitor(cb, processor, recorder, suppressor, clipboard.MonitorOptions{
		RatePerSecond: cfg.Capture.RatePerSecond,
		Logger:        logger.Named("monitor"),
	})

	svc := service.New(service.Deps{
		Store:      store,
		Engine:     engine,
		Clipboard:  cb,
		Suppressor: suppressor,
		Paster:     paster,
		Cursor:     cursor,
		Hotkeys:    config.NewHotkeyStore(cfg, opts.ConfigPath),
		Logger:     logger.Named("service"),
	}, service.Options{
		Capacity:    rm.Capacity(),
		SettleDelay: cfg.Capture.SettleDelay,
	})

	mux := ipc.NewMux()
	svc.Register(mux)

	d := &Daemon{
		cfg:     cfg,
		store:   store,
		monitor: monitor,
		ipc:     ipc.NewServer(cfg.IPC.SocketPath, mux, logger.Named("ipc")),
		service: svc,
		logger:  logger,
	}
	if cfg.Metrics.Enabled {
		d.metrics = metrics.NewServer(cfg.Metrics.Addr, d.health, logger.Named("metrics"))
	}
	return d, nil
}

// Service exposes the command facade the IPC server dispatches to
func (d *Daemon) Service() *service.Service {
	return d.service
}

// Run serves until ctx is cancelled or a component fails, then closes the store
func (d *Daemon) Run(ctx context.Context) error {
	defer d.store.Close()

	if err := WritePID(d.cfg.PIDFile(), os.Getpid()); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	defer RemovePID(d.cfg.PIDFile())

	if stats, err := d.service.Stats(); err == nil {
		d.logger.Info("Clipman daemon started",
			zap.String("device_id", d.cfg.DeviceID),
			zap.String("db_path", d.store.Path()),
			zap.Int64("entries", stats.Total),
			zap.Int("capacity", stats.Capacity))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.monitor.Run(ctx)
	})
	g.Go(func() error {
		return d.ipc.ListenAndServe(ctx)
	})
	if d.metrics != nil {
		g.Go(func() error {
			return d.metrics.Run(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		d.logger.Error("Clipman daemon stopped with error", zap.Error(err))
	} else {
		d.logger.Info("Clipman daemon stopped")
	}
	return err
}

func (d *Daemon) health(ctx context.Context) error {
	return d.store.View(func(tx *storage.Tx) error {
		return nil
	})
}
