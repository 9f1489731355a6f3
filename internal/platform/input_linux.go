//go:build linux
// +build linux

package platform

import (
	"context"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/types"
)

const (
	keysymControlL xproto.Keysym = 0xffe3
	keysymV        xproto.Keysym = 0x0076
)

// x11Input talks to the X server directly for cursor queries and synthetic
// key events (XTEST). The connection is opened lazily and dropped on error.
type x11Input struct {
	mu     sync.Mutex
	conn   *xgb.Conn
	logger *zap.Logger
}

// NewPaster returns the X11 paste injector
func NewPaster(logger *zap.Logger) Paster {
	return newX11Input(logger)
}

// NewCursorLocator returns the X11 cursor locator
func NewCursorLocator(logger *zap.Logger) CursorLocator {
	return newX11Input(logger)
}

func newX11Input(logger *zap.Logger) *x11Input {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &x11Input{logger: logger}
}

func (x *x11Input) connect() (*xgb.Conn, error) {
	if x.conn != nil {
		return x.conn, nil
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	x.conn = conn
	return conn, nil
}

func (x *x11Input) reset() {
	if x.conn != nil {
		x.conn.Close()
		x.conn = nil
	}
}

func (x *x11Input) CursorPosition() (int, int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	conn, err := x.connect()
	if err != nil {
		// no display: report the origin rather than failing the call
		x.logger.Debug("X display unavailable for cursor query", zap.Error(err))
		return 0, 0, nil
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	reply, err := xproto.QueryPointer(conn, root).Reply()
	if err != nil {
		x.reset()
		return 0, 0, nil
	}
	return int(reply.RootX), int(reply.RootY), nil
}

func (x *x11Input) Paste(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	conn, err := x.connect()
	if err != nil {
		return types.Wrapf(types.ErrPasteInjectionUnavailable, "no X display: %v", err)
	}
	if err := xtest.Init(conn); err != nil {
		x.reset()
		return types.Wrapf(types.ErrPasteInjectionUnavailable, "XTEST extension missing: %v", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root
	ctrl, v, err := lookupKeycodes(conn, setup)
	if err != nil {
		x.reset()
		return types.Wrapf(types.ErrPasteInjectionUnavailable, "keyboard mapping: %v", err)
	}

	events := []struct {
		kind byte
		code xproto.Keycode
	}{
		{xproto.KeyPress, ctrl},
		{xproto.KeyPress, v},
		{xproto.KeyRelease, v},
		{xproto.KeyRelease, ctrl},
	}
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := xtest.FakeInputChecked(conn, ev.kind, byte(ev.code), xproto.TimeCurrentTime, root, 0, 0, 0).Check()
		if err != nil {
			x.reset()
			return types.Wrapf(types.ErrPasteInjectionUnavailable, "fake input: %v", err)
		}
	}
	x.logger.Debug("Injected Ctrl+V via XTEST")
	return nil
}

func lookupKeycodes(conn *xgb.Conn, setup *xproto.SetupInfo) (ctrl, v xproto.Keycode, err error) {
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)
	mapping, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, count).Reply()
	if err != nil {
		return 0, 0, err
	}

	per := int(mapping.KeysymsPerKeycode)
	for i := 0; i < int(count); i++ {
		for j := 0; j < per; j++ {
			sym := mapping.Keysyms[i*per+j]
			code := setup.MinKeycode + xproto.Keycode(i)
			if sym == keysymControlL && ctrl == 0 {
				ctrl = code
			}
			if sym == keysymV && v == 0 {
				v = code
			}
		}
	}
	if ctrl == 0 || v == 0 {
		return 0, 0, types.Wrapf(types.ErrPasteInjectionUnavailable, "no keycode for Control_L or v")
	}
	return ctrl, v, nil
}
