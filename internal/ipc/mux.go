package ipc

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/berrythewa/clipman-history/internal/metrics"
	"github.com/berrythewa/clipman-history/internal/types"
)

// HandlerFunc serves one command. The returned value is marshalled into the
// response data.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Mux dispatches requests to handlers by command name
type Mux struct {
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

func NewMux() *Mux {
	return &Mux{handlers: make(map[string]HandlerFunc)}
}

// Handle registers fn for command, replacing any previous handler
func (m *Mux) Handle(command string, fn HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[command] = fn
}

// Commands lists the registered command names
func (m *Mux) Commands() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.handlers))
	for name := range m.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Serve runs the handler for req and wraps its outcome in a Response
func (m *Mux) Serve(ctx context.Context, req *Request) *Response {
	started := time.Now()

	m.mu.RLock()
	fn, ok := m.handlers[req.Command]
	m.mu.RUnlock()

	var resp *Response
	if !ok {
		resp = errorResponse(types.Wrapf(types.ErrInvalidArgument, "unknown command %q", req.Command))
	} else if data, err := fn(ctx, req.Args); err != nil {
		resp = errorResponse(err)
	} else {
		resp = okResponse(data)
	}

	metrics.CommandDuration.WithLabelValues(req.Command, resp.Status).Observe(time.Since(started).Seconds())
	return resp
}
