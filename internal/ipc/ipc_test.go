package ipc

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipman-history/internal/types"
)

func startServer(t *testing.T, mux *Mux) string {
	t.Helper()
	// unix socket paths are length limited, keep it short
	dir, err := os.MkdirTemp("", "cm")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "s.sock")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	srv := NewServer(socket, mux, nil)
	go func() { done <- srv.ListenAndServe(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	return socket
}

func testMux() *Mux {
	mux := NewMux()
	mux.Handle(CmdListHistory, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		a, err := Bind[ListArgs](args)
		if err != nil {
			return nil, err
		}
		n := ResolveLimit(a.Limit)
		items := make([]*types.ClipboardItem, 0, n)
		for i := n; i > 0; i-- {
			items = append(items, &types.ClipboardItem{ID: int64(i), Format: types.FormatText, Text: "x"})
		}
		return items, nil
	})
	mux.Handle(CmdSetClipboard, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		a, err := Bind[IDArgs](args)
		if err != nil {
			return nil, err
		}
		return nil, types.Wrapf(types.ErrNotFound, "id %d", a.ID)
	})
	mux.Handle(CmdGetCursorPosition, func(context.Context, json.RawMessage) (interface{}, error) {
		return types.Point{X: 3, Y: 4}, nil
	})
	return mux
}

func TestClientServerRoundTrip(t *testing.T) {
	socket := startServer(t, testMux())
	client := NewClient(socket)
	ctx := context.Background()

	items, err := client.ListHistory(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(2), items[0].ID)

	p, err := client.GetCursorPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: 3, Y: 4}, p)
}

func TestErrorCodesCrossTheSocket(t *testing.T) {
	socket := startServer(t, testMux())
	client := NewClient(socket)
	ctx := context.Background()

	err := client.SetClipboard(ctx, 99)
	require.Error(t, err)
	assert.Equal(t, types.CodeNotFound, types.Code(err))
	assert.ErrorIs(t, err, types.ErrNotFound)

	err = client.DeleteItem(ctx, 1)
	assert.Equal(t, types.CodeInvalidArgument, types.Code(err))

	err = client.Call(ctx, CmdListHistory, map[string]string{"limit": "many"}, nil)
	assert.Equal(t, types.CodeInvalidArgument, types.Code(err))
}

func TestClientDoesNotResendAfterDelivery(t *testing.T) {
	dir, err := os.MkdirTemp("", "cm")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "s.sock")

	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	// a daemon that acts on the request and then drops the connection
	var received atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			var req Request
			if json.NewDecoder(conn).Decode(&req) == nil {
				received.Add(1)
			}
			conn.Close()
		}
	}()

	client := NewClient(socket)
	client.delay = time.Millisecond

	err = client.SetClipboardAndPaste(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
	assert.Equal(t, int32(1), received.Load())
}

func TestClientRetriesOnlyDialFailures(t *testing.T) {
	client := NewClient(filepath.Join(os.TempDir(), "clipman-missing.sock"))
	client.delay = 20 * time.Millisecond

	start := time.Now()
	_, err := client.ListHistory(context.Background(), 1)
	elapsed := time.Since(start)

	var dialErr *DialError
	require.True(t, errors.As(err, &dialErr))
	assert.Contains(t, err.Error(), "failed after 3 retries")
	// three attempts, two pauses between them
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestBindDefaults(t *testing.T) {
	a, err := Bind[SearchArgs](nil)
	require.NoError(t, err)
	assert.Equal(t, SearchArgs{}, a)

	a, err = Bind[SearchArgs](json.RawMessage(`{"query":"hi","limit":5}`))
	require.NoError(t, err)
	assert.Equal(t, SearchArgs{Query: "hi", Limit: LimitOf(5)}, a)
}

func TestLimitOnTheWire(t *testing.T) {
	raw, err := json.Marshal(ListArgs{Limit: LimitOf(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	tests := []struct {
		args string
		want int
	}{
		{`{}`, 0},
		{`{"limit":null}`, 0},
		{`{"limit":0}`, 1},
		{`{"limit":-3}`, 1},
		{`{"limit":1}`, 1},
		{`{"limit":250}`, 250},
	}
	for _, tt := range tests {
		a, err := Bind[ListArgs](json.RawMessage(tt.args))
		require.NoError(t, err)
		assert.Equal(t, tt.want, ResolveLimit(a.Limit), tt.args)
	}
}

func TestMuxCommands(t *testing.T) {
	assert.Equal(t, []string{CmdGetCursorPosition, CmdListHistory, CmdSetClipboard}, testMux().Commands())
}
