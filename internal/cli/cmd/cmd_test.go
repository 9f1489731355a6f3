package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/clipman-history/internal/ipc"
	"github.com/berrythewa/clipman-history/internal/types"
)

// fakeDaemon records the commands it receives
type fakeDaemon struct {
	mu    sync.Mutex
	calls map[string]json.RawMessage
}

func (f *fakeDaemon) record(command string, args json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[command] = args
}

func (f *fakeDaemon) args(t *testing.T, command string, out interface{}) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.calls[command]
	require.True(t, ok, "command %s was not called", command)
	require.NoError(t, json.Unmarshal(raw, out))
}

func startFakeDaemon(t *testing.T) (*fakeDaemon, string) {
	t.Helper()
	// unix socket paths are length limited, keep it short
	dir, err := os.MkdirTemp("", "cc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	t.Setenv("CLIPMAN_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("CLIPMAN_DATA_DIR", dir)

	fd := &fakeDaemon{calls: make(map[string]json.RawMessage)}
	items := []*types.ClipboardItem{
		{ID: 2, Format: types.FormatText, Category: types.CategoryText, Text: "second", CreatedAt: time.Now().UnixMilli()},
		{ID: 1, Format: types.FormatText, Category: types.CategoryLink, Text: "https://example.com", CreatedAt: time.Now().UnixMilli()},
	}
	var hkMu sync.Mutex
	hotkey := "Alt+V"

	mux := ipc.NewMux()
	for _, command := range []string{ipc.CmdListHistory, ipc.CmdSearchHistory, ipc.CmdListHistoryByDate, ipc.CmdSearchHistoryByDate} {
		command := command
		mux.Handle(command, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
			fd.record(command, args)
			return items, nil
		})
	}
	for _, command := range []string{ipc.CmdSetClipboard, ipc.CmdSetClipboardAndPaste, ipc.CmdDeleteItem} {
		command := command
		mux.Handle(command, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
			fd.record(command, args)
			a, err := ipc.Bind[ipc.IDArgs](args)
			if err != nil {
				return nil, err
			}
			if a.ID > 100 {
				return nil, types.Wrapf(types.ErrNotFound, "clipboard item %d", a.ID)
			}
			return nil, nil
		})
	}
	mux.Handle(ipc.CmdPinItem, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		fd.record(ipc.CmdPinItem, args)
		return nil, nil
	})
	mux.Handle(ipc.CmdGetHotkey, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		hkMu.Lock()
		defer hkMu.Unlock()
		return hotkey, nil
	})
	mux.Handle(ipc.CmdSetHotkey, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		a, err := ipc.Bind[ipc.HotkeyArgs](args)
		if err != nil {
			return nil, err
		}
		hkMu.Lock()
		hotkey = a.Hotkey
		hkMu.Unlock()
		return nil, nil
	})
	mux.Handle(ipc.CmdGetCursorPosition, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		return types.Point{X: 10, Y: 20}, nil
	})
	mux.Handle(ipc.CmdStats, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		return &types.Stats{Total: 2, Capacity: 500, LastID: 2}, nil
	})

	socket := filepath.Join(dir, "s.sock")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	srv := ipc.NewServer(socket, mux, nil)
	go func() { done <- srv.ListenAndServe(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	return fd, socket
}

func runCLI(t *testing.T, socket string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--quiet", "--socket", socket}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestHistoryList(t *testing.T) {
	fd, socket := startFakeDaemon(t)

	out, err := runCLI(t, socket, "history", "list", "-n", "5", "--no-colors", "--no-icons", "--compact")
	require.NoError(t, err)
	assert.Contains(t, out, "#2 text second")
	assert.Contains(t, out, "#1 text/link https://example.com")

	var list ipc.ListArgs
	fd.args(t, ipc.CmdListHistory, &list)
	require.NotNil(t, list.Limit)
	assert.Equal(t, 5, *list.Limit)
}

func TestHistoryListByDate(t *testing.T) {
	fd, socket := startFakeDaemon(t)

	_, err := runCLI(t, socket, "history", "list", "--since", "1700000000000", "--until", "1700000005000")
	require.NoError(t, err)

	var args ipc.DateArgs
	fd.args(t, ipc.CmdListHistoryByDate, &args)
	assert.Equal(t, int64(1700000000000), args.StartTs)
	assert.Equal(t, int64(1700000005000), args.EndTs)
	require.NotNil(t, args.Limit)
	assert.Equal(t, 20, *args.Limit)
}

func TestHistorySearchJSON(t *testing.T) {
	fd, socket := startFakeDaemon(t)

	out, err := runCLI(t, socket, "--json", "history", "search", "hello", "world")
	require.NoError(t, err)

	var items []*types.ClipboardItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 2)

	var args ipc.SearchArgs
	fd.args(t, ipc.CmdSearchHistory, &args)
	assert.Equal(t, "hello world", args.Query)
}

func TestSetAndPaste(t *testing.T) {
	fd, socket := startFakeDaemon(t)

	_, err := runCLI(t, socket, "set", "7", "--paste")
	require.NoError(t, err)
	var args ipc.IDArgs
	fd.args(t, ipc.CmdSetClipboardAndPaste, &args)
	assert.Equal(t, int64(7), args.ID)

	_, err = runCLI(t, socket, "set", "999")
	assert.Equal(t, types.CodeNotFound, types.Code(err))

	_, err = runCLI(t, socket, "set", "abc")
	assert.Error(t, err)
}

func TestPinUnpinAndDelete(t *testing.T) {
	fd, socket := startFakeDaemon(t)

	_, err := runCLI(t, socket, "unpin", "3")
	require.NoError(t, err)
	var pin ipc.PinArgs
	fd.args(t, ipc.CmdPinItem, &pin)
	assert.Equal(t, int64(3), pin.ID)
	assert.False(t, pin.Pinned)

	_, err = runCLI(t, socket, "delete", "4")
	require.NoError(t, err)
	var del ipc.IDArgs
	fd.args(t, ipc.CmdDeleteItem, &del)
	assert.Equal(t, int64(4), del.ID)
}

func TestHotkeyCursorStats(t *testing.T) {
	_, socket := startFakeDaemon(t)

	out, err := runCLI(t, socket, "hotkey", "Ctrl+Shift+V")
	require.NoError(t, err)
	assert.Equal(t, "Ctrl+Shift+V\n", out)

	out, err = runCLI(t, socket, "cursor")
	require.NoError(t, err)
	assert.Equal(t, "10,20\n", out)

	out, err = runCLI(t, socket, "--json", "stats")
	require.NoError(t, err)
	var stats types.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 500, stats.Capacity)
}

func TestParseTimeBound(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"2024-05-20T10:00:00Z", now.Add(-2 * time.Hour).UnixMilli(), false},
		{"2024-05-20", time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC).UnixMilli(), false},
		{"2h", now.Add(-2 * time.Hour).UnixMilli(), false},
		{"1716206400000", 1716206400000, false},
		{"yesterday", 0, true},
	}
	for _, tt := range tests {
		got, err := parseTimeBound(tt.in, now)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "today", "abc123")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Version:    1.2.3")
}
