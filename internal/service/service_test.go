package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/berrythewa/clipman-history/internal/clipboard"
	"github.com/berrythewa/clipman-history/internal/fingerprint"
	"github.com/berrythewa/clipman-history/internal/ipc"
	"github.com/berrythewa/clipman-history/internal/platform"
	"github.com/berrythewa/clipman-history/internal/platform/mockboard"
	"github.com/berrythewa/clipman-history/internal/query"
	"github.com/berrythewa/clipman-history/internal/retention"
	"github.com/berrythewa/clipman-history/internal/storage"
	"github.com/berrythewa/clipman-history/internal/types"
)

type memHotkeys struct {
	hotkey string
}

func (m *memHotkeys) Hotkey() string { return m.hotkey }

func (m *memHotkeys) SetHotkey(h string) error {
	m.hotkey = h
	return nil
}

type harness struct {
	svc        *Service
	recorder   *clipboard.Recorder
	board      *mockboard.MockClipboard
	input      *mockboard.MockInput
	suppressor *clipboard.Suppressor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store, err := storage.NewBoltStorage(storage.StorageConfig{
		DBPath: filepath.Join(t.TempDir(), "history.db"),
		Logger: logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine, err := query.NewEngine(store, query.Options{}, logger)
	require.NoError(t, err)

	h := &harness{
		board:      mockboard.New(),
		input:      &mockboard.MockInput{X: 120, Y: 45},
		suppressor: clipboard.NewSuppressor(time.Minute, logger),
		recorder:   clipboard.NewRecorder(store, retention.NewManager(10, logger), fingerprint.DefaultPolicy(), logger),
	}
	h.svc = New(Deps{
		Store:      store,
		Engine:     engine,
		Clipboard:  h.board,
		Suppressor: h.suppressor,
		Paster:     h.input,
		Cursor:     h.input,
		Hotkeys:    &memHotkeys{},
		Logger:     logger,
	}, Options{Capacity: 10, SettleDelay: time.Millisecond})
	return h
}

func (h *harness) add(t *testing.T, item *types.NewItem) int64 {
	t.Helper()
	res, err := h.recorder.Record(item)
	require.NoError(t, err)
	return res.ID
}

func TestSetClipboardUnknownID(t *testing.T) {
	h := newHarness(t)

	err := h.svc.SetClipboard(context.Background(), 42)
	assert.Equal(t, types.CodeNotFound, types.Code(err))
	assert.Equal(t, 0, h.board.Writes())
	assert.False(t, h.suppressor.Observe())
}

func TestSetClipboardRestoresPayload(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	text := h.add(t, &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: "hello", CreatedAt: 1})
	file := h.add(t, &types.NewItem{Format: types.FormatFile, Category: types.CategoryFile, FilePath: "/etc/hosts", CreatedAt: 2})
	color := h.add(t, &types.NewItem{Format: types.FormatColor, Category: types.CategoryText, Color: "#fff", CreatedAt: 3})
	html := h.add(t, &types.NewItem{Format: types.FormatHTML, Category: types.CategoryText, HTML: "<i>x</i>", CreatedAt: 4})
	img := h.add(t, &types.NewItem{Format: types.FormatImage, Category: types.CategoryImage, Image: []byte("png"), CreatedAt: 5})

	require.NoError(t, h.svc.SetClipboard(ctx, text))
	assert.Equal(t, "hello", h.board.Current().Text)
	assert.True(t, h.suppressor.Observe())

	require.NoError(t, h.svc.SetClipboard(ctx, file))
	assert.Equal(t, "/etc/hosts", h.board.Current().Text)

	require.NoError(t, h.svc.SetClipboard(ctx, color))
	assert.Equal(t, "#fff", h.board.Current().Text)

	require.NoError(t, h.svc.SetClipboard(ctx, html))
	assert.Equal(t, "<i>x</i>", h.board.Current().HTML)

	require.NoError(t, h.svc.SetClipboard(ctx, img))
	assert.Equal(t, []byte("png"), h.board.Current().Image)

	assert.Equal(t, 5, h.board.Writes())
}

func TestSetClipboardUnchangedLeavesNothingArmed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.add(t, &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: "same", CreatedAt: 1})

	require.NoError(t, h.svc.SetClipboard(ctx, id))
	assert.True(t, h.suppressor.Observe())

	// the clipboard already holds the entry: no write, no mark
	require.NoError(t, h.svc.SetClipboard(ctx, id))
	assert.Equal(t, 1, h.board.Writes())
	assert.False(t, h.suppressor.Observe())

	// once something else was copied the restore writes and arms again
	h.board.Copy(&platform.Content{Text: "other"})
	require.NoError(t, h.svc.SetClipboard(ctx, id))
	assert.Equal(t, 2, h.board.Writes())
	assert.True(t, h.suppressor.Observe())
}

func TestSetClipboardAccessDenied(t *testing.T) {
	h := newHarness(t)
	id := h.add(t, &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: "x", CreatedAt: 1})
	h.board.SetDenied(true)

	err := h.svc.SetClipboard(context.Background(), id)
	assert.Equal(t, types.CodeClipboardAccessDenied, types.Code(err))
	assert.False(t, h.suppressor.Observe())
}

func TestSetClipboardAndPaste(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.add(t, &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: "paste me", CreatedAt: 1})

	require.NoError(t, h.svc.SetClipboardAndPaste(ctx, id))
	assert.Equal(t, 1, h.input.Pastes())
	assert.Equal(t, "paste me", h.board.Current().Text)

	err := h.svc.SetClipboardAndPaste(ctx, id+100)
	assert.Equal(t, types.CodeNotFound, types.Code(err))
	assert.Equal(t, 1, h.input.Pastes())

	h.input.Err = types.ErrPasteInjectionUnavailable
	err = h.svc.SetClipboardAndPaste(ctx, id)
	assert.Equal(t, types.CodePasteInjectionUnavailable, types.Code(err))
}

func TestCursorPassThrough(t *testing.T) {
	h := newHarness(t)

	p, err := h.svc.GetCursorPosition()
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: 120, Y: 45}, p)
}

func TestHotkey(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, DefaultHotkey, h.svc.GetHotkey())
	require.NoError(t, h.svc.SetHotkey("shift + ctrl + k"))
	assert.Equal(t, "Ctrl+Shift+K", h.svc.GetHotkey())

	err := h.svc.SetHotkey("Ctrl+F13")
	assert.Equal(t, types.CodeInvalidArgument, types.Code(err))
	assert.Equal(t, "Ctrl+Shift+K", h.svc.GetHotkey())
}

func TestDeletePinAndStats(t *testing.T) {
	h := newHarness(t)
	a := h.add(t, &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: "a", CreatedAt: 1})
	b := h.add(t, &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: "b", CreatedAt: 2})

	require.NoError(t, h.svc.PinItem(a, true))
	require.NoError(t, h.svc.DeleteItem(b))
	assert.Equal(t, types.CodeNotFound, types.Code(h.svc.DeleteItem(b)))
	assert.Equal(t, types.CodeNotFound, types.Code(h.svc.PinItem(b, true)))

	stats, err := h.svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Pinned)
	assert.Equal(t, 10, stats.Capacity)

	items, err := h.svc.ListHistory(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Pinned)
}

func TestRegisteredCommands(t *testing.T) {
	h := newHarness(t)
	h.add(t, &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: "Alpha", CreatedAt: 10})
	h.add(t, &types.NewItem{Format: types.FormatText, Category: types.CategoryText, Text: "beta", CreatedAt: 20})

	mux := ipc.NewMux()
	h.svc.Register(mux)
	assert.Len(t, mux.Commands(), 12)

	ctx := context.Background()
	serve := func(command, args string) *ipc.Response {
		return mux.Serve(ctx, &ipc.Request{Command: command, Args: json.RawMessage(args)})
	}

	resp := serve(ipc.CmdSearchHistoryByDate, `{"query":"ALPHA","startTs":0,"endTs":15,"limit":5}`)
	require.Equal(t, ipc.StatusOK, resp.Status)
	var items []*types.ClipboardItem
	require.NoError(t, json.Unmarshal(resp.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Alpha", items[0].Text)

	resp = serve(ipc.CmdListHistory, `{}`)
	require.Equal(t, ipc.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Data), `"createdAt":20`)

	count := func(resp *ipc.Response) int {
		t.Helper()
		require.Equal(t, ipc.StatusOK, resp.Status)
		var got []*types.ClipboardItem
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		return len(got)
	}
	assert.Equal(t, 2, count(serve(ipc.CmdListHistory, `{"limit":null}`)))
	assert.Equal(t, 1, count(serve(ipc.CmdListHistory, `{"limit":0}`)))
	assert.Equal(t, 1, count(serve(ipc.CmdSearchHistory, `{"query":"a","limit":-1}`)))

	resp = serve(ipc.CmdSearchHistory, `{"query":"zzz"}`)
	require.Equal(t, ipc.StatusOK, resp.Status)
	assert.Equal(t, "[]", string(resp.Data))

	resp = serve(ipc.CmdSetClipboard, `{"id":999}`)
	assert.Equal(t, ipc.StatusError, resp.Status)
	assert.Equal(t, types.CodeNotFound, resp.Code)

	resp = serve(ipc.CmdGetCursorPosition, ``)
	require.Equal(t, ipc.StatusOK, resp.Status)
	assert.JSONEq(t, `{"x":120,"y":45}`, string(resp.Data))
}
