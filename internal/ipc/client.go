package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/berrythewa/clipman-history/internal/types"
)

const (
	maxRetries = 3
	retryDelay = 500 * time.Millisecond
)

// Client calls daemon commands over the IPC socket
type Client struct {
	socketPath string
	retries    int
	delay      time.Duration
}

// NewClient creates a new IPC client
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		retries:    maxRetries,
		delay:      retryDelay,
	}
}

// sendRequestWithRetry retries only when the daemon cannot be reached. Once a
// request has been written the daemon may have acted on it, so later failures
// are returned as is rather than risking a second paste or delete.
func (c *Client) sendRequestWithRetry(ctx context.Context, req *Request) (*Response, error) {
	var lastErr error
	for i := 0; i < c.retries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}
		resp, err := SendRequest(ctx, c.socketPath, req)
		if err == nil {
			return resp, nil
		}
		var dialErr *DialError
		if !errors.As(err, &dialErr) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed after %d retries: %w", c.retries, lastErr)
}

// Call invokes command with args and decodes the result into out, which may be nil
func (c *Client) Call(ctx context.Context, command string, args, out interface{}) error {
	req, err := NewRequest(command, args)
	if err != nil {
		return err
	}
	resp, err := c.sendRequestWithRetry(ctx, req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("invalid %s response: %w", command, err)
	}
	return nil
}

func (c *Client) items(ctx context.Context, command string, args interface{}) ([]*types.ClipboardItem, error) {
	var items []*types.ClipboardItem
	if err := c.Call(ctx, command, args, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) ListHistory(ctx context.Context, limit int) ([]*types.ClipboardItem, error) {
	return c.items(ctx, CmdListHistory, ListArgs{Limit: LimitOf(limit)})
}

func (c *Client) SearchHistory(ctx context.Context, query string, limit int) ([]*types.ClipboardItem, error) {
	return c.items(ctx, CmdSearchHistory, SearchArgs{Query: query, Limit: LimitOf(limit)})
}

func (c *Client) ListHistoryByDate(ctx context.Context, startTs, endTs int64, limit int) ([]*types.ClipboardItem, error) {
	return c.items(ctx, CmdListHistoryByDate, DateArgs{StartTs: startTs, EndTs: endTs, Limit: LimitOf(limit)})
}

func (c *Client) SearchHistoryByDate(ctx context.Context, query string, startTs, endTs int64, limit int) ([]*types.ClipboardItem, error) {
	return c.items(ctx, CmdSearchHistoryByDate, SearchDateArgs{Query: query, StartTs: startTs, EndTs: endTs, Limit: LimitOf(limit)})
}

func (c *Client) SetClipboard(ctx context.Context, id int64) error {
	return c.Call(ctx, CmdSetClipboard, IDArgs{ID: id}, nil)
}

func (c *Client) SetClipboardAndPaste(ctx context.Context, id int64) error {
	return c.Call(ctx, CmdSetClipboardAndPaste, IDArgs{ID: id}, nil)
}

func (c *Client) GetCursorPosition(ctx context.Context) (types.Point, error) {
	var p types.Point
	err := c.Call(ctx, CmdGetCursorPosition, nil, &p)
	return p, err
}

func (c *Client) GetHotkey(ctx context.Context) (string, error) {
	var hotkey string
	err := c.Call(ctx, CmdGetHotkey, nil, &hotkey)
	return hotkey, err
}

func (c *Client) SetHotkey(ctx context.Context, hotkey string) error {
	return c.Call(ctx, CmdSetHotkey, HotkeyArgs{Hotkey: hotkey}, nil)
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.Call(ctx, CmdDeleteItem, IDArgs{ID: id}, nil)
}

func (c *Client) PinItem(ctx context.Context, id int64, pinned bool) error {
	return c.Call(ctx, CmdPinItem, PinArgs{ID: id, Pinned: pinned}, nil)
}

func (c *Client) Stats(ctx context.Context) (*types.Stats, error) {
	var stats types.Stats
	if err := c.Call(ctx, CmdStats, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
