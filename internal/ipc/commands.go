package ipc

// Command names understood by the daemon
const (
	CmdListHistory          = "list_history"
	CmdSearchHistory        = "search_history"
	CmdListHistoryByDate    = "list_history_by_date"
	CmdSearchHistoryByDate  = "search_history_by_date"
	CmdSetClipboard         = "set_clipboard"
	CmdSetClipboardAndPaste = "set_clipboard_and_paste"
	CmdGetCursorPosition    = "get_cursor_position"
	CmdGetHotkey            = "get_hotkey"
	CmdSetHotkey            = "set_hotkey"
	CmdDeleteItem           = "delete_item"
	CmdPinItem              = "pin_item"
	CmdStats                = "stats"
)

// LimitOf returns the wire form of a result limit. Non-positive values are
// omitted so the daemon applies its default.
func LimitOf(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

// ResolveLimit maps a wire limit onto the query engine's convention, where
// zero selects the default. An explicit limit below one asks for one result.
func ResolveLimit(limit *int) int {
	if limit == nil {
		return 0
	}
	return max(*limit, 1)
}

type ListArgs struct {
	Limit *int `json:"limit,omitempty"`
}

type SearchArgs struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}

type DateArgs struct {
	StartTs int64 `json:"startTs"`
	EndTs   int64 `json:"endTs"`
	Limit   *int  `json:"limit,omitempty"`
}

type SearchDateArgs struct {
	Query   string `json:"query"`
	StartTs int64  `json:"startTs"`
	EndTs   int64  `json:"endTs"`
	Limit   *int   `json:"limit,omitempty"`
}

type IDArgs struct {
	ID int64 `json:"id"`
}

type PinArgs struct {
	ID     int64 `json:"id"`
	Pinned bool  `json:"pinned"`
}

type HotkeyArgs struct {
	Hotkey string `json:"hotkey"`
}
