package service

import (
	"context"
	"encoding/json"

	"github.com/berrythewa/clipman-history/internal/ipc"
)

// Register exposes the service operations on mux under their command names
func (s *Service) Register(mux *ipc.Mux) {
	mux.Handle(ipc.CmdListHistory, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.ListArgs](raw)
		if err != nil {
			return nil, err
		}
		return s.ListHistory(ipc.ResolveLimit(args.Limit))
	})
	mux.Handle(ipc.CmdSearchHistory, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.SearchArgs](raw)
		if err != nil {
			return nil, err
		}
		return s.SearchHistory(args.Query, ipc.ResolveLimit(args.Limit))
	})
	mux.Handle(ipc.CmdListHistoryByDate, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.DateArgs](raw)
		if err != nil {
			return nil, err
		}
		return s.ListHistoryByDate(args.StartTs, args.EndTs, ipc.ResolveLimit(args.Limit))
	})
	mux.Handle(ipc.CmdSearchHistoryByDate, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.SearchDateArgs](raw)
		if err != nil {
			return nil, err
		}
		return s.SearchHistoryByDate(args.Query, args.StartTs, args.EndTs, ipc.ResolveLimit(args.Limit))
	})
	mux.Handle(ipc.CmdSetClipboard, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.IDArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, s.SetClipboard(ctx, args.ID)
	})
	mux.Handle(ipc.CmdSetClipboardAndPaste, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.IDArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, s.SetClipboardAndPaste(ctx, args.ID)
	})
	mux.Handle(ipc.CmdGetCursorPosition, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		return s.GetCursorPosition()
	})
	mux.Handle(ipc.CmdGetHotkey, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		return s.GetHotkey(), nil
	})
	mux.Handle(ipc.CmdSetHotkey, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.HotkeyArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, s.SetHotkey(args.Hotkey)
	})
	mux.Handle(ipc.CmdDeleteItem, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.IDArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, s.DeleteItem(args.ID)
	})
	mux.Handle(ipc.CmdPinItem, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		args, err := ipc.Bind[ipc.PinArgs](raw)
		if err != nil {
			return nil, err
		}
		return nil, s.PinItem(args.ID, args.Pinned)
	})
	mux.Handle(ipc.CmdStats, func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		return s.Stats()
	})
}
