package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipman-history/internal/types"
	"github.com/berrythewa/clipman-history/pkg/format"
)

// historyFlags are shared by list and search
type historyFlags struct {
	limit    int
	since    string
	until    string
	compact  bool
	noColors bool
	noIcons  bool
	maxLines int
	maxWidth int
}

func (f *historyFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 20, "maximum number of entries to show")
	cmd.Flags().StringVar(&f.since, "since", "", "only entries created at or after this time (RFC3339, YYYY-MM-DD, duration ago like 2h, or epoch ms)")
	cmd.Flags().StringVar(&f.until, "until", "", "only entries created at or before this time")
	cmd.Flags().BoolVarP(&f.compact, "compact", "c", false, "use compact single-line format")
	cmd.Flags().BoolVar(&f.noColors, "no-colors", false, "disable colored output")
	cmd.Flags().BoolVar(&f.noIcons, "no-icons", false, "disable icons in output")
	cmd.Flags().IntVar(&f.maxLines, "max-lines", 10, "maximum lines to show per entry (0 = no limit)")
	cmd.Flags().IntVar(&f.maxWidth, "max-width", 80, "maximum width per line (0 = no limit)")
}

func (f *historyFlags) options() format.Options {
	opts := format.DefaultOptions()
	if f.compact {
		opts = format.CompactOptions()
	}
	if f.noColors {
		opts.UseColors = false
	}
	if f.noIcons {
		opts.UseIcons = false
	}
	opts.MaxLines = f.maxLines
	opts.MaxWidth = f.maxWidth
	return opts
}

// window resolves --since/--until; ok is false when neither is set
func (f *historyFlags) window(now time.Time) (start, end int64, ok bool, err error) {
	if f.since == "" && f.until == "" {
		return 0, 0, false, nil
	}
	start, end = 0, math.MaxInt64
	if f.since != "" {
		if start, err = parseTimeBound(f.since, now); err != nil {
			return 0, 0, false, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if f.until != "" {
		if end, err = parseTimeBound(f.until, now); err != nil {
			return 0, 0, false, fmt.Errorf("invalid --until: %w", err)
		}
	}
	return start, end, true, nil
}

// newHistoryCmd creates the history command with its subcommands
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse clipboard history",
		Long: `Browse clipboard history:
  • List entries, most recent first
  • Search entries case-insensitively
  • Restrict either to a time window with --since and --until`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistorySearchCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clipboard history",
		Long: `List clipboard history entries, most recent first.

Examples:
  clipman history list                    # Show last 20 entries
  clipman history list -n 50              # Show last 50 entries
  clipman history list --since 1h         # Show entries from the last hour
  clipman history list --compact          # Compact single-line format`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, byDate, err := flags.window(time.Now())
			if err != nil {
				return err
			}

			var items []*types.ClipboardItem
			if byDate {
				items, err = client().ListHistoryByDate(cmd.Context(), start, end, flags.limit)
			} else {
				items, err = client().ListHistory(cmd.Context(), flags.limit)
			}
			if err != nil {
				return err
			}
			return renderItems(cmd, items, flags.options())
		},
	}

	flags.register(cmd)
	return cmd
}

func newHistorySearchCmd() *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search clipboard history",
		Long: `Search clipboard history for entries containing the query, ignoring case.

Examples:
  clipman history search invoice
  clipman history search "https://" --since 2024-05-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			start, end, byDate, err := flags.window(time.Now())
			if err != nil {
				return err
			}

			var items []*types.ClipboardItem
			if byDate {
				items, err = client().SearchHistoryByDate(cmd.Context(), query, start, end, flags.limit)
			} else {
				items, err = client().SearchHistory(cmd.Context(), query, flags.limit)
			}
			if err != nil {
				return err
			}
			return renderItems(cmd, items, flags.options())
		},
	}

	flags.register(cmd)
	return cmd
}

func renderItems(cmd *cobra.Command, items []*types.ClipboardItem, opts format.Options) error {
	if useJSON {
		return printJSON(cmd.OutOrStdout(), items)
	}
	fmt.Fprintln(cmd.OutOrStdout(), format.FormatItemList(items, opts))
	return nil
}

// parseTimeBound accepts RFC3339, a local date, a duration before now, or
// epoch milliseconds
func parseTimeBound(s string, now time.Time) (int64, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t.UnixMilli(), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d).UnixMilli(), nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	return 0, fmt.Errorf("unrecognized time %q", s)
}
