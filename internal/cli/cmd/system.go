package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berrythewa/clipman-history/pkg/format"
)

func newCursorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cursor",
		Short: "Print the mouse cursor position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := client().GetCursorPosition(cmd.Context())
			if err != nil {
				return err
			}
			if useJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d,%d\n", p.X, p.Y)
			return nil
		},
	}
}

func newHotkeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hotkey [shortcut]",
		Short: "Show or change the popup shortcut",
		Long: `Show the popup shortcut, or set it when a value is given.

Examples:
  clipman hotkey                # Print the current shortcut
  clipman hotkey Ctrl+Shift+V   # Change it`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client()
			if len(args) == 1 {
				if err := c.SetHotkey(cmd.Context(), args[0]); err != nil {
					return err
				}
			}
			hk, err := c.GetHotkey(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hk)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var noColors bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show history statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := client().Stats(cmd.Context())
			if err != nil {
				return err
			}
			if useJSON {
				return printJSON(cmd.OutOrStdout(), stats)
			}
			opts := format.DefaultOptions()
			if noColors {
				opts.UseColors = false
			}
			fmt.Fprintln(cmd.OutOrStdout(), format.FormatStats(stats, opts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColors, "no-colors", false, "disable colored output")
	return cmd
}
