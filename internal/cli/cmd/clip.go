package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newSetCmd() *cobra.Command {
	var paste bool

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Put a history entry back on the clipboard",
		Long: `Put a history entry back on the clipboard. With --paste the entry is
also pasted into the focused window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if paste {
				err = client().SetClipboardAndPaste(cmd.Context(), id)
			} else {
				err = client().SetClipboard(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Entry #%d copied to clipboard\n", id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&paste, "paste", "p", false, "also paste into the focused window")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := client().DeleteItem(cmd.Context(), id); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry #%d\n", id)
			}
			return nil
		},
	}
}

// newPinCmd builds pin or unpin
func newPinCmd(pinned bool) *cobra.Command {
	use, short, verb := "pin <id>", "Protect a history entry from eviction", "Pinned"
	if !pinned {
		use, short, verb = "unpin <id>", "Allow a pinned entry to be evicted again", "Unpinned"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := client().PinItem(cmd.Context(), id, pinned); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s entry #%d\n", verb, id)
			}
			return nil
		},
	}
}
