package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/daemon"
)

// newDaemonCmd creates the daemon command
func newDaemonCmd() *cobra.Command {
	var detach bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the Clipman daemon",
		Long: `Run the daemon that watches the clipboard, records history and serves
the other clipman commands over a local socket.

Without --detach the daemon runs in the foreground until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if detach {
				return startDetached(cmd)
			}
			return runForeground()
		},
	}

	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "run in background")
	cmd.AddCommand(newDaemonStopCmd())
	cmd.AddCommand(newDaemonStatusCmd())
	return cmd
}

func runForeground() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := daemon.New(cfg, daemon.Options{ConfigPath: configFile}, logger)
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	return d.Run(ctx)
}

func startDetached(cmd *cobra.Command) error {
	if pid, err := daemon.Status(cfg.PIDFile()); err == nil {
		return fmt.Errorf("daemon already running with PID %d", pid)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	if err := os.MkdirAll(cfg.SystemPaths.LogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Remove the --detach flag to prevent infinite recursion
	args := []string{"daemon", "--config", configFile}
	if verbose {
		args = append(args, "--verbose")
	}

	logPath := filepath.Join(cfg.SystemPaths.LogDir, "daemon.log")
	pid, err := daemon.Detach(executable, args, logPath)
	if err != nil {
		return err
	}
	logger.Info("Started daemon in background", zap.Int("pid", pid), zap.String("log", logPath))
	fmt.Fprintf(cmd.OutOrStdout(), "Clipman daemon started with PID %d\n", pid)
	return nil
}

func newDaemonStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the Clipman daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := daemon.Stop(cfg.PIDFile())
			if errors.Is(err, daemon.ErrNotRunning) {
				fmt.Fprintln(cmd.OutOrStdout(), "Clipman daemon is not running.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped Clipman daemon (PID %d).\n", pid)
			return nil
		},
	}
}

func newDaemonStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := daemon.Status(cfg.PIDFile())
			running := err == nil
			if useJSON {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"running": running,
					"pid":     pid,
				})
			}
			if !running {
				fmt.Fprintln(cmd.OutOrStdout(), "Clipman daemon is not running.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Clipman daemon is running with PID %d.\n", pid)
			return nil
		},
	}
}
