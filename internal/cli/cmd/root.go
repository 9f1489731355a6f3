package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/common"
	"github.com/berrythewa/clipman-history/internal/config"
	"github.com/berrythewa/clipman-history/internal/ipc"
)

var (
	// Global flags
	configFile string
	socketPath string
	verbose    bool
	quiet      bool
	useJSON    bool

	// Shared resources
	cfg    *config.Config
	logger *zap.Logger
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "clipman",
		Short: "A clipboard history manager",
		Long: `Clipman records everything you copy and lets you find it again:
  • Deduplicated clipboard history with a bounded size
  • Case-insensitive search and date filters
  • Restore any entry to the clipboard, optionally pasting it`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.config/clipman/config.yaml)")
	root.PersistentFlags().StringVar(&socketPath, "socket", "", "daemon socket path (overrides config)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	root.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimize output")
	root.PersistentFlags().BoolVar(&useJSON, "json", false, "output in JSON format")

	root.AddCommand(GetCommands()...)
	return root
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() error {
	path := configFile
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
	}
	configFile = path

	loaded, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	logCfg := *cfg
	switch {
	case verbose:
		logCfg.Log.Level = "debug"
	case quiet:
		logCfg.Log.Level = "error"
	}
	if logger, err = common.NewLogger(&logCfg); err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	return nil
}

// client returns an IPC client for the running daemon
func client() *ipc.Client {
	path := socketPath
	if path == "" && cfg != nil {
		path = cfg.IPC.SocketPath
	}
	return ipc.NewClient(path)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
