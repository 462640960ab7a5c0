// =============================
// File: cmd/pumpstream/main.go
// =============================
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/pumpstream/internal/config"
	"github.com/rovshanmuradov/pumpstream/internal/utils/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pumpstream",
		Short:         "pump.fun / PumpSwap event stream and instruction builder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-file", "", "JSON log file, empty for console only")
	root.PersistentFlags().Bool("pretty", false, "colored console output")

	root.AddCommand(
		newStreamCmd(),
		newBuildCmd(),
		newDeriveCmd(),
		newDecodeCmd(),
	)
	return root
}

// setup loads configuration and creates the logger for a command.
func setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
