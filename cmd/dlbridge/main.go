package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/daios-ai/dlbridge"
)

const (
	appName     = "dlbridge"
	historyFile = ".dlbridge_history"
)

var rootCmd = &cobra.Command{
	Use:   "dlbridge",
	Short: "Call native shared-library functions with signatures declared as data",
	Long: `dlbridge opens a dynamic library, marshals loosely-typed values into a
declared scalar signature, and performs the foreign call through libffi.

The API is unstable and unsafe by default: pass --unstable to enable it,
and grant access with --allow-all or a dlbridge.toml permissions section.`,
	SilenceUsage: true,
}

var (
	flagConfig   string
	flagUnstable bool
	flagAllowAll bool
	flagVerbose  bool
)

func main() {
	rootCmd.Version = dlbridge.Version

	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to dlbridge.toml")
	rootCmd.PersistentFlags().BoolVar(&flagUnstable, "unstable", false, "enable the unstable dlbridge API")
	rootCmd.PersistentFlags().BoolVar(&flagAllowAll, "allow-all", false, "grant unrestricted library access")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newDispatcher assembles the dispatch surface from flags and config.
func newDispatcher() (*dlbridge.Dispatcher, error) {
	cfg := dlbridge.DefaultConfig()
	if flagConfig != "" {
		loaded, err := dlbridge.LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if flagUnstable {
		cfg.Unstable = true
	}
	perms := cfg.BuildPermissions()
	if flagAllowAll {
		perms = dlbridge.NoPermissions{}
	}
	logger := zap.NewNop()
	if flagVerbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		logger = dev
	}
	return dlbridge.NewDispatcher(cfg.Unstable, perms, dlbridge.WithLogger(logger)), nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dlbridge version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(dlbridge.Version)
	},
}
