package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sensei/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// logLevel is shared by the default logger so commands can lower it once the
// configuration is known.
var logLevel = new(slog.LevelVar)

var rootCmd = &cobra.Command{
	Use:   "sensei",
	Short: "Browse and download files from a sensei dataset API",
	Long: `sensei talks to a paginated file-storage API and mirrors its files
into a local directory tree.

Commands:
  ls        List directories and files under a remote path
  info      Show the record of a single remote file
  download  Download one file, or a whole tree with --recursive
  config    Manage configuration files

The API key is read from --api-key, SENSEI_API_KEY or the config file, and
prompted for on a terminal when none is set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debugMode, _ := cmd.Flags().GetBool("debug")
		if debugMode {
			logLevel.Set(slog.LevelDebug)
		} else {
			logLevel.Set(slog.LevelInfo)
		}

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)

		if configDir, _ := cmd.Flags().GetString("config-dir"); configDir != "" {
			config.SetCustomConfigDir(configDir)
		}
	},
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringP("api-key", "k", "", "API key (overrides SENSEI_API_KEY and the config file)")
	fs.String("api-root", "", "API root URL (default "+config.DefaultAPIRoot+")")
	fs.String("config-dir", "", "Custom configuration directory")
	fs.Duration("timeout", 0, "How long to wait for response headers, e.g. 30s (0 disables)")
	fs.BoolP("debug", "d", false, "Enable debug logging")
	fs.Bool("no-progress", false, "Disable download progress output")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", explainError(err))
		os.Exit(1)
	}
}
