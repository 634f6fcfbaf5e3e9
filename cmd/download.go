package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"sensei/internal/download"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var downloadRecursive bool

var downloadCmd = &cobra.Command{
	Use:   "download [path]",
	Short: "Download one file, or a whole tree with --recursive",
	Long: `Download a remote file into the destination directory, keeping its remote
path: /a/b/x.txt is written to <dest>/a/b/x.txt. Existing files are skipped
unless --overwrite is given.

With --recursive every file below the path (default: the root) is
downloaded, each directory's files before its subdirectories.

Examples:
  sensei download /images/train/cat.jpg
  sensei download -r /images -o ./data
  sensei download -r --overwrite`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDownloadCommand,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().BoolVarP(&downloadRecursive, "recursive", "r", false, "Download every file below the path")
	downloadCmd.Flags().Bool("overwrite", false, "Replace files that already exist locally")
	downloadCmd.Flags().StringP("dest", "o", "", "Destination directory (default ./sensei-data)")
}

func runDownloadCommand(cmd *cobra.Command, args []string) error {
	if !downloadRecursive && len(args) == 0 {
		return errors.New("a file path is required unless --recursive is set")
	}

	cfg, err := loadEffectiveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	reporter, err := newProgressReporter(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	engine := download.NewEngine(client, download.Options{
		Destination: cfg.Download.Destination,
		ChunkSize:   cfg.Download.ChunkSize,
		Progress:    reporter,
		Logger:      slog.Default(),
	})

	out := cmd.OutOrStdout()

	if downloadRecursive {
		remotePath := "/"
		if len(args) > 0 {
			remotePath = args[0]
		}

		found, err := engine.RecursiveDownload(cmd.Context(), remotePath, cfg.Download.Overwrite)
		printDownloadSummary(out, engine.Stats())

		if err != nil {
			return err
		}

		if !found {
			fmt.Fprintf(out, "Nothing found under %s\n", remotePath)
		}

		return nil
	}

	_, err = engine.DownloadFileFromPath(cmd.Context(), args[0], cfg.Download.Overwrite)
	printDownloadSummary(out, engine.Stats())

	return err
}

func printDownloadSummary(w io.Writer, stats download.Stats) {
	fmt.Fprintf(w, "\nDownload complete: %d downloaded, %d skipped, %s written\n",
		stats.Downloaded, stats.Skipped, humanize.IBytes(uint64(stats.Bytes)))
}
