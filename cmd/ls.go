package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"sensei/internal/api"
	"sensei/pkg/interfaces"

	"github.com/spf13/cobra"
)

var lsJSON bool

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List directories and files under a remote path",
	Long: `List the directories (marked with a trailing slash) and then the files
directly under a remote path. The path defaults to the root.

Examples:
  sensei ls
  sensei ls /images/train
  sensei ls /images --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLsCommand,
}

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "Print the raw records as JSON lines")
}

func runLsCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadEffectiveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	dir := "/"
	if len(args) > 0 {
		dir = args[0]
	}

	_, err = listDirectory(cmd.Context(), cmd.OutOrStdout(), client, dir, lsJSON)

	return err
}

// listDirectory writes the entries directly under dir and returns how many
// were printed. Both listings are read in full first, so a failure on a
// later page prints nothing.
func listDirectory(ctx context.Context, w io.Writer, lister interfaces.Lister, dir string, asJSON bool) (int, error) {
	dirs, err := api.Collect(lister.IterateDirectories(ctx, dir))
	if err != nil {
		return 0, fmt.Errorf("failed to list directories in %s: %w", dir, err)
	}

	files, err := api.Collect(lister.IterateFiles(ctx, dir))
	if err != nil {
		return 0, fmt.Errorf("failed to list files in %s: %w", dir, err)
	}

	if asJSON {
		enc := json.NewEncoder(w)

		for _, d := range dirs {
			if err := enc.Encode(d); err != nil {
				return 0, err
			}
		}

		for _, f := range files {
			if err := enc.Encode(f); err != nil {
				return 0, err
			}
		}

		return len(dirs) + len(files), nil
	}

	for _, d := range dirs {
		fmt.Fprintf(w, "%s/\n", d.Path)
	}

	for _, f := range files {
		fmt.Fprintln(w, path.Join(f.Path, f.Filename))
	}

	return len(dirs) + len(files), nil
}
