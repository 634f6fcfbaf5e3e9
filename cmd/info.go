package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sensei/internal/download"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Show the record of a single remote file",
	Long: `Resolve a remote file path and print the record the API returns for it.

Examples:
  sensei info /images/train/cat.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runInfoCommand,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfoCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadEffectiveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	// Looking up a file does not need a destination.
	engine := download.NewEngine(client, download.Options{})

	file, err := engine.GetFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	raw, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format record: %w", err)
	}

	out.WriteByte('\n')

	_, err = out.WriteTo(cmd.OutOrStdout())

	return err
}
