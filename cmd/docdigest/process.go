// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-digest/internal/workspace"
	"github.com/pdiddy/doc-digest/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process <files...>",
	Short: "Digest files into processed_result.md",
	Long: `Process runs the same pipeline as the web interface over files on disk:
extract text, send it with the organizing instruction to the configured
model, and write the markdown answer. Duplicate file names are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	htmlPath, _ := cmd.Flags().GetString("html")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	files, err := readFiles(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return processFiles(ctx, cmd.OutOrStdout(), a.workspace, files, output, htmlPath)
}

// processFiles runs ws over files and writes the markdown result to output
// and, when htmlPath is set, the rendered HTML.
func processFiles(ctx context.Context, w io.Writer, ws *workspace.Workspace, files []types.SelectedFile, output, htmlPath string) error {
	added := ws.AddFiles(files...)
	if skipped := len(files) - added; skipped > 0 {
		fmt.Fprintf(w, "Skipped %d duplicate file name(s)\n", skipped)
	}
	fmt.Fprintf(w, "Processing %d file(s)...\n", added)

	if err := ws.Process(ctx); err != nil {
		return err
	}

	art, err := ws.Download()
	if err != nil {
		return err
	}
	if output == "" {
		output = art.Name
	}
	if err := os.WriteFile(output, art.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(w, "Wrote %s (%d bytes)\n", output, len(art.Data))

	if htmlPath != "" {
		res, _ := ws.Result()
		if err := os.WriteFile(htmlPath, []byte(res.HTML), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", htmlPath, err)
		}
		fmt.Fprintf(w, "Wrote %s\n", htmlPath)
	}
	return nil
}

func init() {
	processCmd.Flags().StringP("output", "o", "", "markdown output path (default processed_result.md)")
	processCmd.Flags().String("html", "", "also write the rendered HTML to this path")

	rootCmd.AddCommand(processCmd)
}
