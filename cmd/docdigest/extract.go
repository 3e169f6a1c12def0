// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-digest/internal/extract"
	"github.com/pdiddy/doc-digest/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <files...>",
	Short: "Print the text extracted from files",
	Long: `Extract shows what each file contributes to a request without calling a
model: raw text for text and markdown, page text for PDFs, and CSV per
sheet for workbooks. Unreadable or unsupported files show their
placeholder.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	files, err := readFiles(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	results, err := newExtractor(ctx, cfg.Extraction, logger).ExtractAll(ctx, files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printExtraction(out, results)
	}

	summary := extract.Summarize(results)
	fmt.Fprintf(cmd.ErrOrStderr(), "\nExtracted: %d, unsupported: %d, failed: %d (total %d)\n",
		summary.Extracted, summary.Unsupported, summary.Failed, summary.Total())
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) could not be read", summary.Failed)
	}
	return nil
}

func printExtraction(w io.Writer, results []types.ExtractionResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "=== %s (%s) ===\n%s\n", r.FileName, r.Format, r.Content())
	}
}

func init() {
	extractCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(extractCmd)
}
