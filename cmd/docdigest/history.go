// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc-digest/internal/history"
	"github.com/pdiddy/doc-digest/internal/render"
	"github.com/pdiddy/doc-digest/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect earlier successful runs (list, show, export)",
	Long: `History reads the run database written by serve and process when
history.enabled is set. Use subcommands to list runs, print one, or export
all of them.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	formatRuns(out, runs)
	return nil
}

func formatRuns(w io.Writer, runs []types.GenerationResult) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-24s  %s\n", "ID", "Created", "Model", "Files")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		model := r.Model
		if len(model) > 24 {
			model = model[:21] + "..."
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-24s  %s\n",
			r.RunID, r.Created.Local().Format("2006-01-02 15:04:05"), model, strings.Join(r.Files, ", "))
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the markdown of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	asHTML, _ := cmd.Flags().GetBool("html")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	out := run.Markdown
	if asHTML {
		if out, err = render.HTML(run.Markdown); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every run to YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	ctx := context.Background()
	switch format {
	case "yaml", "":
		err = store.ExportYAML(ctx, w)
	case "json":
		err = store.ExportJSON(ctx, w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
	}
	return nil
}

// --- shared helpers ---

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.History.Dir)
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	historyListCmd.Flags().Bool("json", false, "output runs as JSON")

	historyShowCmd.Flags().Bool("html", false, "print rendered HTML instead of markdown")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
