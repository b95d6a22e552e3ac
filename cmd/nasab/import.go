package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nasabhq/nasab/internal/kinship"
	"github.com/nasabhq/nasab/internal/watch"
)

type importFlags struct {
	update     bool
	skip       bool
	verify     bool
	importedBy string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import a relationship dataset",
		Long:  "Merges a JSON dataset into the graph. Re-importing with --skip yields zero net new edges.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.update, "update", "u", false, "Update existing edges in place")
	cmd.Flags().BoolVarP(&flags.skip, "skip", "s", false, "Skip items whose triple already exists")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Auto-verify created edges (requires --by)")
	cmd.Flags().StringVar(&flags.importedBy, "by", "", "Importing user ID")

	return cmd
}

func runImport(cmd *cobra.Command, path string, flags importFlags) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}

	// Accept both the drop-file envelope and a bare item array.
	var file watch.ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		var items []kinship.CreateInput
		if err2 := json.Unmarshal(data, &items); err2 != nil {
			return fmt.Errorf("parsing dataset: %w", err)
		}
		file.Items = items
	}

	opts := file.Options
	if flags.update {
		opts.UpdateExisting = true
	}
	if flags.skip {
		opts.SkipDuplicates = true
	}
	if flags.verify {
		opts.VerifyAll = true
	}
	if flags.importedBy != "" {
		opts.ImportedBy = flags.importedBy
	}

	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		report, err := d.Engine.Import(ctx, file.Items, opts)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d items: %d created, %d updated, %d skipped, %d failed\n",
			len(report.Items), report.Created, report.Updated, report.Skipped, report.Failed)
		for _, item := range report.Items {
			if item.Outcome == kinship.ImportFailed {
				fmt.Printf("  item %d: %s\n", item.Index, item.Error)
			}
		}
		return nil
	})
}
