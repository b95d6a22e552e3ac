package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nasabhq/nasab/internal/kinship"
	"github.com/nasabhq/nasab/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a drop directory for import files",
		Long:  "Runs until interrupted, importing JSON files dropped into the watched directory. Processed files are renamed .done or .failed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatchDir(cmd, dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to watch (default: configured watch dir)")

	return cmd
}

func runWatchDir(cmd *cobra.Command, dir string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		if dir == "" {
			dir = d.Config.Watch.Dir
		}

		watcher := watch.NewImportWatcher(dir, d.Engine, func(file string, report *kinship.ImportReport) {
			fmt.Printf("%s: %d created, %d updated, %d skipped, %d failed\n",
				file, report.Created, report.Updated, report.Skipped, report.Failed)
		})
		if err := watcher.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()
		watcher.Stop()
		return nil
	})
}
