// Package watch implements the import drop directory: JSON files placed in
// the watched directory are fed to the kinship importer and renamed with a
// .done or .failed suffix so a file is never processed twice.
package watch

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/nasabhq/nasab/internal/kinship"
)

// Importer is the slice of the engine the watcher needs.
type Importer interface {
	Import(ctx context.Context, items []kinship.CreateInput, opts kinship.ImportOptions) (*kinship.ImportReport, error)
}

// ImportFile is the payload format for drop files.
type ImportFile struct {
	Items   []kinship.CreateInput `json:"items"`
	Options kinship.ImportOptions `json:"options"`
}

// ImportWatcher watches a directory and imports dropped JSON datasets.
type ImportWatcher struct {
	dir      string
	importer Importer
	onReport func(file string, report *kinship.ImportReport)
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewImportWatcher creates a watcher over dir. onReport, when non-nil, is
// called after each processed file.
func NewImportWatcher(dir string, importer Importer, onReport func(file string, report *kinship.ImportReport)) *ImportWatcher {
	return &ImportWatcher{
		dir:      dir,
		importer: importer,
		onReport: onReport,
		done:     make(chan struct{}),
	}
}

// Start begins watching. Pending .json files already in the directory are
// drained first, then new ones are picked up as they appear. Call Stop() to
// clean up.
func (iw *ImportWatcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(iw.dir, 0o700); err != nil {
		return err
	}

	iw.drainExisting(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(iw.dir); err != nil {
		_ = w.Close()
		return err
	}
	iw.watcher = w

	go iw.loop(ctx)
	log.Printf("watch: watching %s for import files", iw.dir)
	return nil
}

// Stop shuts down the watcher.
func (iw *ImportWatcher) Stop() {
	if iw.watcher != nil {
		_ = iw.watcher.Close()
	}
	<-iw.done
}

func (iw *ImportWatcher) loop(ctx context.Context) {
	defer close(iw.done)
	for {
		select {
		case evt, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Create|fsnotify.Rename) != 0 && isImportFile(evt.Name) {
				iw.processFile(ctx, evt.Name)
			}
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: watcher error: %v", err)
		}
	}
}

func (iw *ImportWatcher) drainExisting(ctx context.Context) {
	entries, err := os.ReadDir(iw.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && isImportFile(entry.Name()) {
			iw.processFile(ctx, filepath.Join(iw.dir, entry.Name()))
		}
	}
}

// isImportFile accepts only plain .json drops; processed files carry a
// .done or .failed suffix and are never picked up again.
func isImportFile(name string) bool {
	return strings.HasSuffix(name, ".json")
}

func (iw *ImportWatcher) processFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return // file already consumed or moved
	}

	var file ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("watch: invalid import file %s: %v", filepath.Base(path), err)
		iw.markProcessed(path, false)
		return
	}

	report, err := iw.importer.Import(ctx, file.Items, file.Options)
	if err != nil {
		log.Printf("watch: import of %s failed: %v", filepath.Base(path), err)
		iw.markProcessed(path, false)
		return
	}

	log.Printf("watch: imported %s: %d created, %d updated, %d skipped, %d failed",
		filepath.Base(path), report.Created, report.Updated, report.Skipped, report.Failed)
	iw.markProcessed(path, report.Failed == 0)

	if iw.onReport != nil {
		iw.onReport(filepath.Base(path), report)
	}
}

// markProcessed renames the drop file so it is not reprocessed. A file with
// any failed items keeps its contents under .failed for the operator.
func (iw *ImportWatcher) markProcessed(path string, ok bool) {
	suffix := ".failed"
	if ok {
		suffix = ".done"
	}
	if err := os.Rename(path, path+suffix); err != nil {
		log.Printf("watch: rename %s: %v", filepath.Base(path), err)
	}
}
