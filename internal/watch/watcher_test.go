package watch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nasabhq/nasab/internal/kinship"
)

// fakeImporter records datasets and reports every item as created.
type fakeImporter struct {
	batches chan []kinship.CreateInput
	err     error
}

func newFakeImporter() *fakeImporter {
	return &fakeImporter{batches: make(chan []kinship.CreateInput, 10)}
}

func (f *fakeImporter) Import(_ context.Context, items []kinship.CreateInput, _ kinship.ImportOptions) (*kinship.ImportReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches <- items
	return &kinship.ImportReport{Created: len(items)}, nil
}

func writeDropFile(t *testing.T, dir, name string, file ImportFile) string {
	t.Helper()
	data, err := json.Marshal(file)
	if err != nil {
		t.Fatalf("marshal drop file: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write drop file: %v", err)
	}
	return path
}

func sampleFile() ImportFile {
	return ImportFile{
		Items: []kinship.CreateInput{
			{PersonID: "p1", RelatedPersonID: "p2", Type: "FATHER"},
			{PersonID: "p1", RelatedPersonID: "p3", Type: "FATHER"},
		},
		Options: kinship.ImportOptions{SkipDuplicates: true},
	}
}

func TestImportWatcherPicksUpNewFile(t *testing.T) {
	dir := t.TempDir()
	importer := newFakeImporter()

	reports := make(chan *kinship.ImportReport, 1)
	w := NewImportWatcher(dir, importer, func(_ string, report *kinship.ImportReport) {
		reports <- report
	})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	// Give fsnotify a moment to register
	time.Sleep(50 * time.Millisecond)

	path := writeDropFile(t, dir, "family.json", sampleFile())

	select {
	case items := <-importer.batches:
		if len(items) != 2 {
			t.Errorf("expected 2 items, got %d", len(items))
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for import")
	}

	select {
	case report := <-reports:
		if report.Created != 2 {
			t.Errorf("report.Created = %d, want 2", report.Created)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for report callback")
	}

	waitForRename(t, path+".done")
}

func TestImportWatcherDrainsExisting(t *testing.T) {
	dir := t.TempDir()
	importer := newFakeImporter()

	// Files dropped BEFORE the watcher starts must still be processed.
	writeDropFile(t, dir, "a.json", sampleFile())
	writeDropFile(t, dir, "b.json", sampleFile())

	w := NewImportWatcher(dir, importer, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-importer.batches:
		case <-time.After(3 * time.Second):
			t.Fatalf("timeout waiting for drained file %d", i)
		}
	}
}

func TestImportWatcherInvalidJSONMarkedFailed(t *testing.T) {
	dir := t.TempDir()
	importer := newFakeImporter()

	w := NewImportWatcher(dir, importer, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)

	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	waitForRename(t, path+".failed")

	select {
	case <-importer.batches:
		t.Fatal("invalid file must not reach the importer")
	default:
	}
}

func TestImportWatcherIgnoresProcessedFiles(t *testing.T) {
	dir := t.TempDir()
	importer := newFakeImporter()

	// Already-processed files must not be re-imported on startup.
	data, _ := json.Marshal(sampleFile())
	if err := os.WriteFile(filepath.Join(dir, "old.json.done"), data, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	w := NewImportWatcher(dir, importer, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	select {
	case <-importer.batches:
		t.Fatal("processed file must be ignored")
	default:
	}
}

// waitForRename polls for the renamed drop file.
func waitForRename(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", filepath.Base(path))
}
