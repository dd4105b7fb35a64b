package sample

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/store"
)

func TestWriteLoadsBack(t *testing.T) {
	dir := t.TempDir()
	names, err := Write(dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(names) != len(store.DefaultSources()) {
		t.Fatalf("wrote %v", names)
	}

	src, err := store.NewDirSource(dir)
	if err != nil {
		t.Fatalf("NewDirSource: %v", err)
	}
	data, err := store.NewLoader(src, store.DefaultSources(), logging.Discard()).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if failed := data.Failed(); len(failed) != 0 {
		t.Fatalf("failed collections: %v", failed)
	}

	reports, err := data.Reports()
	if err != nil {
		t.Fatalf("Reports: %v", err)
	}
	if diff := cmp.Diff(Reports(), reports); diff != "" {
		t.Fatalf("reports differ (-want +got):\n%s", diff)
	}
	patient, err := data.Patient()
	if err != nil || patient == nil || patient.Name != "Alex Doe" {
		t.Fatalf("patient = %+v, err = %v", patient, err)
	}
	readings, err := data.Readings()
	if err != nil || len(readings) != len(Readings()) {
		t.Fatalf("readings = %d, err = %v", len(readings), err)
	}
}

func TestReportIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Reports() {
		if seen[r.ID] {
			t.Fatalf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestSourceMissing(t *testing.T) {
	src := Source(store.SourceBloodwork)
	if _, err := src.Fetch(context.Background(), store.SourceReports); err != nil {
		t.Fatalf("reports: %v", err)
	}
	_, err := src.Fetch(context.Background(), store.SourceBloodwork)
	if !errors.Is(err, store.ErrSourceUnavailable) {
		t.Fatalf("bloodwork err = %v", err)
	}
}
