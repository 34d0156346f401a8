package persistence

import (
	"context"
	"testing"

	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
)

func newTestSink(t *testing.T) *FileSink {
	t.Helper()
	return NewFileSink(t.TempDir(), logger.NewLogger(), metrics.New())
}

func TestFileSinkLoadMissingIsNotError(t *testing.T) {
	s := newTestSink(t)
	doc, ok, err := s.Load(DocumentID{Module: "leveling", Owner: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for a missing document")
	}
	if doc.Fields != nil {
		t.Error("expected zero-value document for a miss")
	}
}

func TestFileSinkSaveThenLoadRoundTrips(t *testing.T) {
	s := newTestSink(t)
	id := DocumentID{Module: "leveling", Owner: "p1"}
	doc := Document{SchemaVersion: 1, Fields: map[string]any{"totalXpEarned": float64(42)}}

	if err := s.Save(id, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok, err := s.Load(id)
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if got.SchemaVersion != 1 || got.Fields["totalXpEarned"] != float64(42) {
		t.Errorf("got %+v, want round-tripped document", got)
	}
}

func TestFileSinkSaveOverwritesPreviousVersion(t *testing.T) {
	s := newTestSink(t)
	id := DocumentID{Module: "leveling", Owner: "p1"}
	_ = s.Save(id, Document{SchemaVersion: 1, Fields: map[string]any{"v": "first"}})
	_ = s.Save(id, Document{SchemaVersion: 1, Fields: map[string]any{"v": "second"}})

	got, _, _ := s.Load(id)
	if got.Fields["v"] != "second" {
		t.Errorf("got %v, want second write to win", got.Fields["v"])
	}
}

func TestFileSinkDeleteMissingIsNotError(t *testing.T) {
	s := newTestSink(t)
	if err := s.Delete(DocumentID{Module: "leveling", Owner: "ghost"}); err != nil {
		t.Errorf("deleting a missing document should not error, got %v", err)
	}
}

func TestFileSinkDeleteRemovesDocument(t *testing.T) {
	s := newTestSink(t)
	id := DocumentID{Module: "leveling", Owner: "p1"}
	_ = s.Save(id, Document{SchemaVersion: 1, Fields: map[string]any{"v": "x"}})

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, ok, _ := s.Load(id)
	if ok {
		t.Error("expected document to be gone after Delete")
	}
}

func TestFileSinkSaveAllFlushesEveryEntry(t *testing.T) {
	s := newTestSink(t)
	dirty := []Dirty{
		{ID: DocumentID{Module: "leveling", Owner: "p1"}, Doc: Document{SchemaVersion: 1, Fields: map[string]any{"v": "1"}}},
		{ID: DocumentID{Module: "leveling", Owner: "p2"}, Doc: Document{SchemaVersion: 1, Fields: map[string]any{"v": "2"}}},
		{ID: DocumentID{Module: "claims", Owner: "plot/a"}, Doc: Document{SchemaVersion: 1, Fields: map[string]any{"v": "3"}}},
	}

	if err := s.SaveAll(context.Background(), dirty); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	for _, d := range dirty {
		got, ok, err := s.Load(d.ID)
		if err != nil || !ok {
			t.Fatalf("expected %s to be persisted, ok=%v err=%v", d.ID.Key(), ok, err)
		}
		if got.Fields["v"] != d.Doc.Fields["v"] {
			t.Errorf("%s: got %v, want %v", d.ID.Key(), got.Fields["v"], d.Doc.Fields["v"])
		}
	}
}
