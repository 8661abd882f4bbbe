package store

import (
	"errors"
	"testing"
	"time"
)

func TestExportRepository_CreateSentence(t *testing.T) {
	s := newTestStore(t)
	repo := s.Exports()

	e := &Export{
		ID:       "exp-1",
		Kind:     ExportKindSentence,
		Path:     "/tmp/sentence_20260314_090000.txt",
		Sentence: "HELLO WORLD",
	}
	if err := repo.Create(e, nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if e.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}

	got, err := repo.GetByID("exp-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Kind != ExportKindSentence {
		t.Errorf("Kind = %q, want %q", got.Kind, ExportKindSentence)
	}
	if got.Sentence != "HELLO WORLD" {
		t.Errorf("Sentence = %q", got.Sentence)
	}
	if got.Path != e.Path {
		t.Errorf("Path = %q, want %q", got.Path, e.Path)
	}
	if got.Entries != 0 {
		t.Errorf("Entries = %d, want 0", got.Entries)
	}
}

func TestExportRepository_CreateLogWithLetters(t *testing.T) {
	s := newTestStore(t)
	repo := s.Exports()

	letters := []Letter{
		{Sequence: 0, Timestamp: "2026-03-14T09:00:01.000000+00:00", Letter: "H"},
		{Sequence: 1, Timestamp: "2026-03-14T09:00:05.000000+00:00", Letter: "I"},
	}
	e := &Export{ID: "log-1", Kind: ExportKindLog, Path: "/tmp/letters.csv"}

	if err := repo.Create(e, letters); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if e.Entries != 2 {
		t.Errorf("Entries = %d, want 2", e.Entries)
	}

	got, err := repo.Letters("log-1")
	if err != nil {
		t.Fatalf("Letters() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Letters() returned %d rows, want 2", len(got))
	}
	if got[0].Sequence != 0 || got[0].Letter != "H" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Sequence != 1 || got[1].Letter != "I" || got[1].Timestamp != letters[1].Timestamp {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestExportRepository_CreateKeepsSequence(t *testing.T) {
	s := newTestStore(t)
	repo := s.Exports()

	// Rows arrive out of order; Letters returns them by sequence.
	letters := []Letter{
		{Sequence: 7, Timestamp: "2026-03-14T09:00:09.000000+00:00", Letter: "C"},
		{Sequence: 3, Timestamp: "2026-03-14T09:00:02.000000+00:00", Letter: "A"},
		{Sequence: 5, Timestamp: "2026-03-14T09:00:05.000000+00:00", Letter: "B"},
	}
	e := &Export{ID: "log-seq", Kind: ExportKindLog, Path: "/tmp/letters.csv"}

	if err := repo.Create(e, letters); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.Letters("log-seq")
	if err != nil {
		t.Fatalf("Letters() error = %v", err)
	}

	want := []Letter{letters[1], letters[2], letters[0]}
	if len(got) != len(want) {
		t.Fatalf("Letters() returned %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestExportRepository_InvalidKindRollsBack(t *testing.T) {
	s := newTestStore(t)
	repo := s.Exports()

	e := &Export{ID: "bad", Kind: ExportKind("video"), Path: "x"}
	if err := repo.Create(e, []Letter{{Timestamp: "t", Letter: "A"}}); err == nil {
		t.Fatal("expected error for invalid kind")
	}

	if _, err := repo.GetByID("bad"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}

	var count int
	s.DB().QueryRow("SELECT COUNT(*) FROM export_letters").Scan(&count)
	if count != 0 {
		t.Errorf("export_letters has %d rows after failed create, want 0", count)
	}
}

func TestExportRepository_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	repo := s.Exports()

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		e := &Export{ID: id, Kind: ExportKindSentence, Path: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(e, nil); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d exports, want 3", len(list))
	}
	if list[0].ID != "c" || list[2].ID != "a" {
		t.Errorf("List() order = %s, %s, %s; want c, b, a", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestExportRepository_NotFound(t *testing.T) {
	s := newTestStore(t)
	repo := s.Exports()

	if _, err := repo.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestExportRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)
	repo := s.Exports()

	e := &Export{ID: "log-1", Kind: ExportKindLog, Path: "p"}
	repo.Create(e, []Letter{{Timestamp: "t", Letter: "A"}})

	if err := repo.Delete("log-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	letters, err := repo.Letters("log-1")
	if err != nil {
		t.Fatalf("Letters() error = %v", err)
	}
	if len(letters) != 0 {
		t.Errorf("letters should be deleted with the export, got %d", len(letters))
	}
}
