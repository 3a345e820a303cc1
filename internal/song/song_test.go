// ABOUTME: Tests for the song/pattern-column data model
// ABOUTME: Covers column length fallback, tempo lookup and JSON round trips
package song

import (
	"path/filepath"
	"testing"
)

func TestColumnLengthLongestPattern(t *testing.T) {
	col := &Column{Patterns: []*Pattern{
		{Name: "a", Length: 16},
		{Name: "b", Length: 64},
		{Name: "c", Length: 32},
	}}

	if got := col.LengthTicks(); got != 64 {
		t.Errorf("expected longest pattern length 64, got %d", got)
	}
}

func TestEmptyColumnFallsBackToMax(t *testing.T) {
	col := &Column{}
	if got := col.LengthTicks(); got != MaxPatternTicks {
		t.Errorf("expected empty column to span %d ticks, got %d", MaxPatternTicks, got)
	}
}

func TestBPMAtColumnOverride(t *testing.T) {
	s := &Song{
		BPM: 120,
		Columns: []*Column{
			{},
			{BPM: 90},
			{},
		},
	}

	if got := s.BPMAt(0); got != 120 {
		t.Errorf("expected song tempo 120 at column 0, got %g", got)
	}
	if got := s.BPMAt(1); got != 90 {
		t.Errorf("expected override tempo 90 at column 1, got %g", got)
	}
	if got := s.BPMAt(2); got != 120 {
		t.Errorf("expected song tempo 120 at column 2, got %g", got)
	}
	if got := s.BPMAt(99); got != 120 {
		t.Errorf("expected song tempo for out-of-range column, got %g", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.json")

	orig := Demo()
	if err := Save(path, orig); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Name != orig.Name {
		t.Errorf("expected name %q, got %q", orig.Name, loaded.Name)
	}
	if loaded.BPM != orig.BPM {
		t.Errorf("expected bpm %g, got %g", orig.BPM, loaded.BPM)
	}
	if len(loaded.Columns) != len(orig.Columns) {
		t.Fatalf("expected %d columns, got %d", len(orig.Columns), len(loaded.Columns))
	}
	if loaded.Columns[2].BPM != orig.Columns[2].BPM {
		t.Errorf("column tempo override lost in round trip")
	}
}

func TestLoadAppliesDefaultResolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.json")
	if err := Save(path, &Song{Name: "x", BPM: 100, Columns: []*Column{{}}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Resolution != DefaultResolution {
		t.Errorf("expected default resolution %d, got %d", DefaultResolution, s.Resolution)
	}
}

func TestLoadRejectsBadSongs(t *testing.T) {
	dir := t.TempDir()

	noTempo := filepath.Join(dir, "notempo.json")
	if err := Save(noTempo, &Song{Name: "x", Columns: []*Column{{}}}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := Load(noTempo); err == nil {
		t.Error("expected error for song without tempo")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := Save(empty, &Song{Name: "x", BPM: 100}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := Load(empty); err == nil {
		t.Error("expected error for song without columns")
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
