package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// TestDecodeSessionsSingleObject verifies a file holding one session object.
func TestDecodeSessionsSingleObject(t *testing.T) {
	data := []byte(`{
		"id": "585bda5c-5a64-4d5a-a432-6bca6c7bcdbe",
		"name": "Push Day",
		"started_at": "2026-03-10T18:00:00Z",
		"completed_at": "2026-03-10T19:00:00Z",
		"total_duration_seconds": 3600,
		"exercises": [
			{
				"name": "Bench Press",
				"muscle_groups": ["chest"],
				"sets": [{"is_completed": true, "actual_reps": 10, "actual_weight_kg": 60}]
			}
		]
	}`)

	sessions, err := DecodeSessions(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.Name != "Push Day" {
		t.Errorf("Name = %q, want Push Day", s.Name)
	}
	if len(s.Exercises) != 1 || len(s.Exercises[0].Sets) != 1 {
		t.Fatalf("unexpected exercise shape: %+v", s.Exercises)
	}
	if got := s.Exercises[0].Sets[0].WeightKg(); got != 60 {
		t.Errorf("set weight = %v, want 60", got)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("decoded session failed validation: %v", err)
	}
}

// TestDecodeSessionsArray verifies a file holding an array, with leading
// whitespace before the bracket.
func TestDecodeSessionsArray(t *testing.T) {
	data := []byte(`
	[
		{"id": "585bda5c-5a64-4d5a-a432-6bca6c7bcdbe", "name": "A", "started_at": "2026-03-10T18:00:00Z"},
		{"id": "fb20eeb3-b2f8-414f-822e-f3080e24f164", "name": "B", "started_at": "2026-03-11T18:00:00Z"}
	]`)

	sessions, err := DecodeSessions(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if sessions[1].Name != "B" {
		t.Errorf("second session Name = %q, want B", sessions[1].Name)
	}
}

// TestDecodeSessionsMalformed verifies malformed JSON surfaces an error.
func TestDecodeSessionsMalformed(t *testing.T) {
	if _, err := DecodeSessions([]byte(`{"id": `)); err == nil {
		t.Error("expected error for truncated JSON")
	}
	if _, err := DecodeSessions([]byte(`[{"id"}]`)); err == nil {
		t.Error("expected error for malformed array")
	}
}

// TestDecodeSessionsEmpty verifies an empty file decodes to nothing.
func TestDecodeSessionsEmpty(t *testing.T) {
	sessions, err := DecodeSessions([]byte("  \n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions from empty file, want 0", len(sessions))
	}
}

// TestImportDryRun runs the full directory pipeline in dry-run mode: valid,
// invalid, and malformed files are all handled and counted.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	valid := []byte(`{
		"id": "585bda5c-5a64-4d5a-a432-6bca6c7bcdbe",
		"name": "Push Day",
		"started_at": "2026-03-10T18:00:00Z",
		"completed_at": "2026-03-10T19:00:00Z",
		"total_duration_seconds": 3600,
		"exercises": [
			{
				"name": "Bench Press",
				"muscle_groups": ["chest"],
				"sets": [{"is_completed": true, "actual_reps": 10, "actual_weight_kg": 60}]
			}
		]
	}`)
	invalid := []byte(`{"name": "no id or start time"}`)
	malformed := []byte(`{"id": `)

	for name, data := range map[string][]byte{
		"valid.json":     valid,
		"invalid.json":   invalid,
		"malformed.json": malformed,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	imp := New(nil, nil, log, true)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", stats.FilesProcessed)
	}
	if stats.FilesErrored != 1 {
		t.Errorf("FilesErrored = %d, want 1", stats.FilesErrored)
	}
	if stats.SessionsInserted != 1 {
		t.Errorf("SessionsInserted = %d, want 1", stats.SessionsInserted)
	}
	if stats.SessionsInvalid != 1 {
		t.Errorf("SessionsInvalid = %d, want 1", stats.SessionsInvalid)
	}
}

// TestStateDB verifies the size+hash dedupe round trip.
func TestStateDB(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	done, err := state.IsImported("a.json", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("unseen file reported imported")
	}

	if err := state.MarkImported("a.json", 100, "abc"); err != nil {
		t.Fatal(err)
	}

	done, err = state.IsImported("a.json", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("marked file reported not imported")
	}

	// A changed file must be re-read.
	done, err = state.IsImported("a.json", 100, "different-hash")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("file with changed hash reported imported")
	}
}

// TestHashFile verifies hashing is stable and content-sensitive.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	h1, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("hash not stable: %q vs %q", h1, h2)
	}

	if err := os.WriteFile(path, []byte("{ }"), 0o600); err != nil {
		t.Fatal(err)
	}
	h3, err := HashFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if h3 == h1 {
		t.Error("hash unchanged after content change")
	}
}
