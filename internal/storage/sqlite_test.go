package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := store.CreateRun("demo", "name: demo", 0.1)
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	run, err := store.ResolveRun(id)
	if err != nil {
		t.Fatalf("ResolveRun() failed: %v", err)
	}
	if run.Name != "demo" || run.Scenario != "name: demo" || run.DT != 0.1 {
		t.Errorf("ResolveRun() = %+v", run)
	}
}

func TestStoreFrames(t *testing.T) {
	store := openTestStore(t)

	id, err := store.CreateRun("demo", "", 0.5)
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	for step := 0; step < 4; step++ {
		if err := store.SaveFrame(id, step, 0.5*float64(step), "state"+string(rune('0'+step))); err != nil {
			t.Fatalf("SaveFrame(%d) failed: %v", step, err)
		}
	}

	// Duplicate step is rejected
	if err := store.SaveFrame(id, 2, 1, "again"); err == nil {
		t.Error("SaveFrame() with a duplicate step should fail")
	}

	f, err := store.Frame(id, 2)
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if f == nil || f.Time != 1.0 || f.State != "state2" {
		t.Errorf("Frame(2) = %+v, expected time 1.0 and state2", f)
	}

	missing, err := store.Frame(id, 99)
	if err != nil {
		t.Fatalf("Frame(99) failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Frame(99) = %+v, expected nil", missing)
	}

	frames, err := store.Frames(id, 1)
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("Expected 3 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Step != i+1 {
			t.Errorf("frames[%d].Step = %d, expected %d", i, f.Step, i+1)
		}
	}

	last, err := store.LastFrame(id)
	if err != nil {
		t.Fatalf("LastFrame() failed: %v", err)
	}
	if last == nil || last.Step != 3 {
		t.Errorf("LastFrame() = %+v, expected step 3", last)
	}

	if err := store.DeleteFramesAfter(id, 1); err != nil {
		t.Fatalf("DeleteFramesAfter() failed: %v", err)
	}
	last, _ = store.LastFrame(id)
	if last == nil || last.Step != 1 {
		t.Errorf("LastFrame() after truncate = %+v, expected step 1", last)
	}
}

func TestStoreRuns(t *testing.T) {
	store := openTestStore(t)

	first, _ := store.CreateRun("first", "", 0.1)
	second, _ := store.CreateRun("second", "", 0.2)
	if err := store.SaveFrame(second, 0, 0, "s"); err != nil {
		t.Fatalf("SaveFrame() failed: %v", err)
	}

	runs, err := store.Runs(10)
	if err != nil {
		t.Fatalf("Runs() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}

	// Newest first
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("Runs() order = %s, %s", runs[0].Name, runs[1].Name)
	}
	if runs[0].Frames != 1 || runs[0].LastStep != 0 {
		t.Errorf("second run frames = %d last = %d, expected 1 and 0", runs[0].Frames, runs[0].LastStep)
	}
	if runs[1].Frames != 0 || runs[1].LastStep != -1 {
		t.Errorf("first run frames = %d last = %d, expected 0 and -1", runs[1].Frames, runs[1].LastStep)
	}
	if runs[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	limited, _ := store.Runs(1)
	if len(limited) != 1 {
		t.Errorf("Runs(1) returned %d runs", len(limited))
	}
}

func TestStoreResolveRun(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.CreateRun("demo", "", 0.1)

	run, err := store.ResolveRun(id[:8])
	if err != nil {
		t.Fatalf("ResolveRun(prefix) failed: %v", err)
	}
	if run.ID != id {
		t.Errorf("ResolveRun(prefix) = %s, expected %s", run.ID, id)
	}

	if _, err := store.ResolveRun("zzzz"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ResolveRun(zzzz) error = %v, expected ErrRunNotFound", err)
	}
	if _, err := store.ResolveRun(""); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ResolveRun(\"\") error = %v, expected ErrRunNotFound", err)
	}
}

func TestStoreResolveRunAmbiguous(t *testing.T) {
	store := openTestStore(t)

	// Insert two runs sharing a prefix directly
	for _, id := range []string{"abc-1", "abc-2"} {
		if _, err := store.db.Exec("INSERT INTO runs (id, name, scenario, dt) VALUES (?, 'x', '', 0.1)", id); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	_, err := store.ResolveRun("abc")
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("ResolveRun(abc) error = %v, expected ambiguous", err)
	}

	run, err := store.ResolveRun("abc-2")
	if err != nil || run.ID != "abc-2" {
		t.Errorf("ResolveRun(abc-2) = %v, %v", run, err)
	}
}

func TestStoreDeleteRun(t *testing.T) {
	store := openTestStore(t)

	id, _ := store.CreateRun("demo", "", 0.1)
	if err := store.SaveFrame(id, 0, 0, "s"); err != nil {
		t.Fatalf("SaveFrame() failed: %v", err)
	}

	if err := store.DeleteRun(id); err != nil {
		t.Fatalf("DeleteRun() failed: %v", err)
	}

	frames, err := store.Frames(id, 0)
	if err != nil {
		t.Fatalf("Frames() failed: %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("Expected no frames after delete, got %d", len(frames))
	}

	if err := store.DeleteRun(id); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("second DeleteRun() error = %v, expected ErrRunNotFound", err)
	}
}

func TestStoreResolveRunWildcardsAreLiteral(t *testing.T) {
	store := openTestStore(t)

	for _, id := range []string{"abc-1", "a_c%2"} {
		if _, err := store.db.Exec("INSERT INTO runs (id, name, scenario, dt) VALUES (?, 'x', '', 0.1)", id); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	for _, prefix := range []string{"%", "_", "a_c-"} {
		if _, err := store.ResolveRun(prefix); !errors.Is(err, ErrRunNotFound) {
			t.Errorf("ResolveRun(%q) error = %v, expected ErrRunNotFound", prefix, err)
		}
	}

	run, err := store.ResolveRun("a_c%")
	if err != nil || run.ID != "a_c%2" {
		t.Errorf("ResolveRun(a_c%%) = %v, %v, expected a_c%%2", run, err)
	}
}
