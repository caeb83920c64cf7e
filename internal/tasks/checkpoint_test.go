package tasks

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/shared"
	tu "github.com/desertthunder/tunesx/internal/testing"
)

func TestJSONCheckpointer_Save(t *testing.T) {
	t.Run("creates missing directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a", "b", "tunes.json")
		cp := NewJSONCheckpointer(path)

		if err := cp.Save([]models.TuneRecord{{ID: 1, Name: "Cooley's", Aliases: []string{}}}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		tu.AssertFileExists(t, path)
		if cp.Path() != path {
			t.Errorf("Path() = %q, want %q", cp.Path(), path)
		}
	})

	t.Run("nil collection writes empty array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tunes.json")
		if err := NewJSONCheckpointer(path).Save(nil); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if got := tu.MustReadFile(t, path); got != "[]" {
			t.Errorf("file = %q, want []", got)
		}
	})

	t.Run("overwrites previous checkpoint", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tunes.json")
		cp := NewJSONCheckpointer(path)

		first := []models.TuneRecord{{ID: 1, Name: "One"}, {ID: 2, Name: "Two"}}
		if err := cp.Save(first); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := cp.Save(first[:1]); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if got := len(tu.MustReadRecords(t, path)); got != 1 {
			t.Errorf("file has %d records, want 1", got)
		}

		entries, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the output file, found %d entries", len(entries))
		}
	})

	t.Run("non-ascii names and missing type are written literally", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tunes.json")
		record := models.TuneRecord{ID: 7, Name: "Port na bPúcaí", Aliases: []string{"Ríl Mhór"}}
		if err := NewJSONCheckpointer(path).Save([]models.TuneRecord{record}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got := tu.MustReadFile(t, path)
		for _, want := range []string{`"name": "Port na bPúcaí"`, `"Ríl Mhór"`, `"type": ""`} {
			if !strings.Contains(got, want) {
				t.Errorf("file missing %s:\n%s", want, got)
			}
		}
		if strings.Contains(got, `\u`) {
			t.Errorf("expected raw UTF-8 without \\u escapes:\n%s", got)
		}
	})

	t.Run("unwritable location", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}

		err := NewJSONCheckpointer(filepath.Join(blocker, "tunes.json")).Save(nil)
		if !errors.Is(err, shared.ErrCheckpoint) {
			t.Errorf("Save() error = %v, want ErrCheckpoint", err)
		}
	})
}

func TestLoadRecords(t *testing.T) {
	dir := t.TempDir()

	t.Run("null aliases become empty", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		data := `[{"id": 7, "name": "Banish Misfortune", "type": "jig", "abc": "", "key": "Dmixolydian", "tunebooks": 3, "aliases": null}]`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		records, err := LoadRecords(path)
		if err != nil {
			t.Fatalf("LoadRecords() error = %v", err)
		}
		if len(records) != 1 || records[0].Key != "Dmixolydian" || records[0].Aliases == nil {
			t.Errorf("LoadRecords() = %+v", records)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadRecords(path); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("LoadRecords() error = %v, want ErrDecode", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadRecords(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("LoadRecords() error = %v, want not exist", err)
		}
	})
}
