package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tunesx/internal/aliases"
	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/shared"
	th "github.com/desertthunder/tunesx/internal/testing"
)

func sampleRecords() []models.TuneRecord {
	return []models.TuneRecord{
		{
			ID:        1,
			Name:      "The Kesh",
			Type:      "jig",
			ABC:       "|:G3 GAB|A3 ABd|\n",
			Key:       "Gmajor",
			Tunebooks: 4200,
			Aliases:   []string{"Kesh Jig", "Castle Kelly"},
		},
		{
			ID:        2,
			Name:      "Untitled",
			Tunebooks: 3,
			Aliases:   []string{},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleRecords())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")

		if lines[0] != "ID,Name,Type,Key,Tunebooks,Aliases,ABC" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if !strings.HasPrefix(lines[1], "1,The Kesh,jig,Gmajor,4200,Kesh Jig; Castle Kelly,") {
			t.Errorf("unexpected first row: %s", lines[1])
		}
		if !strings.Contains(output, "\"|:G3 GAB|A3 ABd|\n\"") {
			t.Errorf("ABC with newline should be quoted, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleRecords(), "Top Jigs")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Top Jigs",
			"**Tunes**: 2",
			"## 1. The Kesh",
			"- **Also known as**: Kesh Jig, Castle Kelly",
			"```abc\n|:G3 GAB|A3 ABd|\n```",
			"## 2. Untitled",
			"- **Type**: unknown",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Count(output, "```abc") != 1 {
			t.Error("tunes without ABC should not get a code block")
		}
	})

	t.Run("ExportToMarkdown default title", func(t *testing.T) {
		data, _ := ExportToMarkdown(nil, "")
		if !strings.HasPrefix(string(data), "# Popular Tunes\n") {
			t.Errorf("unexpected title: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleRecords())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Tunes: 2") {
			t.Error("text missing count")
		}
		if !strings.Contains(output, "1. The Kesh (jig, Gmajor)\n   aka Kesh Jig, Castle Kelly\n") {
			t.Errorf("text missing first tune, got:\n%s", output)
		}
		if !strings.Contains(output, "2. Untitled (?, ?)\n") {
			t.Errorf("text missing placeholder fields, got:\n%s", output)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: "Markdown", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: "text", want: FormatText},
		{in: " txt ", want: FormatText},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		got, err := WriteExport(sampleRecords(), FormatCSV, path, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("defaults next to dataset", func(t *testing.T) {
		dir := t.TempDir()

		got, err := WriteExport(sampleRecords(), FormatMarkdown, "", filepath.Join(dir, "tunes.json"))
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if want := filepath.Join(dir, "tunes.md"); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
		if !strings.Contains(th.MustReadFile(t, got), "## 1. The Kesh") {
			t.Error("markdown export has unexpected content")
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.txt")
		if _, err := WriteExport(sampleRecords(), FormatText, path, ""); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := Export(sampleRecords(), Format("yaml")); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestFormatDecisions(t *testing.T) {
	decisions := aliases.Explain("The Kesh", []string{"Kesh Jig", "The Kesh Jig", "Kesh", "Castle Kelly"})
	output := FormatDecisions("The Kesh", decisions)

	for _, want := range []string{
		"The Kesh: kept 2 of 4 aliases",
		"  + \"Kesh Jig\"",
		"  - \"The Kesh Jig\" similar to alias \"Kesh Jig\" (ratio 1.000)",
		"  - \"Kesh\" similar to name \"The Kesh\" (ratio 1.000)",
		"  + \"Castle Kelly\"",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("decision output missing %q, got:\n%s", want, output)
		}
	}
}
