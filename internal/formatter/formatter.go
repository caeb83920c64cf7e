// package formatter renders harvested tune datasets and alias decisions to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tunesx/internal/aliases"
	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/shared"
)

// Format names an export format accepted by the export command.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat maps a user supplied format name to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, markdown or txt)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".csv"
	}
}

// ExportToCSV converts records to CSV with columns: ID, Name, Type, Key, Tunebooks, Aliases, ABC
//
// Aliases are joined with "; " in a single column.
func ExportToCSV(records []models.TuneRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Type", "Key", "Tunebooks", "Aliases", "ABC"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, tune := range records {
		record := []string{
			strconv.Itoa(tune.ID),
			tune.Name,
			tune.Type,
			tune.Key,
			strconv.Itoa(tune.Tunebooks),
			strings.Join(tune.Aliases, "; "),
			tune.ABC,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts records to a Markdown tune list with ABC blocks
func ExportToMarkdown(records []models.TuneRecord, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Popular Tunes"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tunes**: %d\n\n", len(records)))

	for i, tune := range records {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, tune.Name))
		buf.WriteString(fmt.Sprintf("- **Type**: %s\n", valueOr(tune.Type, "unknown")))
		buf.WriteString(fmt.Sprintf("- **Key**: %s\n", valueOr(tune.Key, "unknown")))
		buf.WriteString(fmt.Sprintf("- **Tunebooks**: %d\n", tune.Tunebooks))
		if len(tune.Aliases) > 0 {
			buf.WriteString(fmt.Sprintf("- **Also known as**: %s\n", strings.Join(tune.Aliases, ", ")))
		}
		buf.WriteString("\n")

		if tune.ABC != "" {
			buf.WriteString("```abc\n")
			buf.WriteString(strings.TrimRight(tune.ABC, "\n"))
			buf.WriteString("\n```\n\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts records to a numbered plain text list
func ExportToText(records []models.TuneRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Tunes: %d\n\n", len(records)))

	for i, tune := range records {
		buf.WriteString(fmt.Sprintf("%d. %s (%s, %s)\n", i+1, tune.Name, valueOr(tune.Type, "?"), valueOr(tune.Key, "?")))
		if len(tune.Aliases) > 0 {
			buf.WriteString(fmt.Sprintf("   aka %s\n", strings.Join(tune.Aliases, ", ")))
		}
	}

	return buf.Bytes(), nil
}

// Export renders records in the given format.
func Export(records []models.TuneRecord, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(records)
	case FormatMarkdown:
		return ExportToMarkdown(records, "")
	case FormatText:
		return ExportToText(records)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders records and writes them to path.
//
// Defaults to tunes{ext} next to the dataset when path is empty.
func WriteExport(records []models.TuneRecord, format Format, path, dataset string) (string, error) {
	if path == "" {
		path = filepath.Join(filepath.Dir(dataset), "tunes"+format.Extension())
	}

	data, err := Export(records, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// FormatDecisions renders the alias filter trace for one tune name.
func FormatDecisions(name string, decisions []aliases.Decision) string {
	var sb strings.Builder

	kept := 0
	for _, d := range decisions {
		if d.Kept {
			kept++
		}
	}

	sb.WriteString(fmt.Sprintf("%s: kept %d of %d aliases\n", name, kept, len(decisions)))
	for _, d := range decisions {
		switch d.Reason {
		case aliases.Kept:
			sb.WriteString(fmt.Sprintf("  + %q\n", d.Alias))
		case aliases.SimilarToName:
			sb.WriteString(fmt.Sprintf("  - %q similar to name %q%s\n", d.Alias, d.Against, ratioNote(d.Ratio)))
		case aliases.SimilarToAlias:
			sb.WriteString(fmt.Sprintf("  - %q similar to alias %q%s\n", d.Alias, d.Against, ratioNote(d.Ratio)))
		}
	}
	return sb.String()
}

func ratioNote(r float64) string {
	if r <= 0 {
		return ""
	}
	return fmt.Sprintf(" (ratio %.3f)", r)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
