// package formatter renders movie batches as CSV, JSON, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/moviesync/internal/models"
	"github.com/desertthunder/moviesync/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat accepts the format names used on the command line, including the "md" and "text" aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, json, markdown or txt)", shared.ErrInvalidFlag, s)
	}
}

// Export renders movies in the given format.
func Export(movies models.Batch, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(movies)
	case FormatJSON:
		return ExportToJSON(movies, true)
	case FormatMarkdown:
		return ExportToMarkdown(movies, "Movies")
	case FormatText:
		return ExportToText(movies)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders movies and writes them to path.
func WriteExport(movies models.Batch, format Format, path string) error {
	data, err := Export(movies, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// ExportToCSV converts movies to CSV with columns: title, release_date
func ExportToCSV(movies models.Batch) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"title", "release_date"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range movies {
		if err := writer.Write([]string{m.Title, m.ReleaseDate}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts movies to a JSON array. A nil batch renders as [].
func ExportToJSON(movies models.Batch, pretty bool) ([]byte, error) {
	if movies == nil {
		movies = models.Batch{}
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(movies, "", "  ")
	} else {
		data, err = json.Marshal(movies)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToMarkdown renders movies as a titled Markdown document with a table.
func ExportToMarkdown(movies models.Batch, heading string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", heading)
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", len(movies))
	buf.WriteString(MarkdownTable(movies))

	return buf.Bytes(), nil
}

// ExportToText renders one "N. Title (release date)" line per movie.
func ExportToText(movies models.Batch) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Movies: %d\n\n", len(movies))
	for i, m := range movies {
		fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, m.Title, m.ReleaseDate)
	}

	return buf.Bytes(), nil
}

// MarkdownPreview renders the first limit movies as a Markdown table with a zero-based index column.
//
// An empty batch renders the header only.
func MarkdownPreview(movies models.Batch, limit int) string {
	return MarkdownTable(movies.Head(limit))
}

// MarkdownTable renders movies as a pipe table. Pipes inside cells are escaped.
func MarkdownTable(movies models.Batch) string {
	var b strings.Builder

	b.WriteString("|    | title | release_date |\n")
	b.WriteString("|---:|:------|:-------------|\n")
	for i, m := range movies {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", strconv.Itoa(i), escapeCell(m.Title), escapeCell(m.ReleaseDate))
	}

	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
