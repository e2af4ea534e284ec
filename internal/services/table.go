package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"

	"github.com/desertthunder/moviesync/internal/models"
)

// Upper bound on colspan/rowspan; browsers clamp the same way.
const maxSpan = 1000

// Cell is one position of an expanded table grid. Missing cells pad short rows.
type Cell struct {
	Text    string
	Header  bool
	Missing bool
}

// Table is an HTML table expanded into a rectangular-ish grid: every rowspan/colspan
// is copied into the positions it covers.
type Table struct {
	HeaderRows [][]Cell
	Rows       [][]Cell
}

// ColumnIndex returns the first column whose header cells include name (whitespace-collapsed exact match), or -1.
func (t Table) ColumnIndex(name string) int {
	name = cleanText(name)
	width := 0
	for _, row := range t.HeaderRows {
		width = max(width, len(row))
	}

	for col := 0; col < width; col++ {
		for _, row := range t.HeaderRows {
			if col < len(row) && !row[col].Missing && row[col].Text == name {
				return col
			}
		}
	}
	return -1
}

// Columns returns the distinct header names of the table, for diagnostics.
func (t Table) Columns() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, row := range t.HeaderRows {
		for _, c := range row {
			if c.Missing || c.Text == "" {
				continue
			}
			if _, ok := seen[c.Text]; ok {
				continue
			}
			seen[c.Text] = struct{}{}
			names = append(names, c.Text)
		}
	}
	return names
}

// ParseTables parses an HTML document and returns every table in document order.
//
// Header rows are the rows of <thead>; when a table has no <thead>, the leading rows made only of <th> cells.
// Citation markers (sup.reference) and elements hidden with display:none are dropped from cell text.
func ParseTables(r io.Reader) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("sup.reference, style, script").Remove()
	doc.Find(`[style*="display:none"], [style*="display: none"]`).Remove()
	doc.Find("br").ReplaceWithHtml(" ")

	var tables []Table
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		tables = append(tables, expandTable(s))
	})
	return tables, nil
}

type pendingSpan struct {
	remaining int
	cell      Cell
}

type rawRow struct {
	cells  []Cell
	inHead bool
}

func expandTable(table *goquery.Selection) Table {
	var rows []rawRow

	// Only direct rows: nested tables are expanded separately.
	table.ChildrenFiltered("thead, tbody, tfoot").Each(func(_ int, section *goquery.Selection) {
		inHead := goquery.NodeName(section) == "thead"
		var spans []pendingSpan

		section.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
			rows = append(rows, rawRow{cells: expandRow(tr, &spans), inHead: inHead})
		})
	})

	var t Table
	hasHead := false
	for _, r := range rows {
		if r.inHead {
			hasHead = true
			break
		}
	}

	body := 0
	if hasHead {
		for _, r := range rows {
			if r.inHead {
				t.HeaderRows = append(t.HeaderRows, r.cells)
			} else {
				t.Rows = append(t.Rows, r.cells)
			}
		}
		return t
	}

	for body < len(rows) && allHeaders(rows[body].cells) {
		t.HeaderRows = append(t.HeaderRows, rows[body].cells)
		body++
	}
	for _, r := range rows[body:] {
		t.Rows = append(t.Rows, r.cells)
	}
	return t
}

func expandRow(tr *goquery.Selection, spans *[]pendingSpan) []Cell {
	var out []Cell
	col := 0

	takePending := func() {
		for col < len(*spans) && (*spans)[col].remaining > 0 {
			out = append(out, (*spans)[col].cell)
			(*spans)[col].remaining--
			col++
		}
	}

	tr.ChildrenFiltered("td, th").Each(func(_ int, td *goquery.Selection) {
		takePending()

		c := Cell{
			Text:   cleanText(td.Text()),
			Header: td.Nodes[0].DataAtom == atom.Th,
		}
		colspan := spanAttr(td, "colspan")
		rowspan := spanAttr(td, "rowspan")

		for i := 0; i < colspan; i++ {
			out = append(out, c)
			if rowspan > 1 {
				for len(*spans) <= col {
					*spans = append(*spans, pendingSpan{})
				}
				(*spans)[col] = pendingSpan{remaining: rowspan - 1, cell: c}
			}
			col++
		}
	})

	// Spans reaching past the row's last explicit cell.
	for ; col < len(*spans); col++ {
		if (*spans)[col].remaining > 0 {
			out = append(out, (*spans)[col].cell)
			(*spans)[col].remaining--
			continue
		}
		out = append(out, Cell{Missing: true})
	}

	for len(out) > 0 && out[len(out)-1].Missing {
		out = out[:len(out)-1]
	}
	return out
}

func spanAttr(s *goquery.Selection, name string) int {
	v, ok := s.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxSpan)
}

func allHeaders(cells []Cell) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if !c.Missing && !c.Header {
			return false
		}
	}
	return true
}

// cleanText collapses all whitespace runs (including non-breaking spaces) to single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractMovies selects the first table whose headers include both titleColumn and dateColumn and
// returns its two columns as movies, in row order. Rows where either cell is missing or empty are dropped.
//
// ok is false when no table has both headers.
func ExtractMovies(tables []Table, titleColumn, dateColumn string) (batch models.Batch, ok bool) {
	for _, t := range tables {
		titleIdx, dateIdx := t.ColumnIndex(titleColumn), t.ColumnIndex(dateColumn)
		if titleIdx < 0 || dateIdx < 0 {
			continue
		}

		batch = models.Batch{}
		for _, row := range t.Rows {
			if titleIdx >= len(row) || dateIdx >= len(row) {
				continue
			}
			title, date := row[titleIdx], row[dateIdx]
			if title.Missing || date.Missing || title.Text == "" || date.Text == "" {
				continue
			}
			batch = append(batch, models.Movie{Title: title.Text, ReleaseDate: date.Text})
		}
		return batch, true
	}
	return nil, false
}
