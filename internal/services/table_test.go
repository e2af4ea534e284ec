package services

import (
	"strings"
	"testing"

	tu "github.com/desertthunder/moviesync/internal/testing"
)

func TestParseTables(t *testing.T) {
	t.Run("finds every table", func(t *testing.T) {
		tables, err := ParseTables(strings.NewReader(tu.MoviesPage))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if len(tables) != 2 {
			t.Fatalf("expected 2 tables, got %d", len(tables))
		}
		if len(tables[0].HeaderRows) != 0 {
			t.Errorf("infobox rows mix th and td and should not be headers, got %d header rows", len(tables[0].HeaderRows))
		}

		films := tables[1]
		if len(films.HeaderRows) != 1 {
			t.Fatalf("expected 1 header row, got %d", len(films.HeaderRows))
		}
		if got := strings.Join(films.Columns(), "|"); got != "No.|English title|Japanese release date|Director" {
			t.Errorf("unexpected columns %s", got)
		}
		if len(films.Rows) != 4 {
			t.Errorf("expected 4 body rows, got %d", len(films.Rows))
		}
	})

	t.Run("rowspan fills following rows", func(t *testing.T) {
		tables, err := ParseTables(strings.NewReader(tu.MoviesPage))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		second := tables[1].Rows[1]
		if len(second) != 4 {
			t.Fatalf("expected 4 cells, got %d", len(second))
		}
		if second[3].Text != "Kunihiko Yuyama" {
			t.Errorf("expected spanned director, got %q", second[3].Text)
		}
	})

	t.Run("colspan and rowspan in the middle of a row", func(t *testing.T) {
		page := `<table>
			<tr><th>A</th><th>B</th><th>C</th></tr>
			<tr><td colspan="2">wide</td><td rowspan="2">tall</td></tr>
			<tr><td>x</td><td>y</td></tr>
		</table>`

		tables, err := ParseTables(strings.NewReader(page))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		rows := tables[0].Rows
		if got := cellTexts(rows[0]); got != "wide|wide|tall" {
			t.Errorf("unexpected first row %s", got)
		}
		if got := cellTexts(rows[1]); got != "x|y|tall" {
			t.Errorf("unexpected second row %s", got)
		}
	})

	t.Run("span into the middle column", func(t *testing.T) {
		page := `<table>
			<tr><th>A</th><th>B</th><th>C</th></tr>
			<tr><td>1</td><td rowspan="2">shared</td><td>3</td></tr>
			<tr><td>4</td><td>6</td></tr>
		</table>`

		tables, err := ParseTables(strings.NewReader(page))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if got := cellTexts(tables[0].Rows[1]); got != "4|shared|6" {
			t.Errorf("unexpected row %s", got)
		}
	})

	t.Run("thead defines headers", func(t *testing.T) {
		page := `<table>
			<thead><tr><th>English title</th><td>Japanese release date</td></tr></thead>
			<tbody><tr><th>Only headers</th><th>in body</th></tr></tbody>
		</table>`

		tables, err := ParseTables(strings.NewReader(page))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if len(tables[0].HeaderRows) != 1 || len(tables[0].Rows) != 1 {
			t.Fatalf("expected 1 header row and 1 body row, got %d/%d", len(tables[0].HeaderRows), len(tables[0].Rows))
		}
		if tables[0].ColumnIndex("Japanese release date") != 1 {
			t.Error("thead cells should be headers even when written as td")
		}
	})

	t.Run("bad span attributes", func(t *testing.T) {
		page := `<table><tr><th>A</th></tr><tr><td colspan="x" rowspan="-4">v</td></tr></table>`

		tables, err := ParseTables(strings.NewReader(page))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if got := cellTexts(tables[0].Rows[0]); got != "v" {
			t.Errorf("unexpected row %s", got)
		}
	})

	t.Run("no tables", func(t *testing.T) {
		tables, err := ParseTables(strings.NewReader("<html><body><p>nothing</p></body></html>"))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if len(tables) != 0 {
			t.Errorf("expected no tables, got %d", len(tables))
		}
	})
}

func TestColumnIndex(t *testing.T) {
	table := Table{HeaderRows: [][]Cell{
		{{Text: "Title", Header: true}, {Text: "Release", Header: true}, {Text: "Release", Header: true}},
		{{Text: "Title", Header: true}, {Text: "Japan", Header: true}, {Text: "English title", Header: true}},
	}}

	tc := []struct {
		name string
		col  string
		want int
	}{
		{name: "first row", col: "Title", want: 0},
		{name: "second row", col: "English title", want: 2},
		{name: "whitespace collapsed", col: "  English   title ", want: 2},
		{name: "case sensitive", col: "english title", want: -1},
		{name: "no substring match", col: "English", want: -1},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.ColumnIndex(tt.col); got != tt.want {
				t.Errorf("ColumnIndex(%q) = %d, want %d", tt.col, got, tt.want)
			}
		})
	}
}

func TestExtractMovies(t *testing.T) {
	t.Run("MoviesPage", func(t *testing.T) {
		tables, err := ParseTables(strings.NewReader(tu.MoviesPage))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		batch, ok := ExtractMovies(tables, DefaultTitleColumn, DefaultDateColumn)
		if !ok {
			t.Fatal("expected the films table to match")
		}

		want := []struct{ title, date string }{
			{"Pokémon: The First Movie", "July 18, 1998"},
			{"Pokémon: The Movie 2000", "July 17, 1999"},
			{"Pokémon 4Ever", "July 7, 2001"},
		}
		if len(batch) != len(want) {
			t.Fatalf("expected %d movies, got %d: %v", len(want), len(batch), batch)
		}
		for i, w := range want {
			if batch[i].Title != w.title || batch[i].ReleaseDate != w.date {
				t.Errorf("movie %d = %q/%q, want %q/%q", i, batch[i].Title, batch[i].ReleaseDate, w.title, w.date)
			}
		}

		for _, m := range batch {
			if m.Title == "" || m.ReleaseDate == "" {
				t.Errorf("movie with empty field: %+v", m)
			}
		}
	})

	t.Run("NoMoviesPage", func(t *testing.T) {
		tables, err := ParseTables(strings.NewReader(tu.NoMoviesPage))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		if batch, ok := ExtractMovies(tables, DefaultTitleColumn, DefaultDateColumn); ok {
			t.Errorf("expected no match, got %v", batch)
		}
	})

	t.Run("first matching table wins", func(t *testing.T) {
		page := `
			<table><tr><th>English title</th><th>Japanese release date</th></tr><tr><td>First</td><td>1</td></tr></table>
			<table><tr><th>English title</th><th>Japanese release date</th></tr><tr><td>Second</td><td>2</td></tr></table>`

		tables, _ := ParseTables(strings.NewReader(page))
		batch, ok := ExtractMovies(tables, DefaultTitleColumn, DefaultDateColumn)
		if !ok || len(batch) != 1 || batch[0].Title != "First" {
			t.Errorf("expected the first table, got %v", batch)
		}
	})

	t.Run("matching table without rows", func(t *testing.T) {
		page := `<table><tr><th>English title</th><th>Japanese release date</th></tr></table>`

		tables, _ := ParseTables(strings.NewReader(page))
		batch, ok := ExtractMovies(tables, DefaultTitleColumn, DefaultDateColumn)
		if !ok {
			t.Fatal("expected table to match")
		}
		if batch == nil || len(batch) != 0 {
			t.Errorf("expected empty batch, got %#v", batch)
		}
	})

	t.Run("short rows are dropped", func(t *testing.T) {
		page := `<table>
			<tr><th>English title</th><th>Notes</th><th>Japanese release date</th></tr>
			<tr><td>Complete</td><td></td><td>2001</td></tr>
			<tr><td>Short</td></tr>
		</table>`

		tables, _ := ParseTables(strings.NewReader(page))
		batch, _ := ExtractMovies(tables, DefaultTitleColumn, DefaultDateColumn)
		if len(batch) != 1 || batch[0].Title != "Complete" {
			t.Errorf("expected only the complete row, got %v", batch)
		}
	})
}

func cellTexts(cells []Cell) string {
	texts := make([]string, len(cells))
	for i, c := range cells {
		texts[i] = c.Text
	}
	return strings.Join(texts, "|")
}
