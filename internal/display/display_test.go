package display

import (
	"strings"
	"testing"

	"github.com/TobiSchelling/PickList/internal/catalog"
	"github.com/TobiSchelling/PickList/internal/database"
	"github.com/TobiSchelling/PickList/internal/recommend"
)

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestMoviesEmpty(t *testing.T) {
	var b strings.Builder
	Movies(&b, nil)
	if !strings.Contains(b.String(), NoMovies) {
		t.Errorf("expected apology, got %q", b.String())
	}
}

func TestBooksEmpty(t *testing.T) {
	var b strings.Builder
	Books(&b, []recommend.ScoredBook{})
	if !strings.Contains(b.String(), NoBooks) {
		t.Errorf("expected apology, got %q", b.String())
	}
}

func TestMovies(t *testing.T) {
	var b strings.Builder
	Movies(&b, []recommend.ScoredMovie{{
		Movie: catalog.Movie{Title: "Heat", Genres: []string{"Action", "Crime"}, RuntimeMinutes: intPtr(170), ReleasedYear: "1995"},
		Score: 105,
	}})
	out := b.String()
	for _, want := range []string{"Recommended Movies:", "Heat", "(Action, Crime), 170 min, 1995", "[score 105]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestBooks(t *testing.T) {
	var b strings.Builder
	Books(&b, []recommend.ScoredBook{{
		Book:     catalog.Book{Title: "Dune", Authors: []string{"Frank Herbert"}, AverageRating: floatPtr(4.25), PageCount: intPtr(604)},
		Distance: 0.5,
	}})
	out := b.String()
	for _, want := range []string{"Recommended Books:", "Dune", "by Frank Herbert (4.25, 604 pages)", "[distance 0.50]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestRuns(t *testing.T) {
	var b strings.Builder
	Runs(&b, nil)
	if !strings.Contains(b.String(), "No runs recorded yet.") {
		t.Errorf("unexpected output %q", b.String())
	}

	b.Reset()
	created := "2026-01-02 03:04:05"
	Runs(&b, []database.Run{{ID: 7, Kind: database.KindMovies, ResultCount: 3, CreatedAt: &created}})
	if !strings.Contains(b.String(), "movies") || !strings.Contains(b.String(), created) {
		t.Errorf("unexpected output %q", b.String())
	}
}

func TestGenres(t *testing.T) {
	var b strings.Builder
	Genres(&b, []string{"Action", "Drama"})
	if !strings.Contains(b.String(), "2 genres:") || !strings.Contains(b.String(), "  Drama\n") {
		t.Errorf("unexpected output %q", b.String())
	}
}
