package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TobiSchelling/PickList/internal/catalog"
	"github.com/TobiSchelling/PickList/internal/config"
	"github.com/TobiSchelling/PickList/internal/database"
	"github.com/TobiSchelling/PickList/internal/recommend"
)

const booksCSV = `bookID,title,authors,average_rating,num_pages,publication_date
1,Close,Ann,4.1,300,1/1/2001
2,Far,Bob,2.0,900,2/2/2002
3,Unrated,Cy,,120,3/3/2003
4,Broken
`

const moviesCSV = `Series_Title,Released_Year,Runtime,Genre,IMDB_Rating,Overview
Heat,1995,170 min,"Action, Crime",8.3,Cops and robbers.
Up,2009,96 min,"Animation, Adventure",8.2,Balloons.
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func testConfig(t *testing.T, withData bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if withData {
		writeFile(t, dir, "books.csv", booksCSV)
		writeFile(t, dir, "imdb_top_1000.csv", moviesCSV)
	}
	writeFile(t, dir, "config.yaml", "recommend:\n  top_n: 2\n")
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int           { return &n }

func TestRecommendBooksRecordsRun(t *testing.T) {
	db := openTestDB(t)
	p := New(testConfig(t, true), db)

	r := p.RecommendBooks(recommend.BookPreferences{TargetRating: floatPtr(4.0)}, 0)
	if len(r.Books) != 2 || r.Books[0].Book.Title != "Close" {
		t.Fatalf("unexpected books: %+v", r.Books)
	}
	if r.RunID == 0 {
		t.Fatal("expected run to be recorded")
	}
	if len(r.Steps) != 3 {
		t.Errorf("expected 3 steps, got %d", len(r.Steps))
	}

	run, err := db.GetRun(r.RunID)
	if err != nil || run == nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if run.Kind != database.KindBooks || run.TopN != 2 || run.ResultCount != 2 {
		t.Errorf("unexpected run: %+v", run)
	}
	if run.SourceRows != 4 || run.SkippedRows != 1 {
		t.Errorf("expected 4 rows with 1 skipped, got %d/%d", run.SourceRows, run.SkippedRows)
	}
	if run.Preferences["target_rating"] != "4" {
		t.Errorf("unexpected preferences: %v", run.Preferences)
	}

	items, err := db.GetRunItems(r.RunID)
	if err != nil {
		t.Fatalf("failed to get items: %v", err)
	}
	if len(items) != 2 || items[0].Title != "Close" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestRecommendMoviesWithoutDatabase(t *testing.T) {
	p := New(testConfig(t, true), nil)

	r := p.RecommendMovies(recommend.MoviePreferences{Genres: []string{"Crime"}, PreferredRuntime: intPtr(160)}, 5)
	if len(r.Movies) != 1 || r.Movies[0].Movie.Title != "Heat" {
		t.Fatalf("unexpected movies: %+v", r.Movies)
	}
	if r.Movies[0].Score != 105 {
		t.Errorf("expected score 105, got %d", r.Movies[0].Score)
	}
	if r.RunID != 0 {
		t.Errorf("expected no run id without database, got %d", r.RunID)
	}
	if len(r.Steps) != 2 {
		t.Errorf("expected record step to be skipped, got %d steps", len(r.Steps))
	}
}

func TestRecommendMissingDatasetYieldsEmpty(t *testing.T) {
	p := New(testConfig(t, false), nil)

	r := p.RecommendBooks(recommend.BookPreferences{}, 0)
	if len(r.Books) != 0 {
		t.Errorf("expected no books, got %d", len(r.Books))
	}
	if r.Steps[0].Err == nil {
		t.Error("expected load step error")
	}

	m := p.RecommendMovies(recommend.MoviePreferences{Genres: []string{"Drama"}}, 0)
	if len(m.Movies) != 0 || m.Steps[0].Err == nil {
		t.Errorf("expected empty movies with load error, got %+v", m)
	}
}

func TestTopN(t *testing.T) {
	p := New(testConfig(t, false), nil)
	if got := p.TopN(0); got != 2 {
		t.Errorf("expected configured top_n 2, got %d", got)
	}
	if got := p.TopN(7); got != 7 {
		t.Errorf("expected explicit 7, got %d", got)
	}
	if got := New(nil, nil).TopN(-1); got != recommend.DefaultTopN {
		t.Errorf("expected default %d, got %d", recommend.DefaultTopN, got)
	}
}

func TestDetails(t *testing.T) {
	b := catalog.Book{Title: "T", Authors: []string{"A", "B"}, AverageRating: floatPtr(4.5), PageCount: intPtr(320), PublicationDate: "1/1/2000"}
	if got := BookDetail(b); got != "by A, B, rated 4.50, 320 pages, published 1/1/2000" {
		t.Errorf("unexpected book detail %q", got)
	}
	m := catalog.Movie{Title: "M", Genres: []string{"Drama"}, RuntimeMinutes: intPtr(99), ReleasedYear: "1990", IMDBRating: floatPtr(7.8)}
	if got := MovieDetail(m); got != "1990, Drama, 99 min, IMDb 7.8" {
		t.Errorf("unexpected movie detail %q", got)
	}
}
