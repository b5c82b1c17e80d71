package pipeline

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/TobiSchelling/PickList/internal/catalog"
	"github.com/TobiSchelling/PickList/internal/config"
	"github.com/TobiSchelling/PickList/internal/database"
	"github.com/TobiSchelling/PickList/internal/recommend"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// BookResult holds the results of a book recommendation run.
type BookResult struct {
	RunID int64
	Books []recommend.ScoredBook
	Steps []StepResult
}

// MovieResult holds the results of a movie recommendation run.
type MovieResult struct {
	RunID  int64
	Movies []recommend.ScoredMovie
	Steps  []StepResult
}

// Pipeline runs the load -> rank -> record steps of a recommendation.
// A nil database skips the record step.
type Pipeline struct {
	cfg *config.Config
	db  *database.DB
}

// New creates a new pipeline.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	return &Pipeline{cfg: cfg, db: db}
}

// TopN returns topN, or the configured default when topN is not positive.
func (p *Pipeline) TopN(topN int) int {
	if topN > 0 {
		return topN
	}
	if p.cfg != nil && p.cfg.Recommend.TopN > 0 {
		return p.cfg.Recommend.TopN
	}
	return recommend.DefaultTopN
}

// RecommendBooks loads the books dataset and ranks it against prefs.
// A dataset that cannot be read yields an empty recommendation, not an error.
func (p *Pipeline) RecommendBooks(prefs recommend.BookPreferences, topN int) *BookResult {
	topN = p.TopN(topN)
	r := &BookResult{}

	log.Println("Step 1/3: Loading books...")
	path := p.cfg.BooksPath()
	books, stats, err := catalog.LoadBooksWithStats(path)
	if err != nil {
		log.Printf("Error loading books: %v", err)
		r.Steps = append(r.Steps, StepResult{Name: "Load", Err: err})
	} else {
		r.Steps = append(r.Steps, StepResult{Name: "Load", Summary: loadSummary(stats, "books", path)})
	}

	log.Println("Step 2/3: Ranking books...")
	r.Books = recommend.ScoreBooks(books, prefs, topN)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Rank",
		Summary: fmt.Sprintf("Selected %d of %d books (top %d)", len(r.Books), len(books), topN),
	})

	items := make([]database.RunItem, len(r.Books))
	for i, s := range r.Books {
		items[i] = database.RunItem{Title: s.Book.Title, Detail: BookDetail(s.Book), Score: s.Distance}
	}
	r.RunID, r.Steps = p.record(r.Steps, database.NewRun{
		Kind:        database.KindBooks,
		Preferences: BookPreferenceMap(prefs),
		TopN:        topN,
		SourceRows:  stats.Rows,
		SkippedRows: stats.Skipped,
		Items:       items,
	})
	return r
}

// RecommendMovies loads the movies dataset and ranks it against prefs.
func (p *Pipeline) RecommendMovies(prefs recommend.MoviePreferences, topN int) *MovieResult {
	topN = p.TopN(topN)
	r := &MovieResult{}

	log.Println("Step 1/3: Loading movies...")
	path := p.cfg.MoviesPath()
	movies, stats, err := catalog.LoadMoviesWithStats(path)
	if err != nil {
		log.Printf("Error loading movies: %v", err)
		r.Steps = append(r.Steps, StepResult{Name: "Load", Err: err})
	} else {
		r.Steps = append(r.Steps, StepResult{Name: "Load", Summary: loadSummary(stats, "movies", path)})
	}

	log.Println("Step 2/3: Ranking movies...")
	r.Movies = recommend.ScoreMovies(movies, prefs, topN)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Rank",
		Summary: fmt.Sprintf("Selected %d of %d movies (top %d)", len(r.Movies), len(movies), topN),
	})

	items := make([]database.RunItem, len(r.Movies))
	for i, s := range r.Movies {
		items[i] = database.RunItem{Title: s.Movie.Title, Detail: MovieDetail(s.Movie), Score: float64(s.Score)}
	}
	r.RunID, r.Steps = p.record(r.Steps, database.NewRun{
		Kind:        database.KindMovies,
		Preferences: MoviePreferenceMap(prefs),
		TopN:        topN,
		SourceRows:  stats.Rows,
		SkippedRows: stats.Skipped,
		Items:       items,
	})
	return r
}

func (p *Pipeline) record(steps []StepResult, run database.NewRun) (int64, []StepResult) {
	if p.db == nil {
		return 0, steps
	}
	log.Println("Step 3/3: Recording run...")
	id, err := p.db.InsertRun(run)
	if err != nil {
		log.Printf("Error recording run: %v", err)
		return 0, append(steps, StepResult{Name: "Record", Err: err})
	}
	return id, append(steps, StepResult{Name: "Record", Summary: fmt.Sprintf("Saved as run %d", id)})
}

func loadSummary(stats catalog.LoadStats, kind, path string) string {
	s := fmt.Sprintf("Loaded %d %s from %s", stats.Loaded, kind, path)
	if stats.Skipped > 0 {
		s += fmt.Sprintf(" (%d malformed rows skipped)", stats.Skipped)
	}
	return s
}

// BookDetail is the one-line description stored next to a book title.
func BookDetail(b catalog.Book) string {
	parts := []string{"by " + strings.Join(b.Authors, ", ")}
	if b.AverageRating != nil {
		parts = append(parts, fmt.Sprintf("rated %.2f", *b.AverageRating))
	}
	if b.PageCount != nil {
		parts = append(parts, fmt.Sprintf("%d pages", *b.PageCount))
	}
	parts = append(parts, "published "+b.PublicationDate)
	return strings.Join(parts, ", ")
}

// MovieDetail is the one-line description stored next to a movie title.
func MovieDetail(m catalog.Movie) string {
	parts := []string{m.ReleasedYear, strings.Join(m.Genres, ", ")}
	if m.RuntimeMinutes != nil {
		parts = append(parts, fmt.Sprintf("%d min", *m.RuntimeMinutes))
	}
	if m.IMDBRating != nil {
		parts = append(parts, fmt.Sprintf("IMDb %.1f", *m.IMDBRating))
	}
	return strings.Join(parts, ", ")
}

// BookPreferenceMap flattens book preferences for storage and display.
func BookPreferenceMap(p recommend.BookPreferences) map[string]string {
	m := map[string]string{}
	if p.TargetRating != nil {
		m["target_rating"] = strconv.FormatFloat(*p.TargetRating, 'f', -1, 64)
	}
	if p.TargetPages != nil {
		m["target_pages"] = strconv.Itoa(*p.TargetPages)
	}
	return m
}

// MoviePreferenceMap flattens movie preferences for storage and display.
func MoviePreferenceMap(p recommend.MoviePreferences) map[string]string {
	m := map[string]string{"genres": strings.Join(p.Genres, ", ")}
	if p.PreferredRuntime != nil {
		m["runtime"] = strconv.Itoa(*p.PreferredRuntime)
	}
	return m
}
