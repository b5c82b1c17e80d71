package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TobiSchelling/PickList/internal/database"
)

const emptyBody = "No matching titles for these preferences."

// Report is a stored run rendered as markdown.
type Report struct {
	Run     *database.Run
	Items   []database.RunItem
	Summary string
	Body    string
}

// Markdown returns the full report document.
func (r *Report) Markdown() string {
	return fmt.Sprintf("# %s\n\n%s\n\n---\n\n%s\n", Title(r.Run), r.Summary, r.Body)
}

// Composer builds reports from the run history.
type Composer struct {
	db *database.DB
}

// NewComposer creates a new report composer.
func NewComposer(db *database.DB) *Composer {
	return &Composer{db: db}
}

// Compose loads a run and its items. It returns nil, nil when the run does
// not exist.
func (c *Composer) Compose(runID int64) (*Report, error) {
	run, err := c.db.GetRun(runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, nil
	}
	items, err := c.db.GetRunItems(runID)
	if err != nil {
		return nil, err
	}
	return Build(run, items), nil
}

// Build assembles a report for an already loaded run.
func Build(run *database.Run, items []database.RunItem) *Report {
	return &Report{
		Run:     run,
		Items:   items,
		Summary: summary(run),
		Body:    assembleBody(run.Kind, items),
	}
}

// Title is the heading used for a run.
func Title(run *database.Run) string {
	kind := "Book"
	if run.Kind == database.KindMovies {
		kind = "Movie"
	}
	return fmt.Sprintf("%s recommendations #%d", kind, run.ID)
}

func summary(run *database.Run) string {
	var bullets []string
	if len(run.Preferences) == 0 {
		bullets = append(bullets, "- No preferences given")
	}
	keys := make([]string, 0, len(run.Preferences))
	for k := range run.Preferences {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		bullets = append(bullets, fmt.Sprintf("- **%s:** %s", preferenceLabel(k), run.Preferences[k]))
	}

	bullets = append(bullets, fmt.Sprintf("- **Results:** %d of top %d", run.ResultCount, run.TopN))
	if run.SourceRows > 0 {
		line := fmt.Sprintf("- **Dataset rows:** %d", run.SourceRows)
		if run.SkippedRows > 0 {
			line += fmt.Sprintf(" (%d skipped as malformed)", run.SkippedRows)
		}
		bullets = append(bullets, line)
	}
	if run.CreatedAt != nil {
		bullets = append(bullets, "- **Created:** "+*run.CreatedAt)
	}
	return strings.Join(bullets, "\n")
}

func preferenceLabel(key string) string {
	switch key {
	case "target_rating":
		return "Target rating"
	case "target_pages":
		return "Target pages"
	case "genres":
		return "Genres"
	case "runtime":
		return "Runtime"
	}
	return key
}

func assembleBody(kind string, items []database.RunItem) string {
	if len(items) == 0 {
		return emptyBody
	}

	var lines []string
	for _, it := range items {
		line := fmt.Sprintf("%d. **%s**", it.Position, it.Title)
		if it.Detail != "" {
			line += " " + it.Detail
		}
		lines = append(lines, line+" "+scoreLabel(kind, it.Score))
	}
	return strings.Join(lines, "\n")
}

func scoreLabel(kind string, score float64) string {
	if kind == database.KindMovies {
		return fmt.Sprintf("_(match %d)_", int(score))
	}
	return fmt.Sprintf("_(distance %.2f)_", score)
}
