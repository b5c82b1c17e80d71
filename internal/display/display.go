// Package display prints recommendations to the terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TobiSchelling/PickList/internal/catalog"
	"github.com/TobiSchelling/PickList/internal/database"
	"github.com/TobiSchelling/PickList/internal/recommend"
)

const (
	NoMovies = "Sorry, we couldn't find any matching movies :("
	NoBooks  = "Sorry, we couldn't find any matching books :("
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))
)

// Movies prints the recommended movies as " - Title (Genre, Genre), 142 min".
func Movies(w io.Writer, movies []recommend.ScoredMovie) {
	fmt.Fprintln(w, headingStyle.Render("Recommended Movies:"))
	if len(movies) == 0 {
		fmt.Fprintln(w, warningStyle.Render(NoMovies))
		return
	}
	for _, s := range movies {
		fmt.Fprintf(w, " - %s (%s)%s %s\n",
			titleStyle.Render(s.Movie.Title),
			strings.Join(s.Movie.Genres, ", "),
			movieExtra(s.Movie),
			dimStyle.Render(fmt.Sprintf("[score %d]", s.Score)),
		)
	}
}

// Books prints the recommended books as " - Title by Author (4.57, 652 pages)".
func Books(w io.Writer, books []recommend.ScoredBook) {
	fmt.Fprintln(w, headingStyle.Render("Recommended Books:"))
	if len(books) == 0 {
		fmt.Fprintln(w, warningStyle.Render(NoBooks))
		return
	}
	for _, s := range books {
		fmt.Fprintf(w, " - %s by %s (%s) %s\n",
			titleStyle.Render(s.Book.Title),
			strings.Join(s.Book.Authors, ", "),
			bookExtra(s.Book),
			dimStyle.Render(fmt.Sprintf("[distance %.2f]", s.Distance)),
		)
	}
}

// Genres prints the genre index, one per line.
func Genres(w io.Writer, genres []string) {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%d genres:", len(genres))))
	for _, g := range genres {
		fmt.Fprintf(w, "  %s\n", g)
	}
}

// Runs prints a table of stored runs.
func Runs(w io.Writer, runs []database.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No runs recorded yet."))
		return
	}
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("%-6s %-7s %-8s %s", "ID", "KIND", "RESULTS", "CREATED")))
	for _, r := range runs {
		created := ""
		if r.CreatedAt != nil {
			created = *r.CreatedAt
		}
		fmt.Fprintf(w, "%-6d %-7s %-8d %s\n", r.ID, r.Kind, r.ResultCount, dimStyle.Render(created))
	}
}

func movieExtra(m catalog.Movie) string {
	var parts []string
	if m.RuntimeMinutes != nil {
		parts = append(parts, fmt.Sprintf("%d min", *m.RuntimeMinutes))
	}
	if m.ReleasedYear != catalog.UnknownDate {
		parts = append(parts, m.ReleasedYear)
	}
	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, ", ")
}

func bookExtra(b catalog.Book) string {
	var parts []string
	if b.AverageRating != nil {
		parts = append(parts, fmt.Sprintf("%.2f", *b.AverageRating))
	}
	if b.PageCount != nil {
		parts = append(parts, fmt.Sprintf("%d pages", *b.PageCount))
	}
	return strings.Join(parts, ", ")
}
