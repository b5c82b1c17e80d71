// Package recommend scores books and movies against user preferences and
// ranks them.
package recommend

import (
	"fmt"
	"math"

	"github.com/TobiSchelling/PickList/internal/catalog"
)

const (
	// DefaultTopN is the number of recommendations returned when none is requested.
	DefaultTopN = 5

	// MaxRating is the upper bound of a target book rating.
	MaxRating = 5.0

	genreWeight     = 100
	maxRuntimeBonus = 15
	pagesPerPoint   = 1000.0
)

// BookPreferences are the targets a book is measured against.
type BookPreferences struct {
	TargetRating *float64
	TargetPages  *int
}

// Validate checks the preference ranges.
func (p BookPreferences) Validate() error {
	if p.TargetRating != nil {
		r := *p.TargetRating
		if math.IsNaN(r) || r < 0 || r > MaxRating {
			return fmt.Errorf("target rating must be between 0.0 and %.1f, got %v", MaxRating, r)
		}
	}
	if p.TargetPages != nil && *p.TargetPages < 0 {
		return fmt.Errorf("target pages must not be negative, got %d", *p.TargetPages)
	}
	return nil
}

// MoviePreferences are the genres and runtime a movie is matched against.
type MoviePreferences struct {
	Genres           []string
	PreferredRuntime *int
}

// Validate checks the preference ranges.
func (p MoviePreferences) Validate() error {
	if p.PreferredRuntime != nil && *p.PreferredRuntime < 0 {
		return fmt.Errorf("preferred runtime must not be negative, got %d", *p.PreferredRuntime)
	}
	return nil
}

// BookDistance measures how far a book is from the targets. Lower is better.
// A term only contributes when both the book value and the target are known.
func BookDistance(b catalog.Book, p BookPreferences) float64 {
	var d float64
	if b.AverageRating != nil && p.TargetRating != nil {
		d += math.Abs(*b.AverageRating - *p.TargetRating)
	}
	if b.PageCount != nil && p.TargetPages != nil {
		d += math.Abs(float64(*b.PageCount-*p.TargetPages)) / pagesPerPoint
	}
	return d
}

// MovieMatch scores how well a movie fits the preferences. Higher is better.
// A movie sharing no genre with the preferences scores 0 regardless of runtime.
func MovieMatch(m catalog.Movie, p MoviePreferences) int {
	overlap := genreOverlap(m.Genres, p.Genres)
	if overlap == 0 {
		return 0
	}
	return overlap*genreWeight + runtimeBonus(m.RuntimeMinutes, p.PreferredRuntime)
}

// genreOverlap counts the distinct labels present in both lists.
func genreOverlap(movieGenres, wanted []string) int {
	if len(movieGenres) == 0 || len(wanted) == 0 {
		return 0
	}
	want := make(map[string]struct{}, len(wanted))
	for _, g := range wanted {
		want[g] = struct{}{}
	}
	seen := make(map[string]struct{}, len(movieGenres))
	n := 0
	for _, g := range movieGenres {
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		if _, ok := want[g]; ok {
			n++
		}
	}
	return n
}

func runtimeBonus(runtime, preferred *int) int {
	if runtime == nil || preferred == nil {
		return 0
	}
	diff := *runtime - *preferred
	if diff < 0 {
		diff = -diff
	}
	return max(0, maxRuntimeBonus-diff)
}
