// Package genre builds the set of distinct movie genres offered to users.
package genre

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/TobiSchelling/PickList/internal/catalog"
)

// Set is a set of genre labels.
type Set map[string]struct{}

// Collect reads the movies CSV at path and returns every distinct genre.
// On failure the returned set is empty.
func Collect(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("collecting genres from %s: %w", path, err)
	}
	defer f.Close()

	set, err := CollectFrom(f)
	if err != nil {
		return Set{}, fmt.Errorf("collecting genres from %s: %w", path, err)
	}
	return set, nil
}

// CollectFrom reads a movies CSV in a single pass. It applies the same row
// rules as catalog.ReadMovies, so every genre it returns belongs to a movie
// that loads.
func CollectFrom(r io.Reader) (Set, error) {
	movies, err := catalog.ReadMovies(r)
	if err != nil {
		return Set{}, err
	}
	return FromMovies(movies), nil
}

// FromMovies builds the set from already loaded movies.
func FromMovies(movies []catalog.Movie) Set {
	set := Set{}
	for _, m := range movies {
		for _, g := range m.Genres {
			if g != "" {
				set[g] = struct{}{}
			}
		}
	}
	return set
}

// Contains reports whether name is a known genre. The comparison is exact.
func (s Set) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the genres in alphabetical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Unknown returns the names that are not in the set, in input order.
func (s Set) Unknown(names []string) []string {
	var missing []string
	for _, n := range names {
		if !s.Contains(n) {
			missing = append(missing, n)
		}
	}
	return missing
}
