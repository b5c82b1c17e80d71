package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// record gives access to a CSV row by header name.
type record struct {
	header map[string]int
	row    []string
}

// get returns the named field, or "" when the column does not exist.
func (r record) get(name string) string {
	i, ok := r.header[name]
	if !ok || i >= len(r.row) {
		return ""
	}
	return r.row[i]
}

var (
	bookColumns  = []string{"bookID", "title", "authors", "num_pages", "average_rating", "publication_date"}
	movieColumns = []string{"Series_Title", "Genre", "Runtime", "Overview", "Released_Year", "IMDB_Rating"}
)

// has reports whether the row reaches every listed column the header defines.
// Columns missing from the header read as "" and do not disqualify the row.
func (r record) has(names []string) bool {
	for _, name := range names {
		if i, ok := r.header[name]; ok && i >= len(r.row) {
			return false
		}
	}
	return true
}

func bookFromRecord(r record) (Book, bool) {
	if !r.has(bookColumns) {
		return Book{}, false
	}
	b := Book{
		Title:           r.get("title"),
		Authors:         splitList(r.get("authors"), false),
		PublicationDate: orDefault(r.get("publication_date"), UnknownDate),
	}
	if id, ok := parseDigits(r.get("bookID")); ok {
		b.ID = id
	}
	if pages, ok := parseDigits(r.get("num_pages")); ok {
		b.PageCount = &pages
	}
	if rating, ok := parseRating(r.get("average_rating")); ok {
		b.AverageRating = &rating
	}
	return b, true
}

func movieFromRecord(r record) (Movie, bool) {
	if !r.has(movieColumns) {
		return Movie{}, false
	}
	m := Movie{
		Title:        r.get("Series_Title"),
		Genres:       splitList(r.get("Genre"), true),
		Overview:     r.get("Overview"),
		ReleasedYear: orDefault(r.get("Released_Year"), UnknownDate),
	}
	if runtime, ok := parseRuntime(r.get("Runtime")); ok {
		m.RuntimeMinutes = &runtime
	}
	if rating, ok := parseRating(r.get("IMDB_Rating")); ok {
		m.IMDBRating = &rating
	}
	return m, true
}

// ReadBooks parses a books CSV. Malformed rows are skipped. On a source-level
// failure the returned slice is empty.
func ReadBooks(r io.Reader) ([]Book, error) {
	books, _, err := ReadBooksWithStats(r)
	return books, err
}

// ReadBooksWithStats is ReadBooks plus row counters.
func ReadBooksWithStats(r io.Reader) ([]Book, LoadStats, error) {
	return readRows(r, bookFromRecord)
}

// ReadMovies parses a movies CSV with the same tolerance rules as ReadBooks.
func ReadMovies(r io.Reader) ([]Movie, error) {
	movies, _, err := ReadMoviesWithStats(r)
	return movies, err
}

// ReadMoviesWithStats is ReadMovies plus row counters.
func ReadMoviesWithStats(r io.Reader) ([]Movie, LoadStats, error) {
	return readRows(r, movieFromRecord)
}

// LoadBooks reads the books dataset at path.
func LoadBooks(path string) ([]Book, error) {
	books, _, err := LoadBooksWithStats(path)
	return books, err
}

// LoadBooksWithStats is LoadBooks plus row counters.
func LoadBooksWithStats(path string) ([]Book, LoadStats, error) {
	return loadFile(path, "books", ReadBooksWithStats)
}

// LoadMovies reads the movies dataset at path.
func LoadMovies(path string) ([]Movie, error) {
	movies, _, err := LoadMoviesWithStats(path)
	return movies, err
}

// LoadMoviesWithStats is LoadMovies plus row counters.
func LoadMoviesWithStats(path string) ([]Movie, LoadStats, error) {
	return loadFile(path, "movies", ReadMoviesWithStats)
}

func loadFile[T any](path, kind string, read func(io.Reader) ([]T, LoadStats, error)) ([]T, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return []T{}, LoadStats{}, fmt.Errorf("loading %s from %s: %w", kind, path, err)
	}
	defer f.Close()

	items, stats, err := read(f)
	if err != nil {
		return items, stats, fmt.Errorf("loading %s from %s: %w", kind, path, err)
	}
	return items, stats, nil
}

// NewReader returns a csv.Reader configured for the datasets: variable field
// counts and lenient quoting.
func NewReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ReadHeader reads the header row and maps trimmed column names to indexes.
func ReadHeader(cr *csv.Reader) (map[string]int, error) {
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		idx[strings.TrimSpace(name)] = i
	}
	return idx, nil
}

func readRows[T any](r io.Reader, build func(record) (T, bool)) ([]T, LoadStats, error) {
	cr := NewReader(r)
	header, err := ReadHeader(cr)
	if err != nil {
		return []T{}, LoadStats{}, err
	}

	var stats LoadStats
	items := []T{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Rows++
				stats.Skipped++
				continue
			}
			return []T{}, LoadStats{}, fmt.Errorf("reading rows: %w", err)
		}

		stats.Rows++
		item, ok := build(record{header: header, row: row})
		if !ok {
			stats.Skipped++
			continue
		}
		items = append(items, item)
		stats.Loaded++
	}
	return items, stats, nil
}
