package recommend

import (
	"cmp"
	"slices"

	"github.com/TobiSchelling/PickList/internal/catalog"
)

// ScoredBook is a book with its distance from the targets.
type ScoredBook struct {
	Book     catalog.Book
	Distance float64
}

// ScoredMovie is a movie with its match score.
type ScoredMovie struct {
	Movie catalog.Movie
	Score int
}

// ScoreBooks ranks books by ascending distance and keeps the first topN.
// Books without an average rating are not candidates. Books with equal
// distance keep their input order.
func ScoreBooks(books []catalog.Book, p BookPreferences, topN int) []ScoredBook {
	scored := make([]ScoredBook, 0, len(books))
	for _, b := range books {
		if b.AverageRating == nil {
			continue
		}
		scored = append(scored, ScoredBook{Book: b, Distance: BookDistance(b, p)})
	}

	slices.SortStableFunc(scored, func(a, b ScoredBook) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return truncate(scored, topN)
}

// ScoreMovies ranks movies by descending match score, drops every movie
// scoring 0, and keeps the first topN of the rest. Movies with equal scores
// keep their input order.
func ScoreMovies(movies []catalog.Movie, p MoviePreferences, topN int) []ScoredMovie {
	scored := make([]ScoredMovie, 0, len(movies))
	for _, m := range movies {
		scored = append(scored, ScoredMovie{Movie: m, Score: MovieMatch(m, p)})
	}

	slices.SortStableFunc(scored, func(a, b ScoredMovie) int {
		return cmp.Compare(b.Score, a.Score)
	})

	// Sorted descending, so the positive scores form a prefix.
	cut := len(scored)
	for i, s := range scored {
		if s.Score <= 0 {
			cut = i
			break
		}
	}
	return truncate(scored[:cut], topN)
}

// RankBooks returns the topN books closest to the targets.
func RankBooks(books []catalog.Book, p BookPreferences, topN int) []catalog.Book {
	scored := ScoreBooks(books, p, topN)
	out := make([]catalog.Book, len(scored))
	for i, s := range scored {
		out[i] = s.Book
	}
	return out
}

// RankMovies returns the topN best matching movies. It never returns a movie
// that shares no genre with the preferences.
func RankMovies(movies []catalog.Movie, p MoviePreferences, topN int) []catalog.Movie {
	scored := ScoreMovies(movies, p, topN)
	out := make([]catalog.Movie, len(scored))
	for i, s := range scored {
		out[i] = s.Movie
	}
	return out
}

func truncate[T any](items []T, topN int) []T {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if len(items) > topN {
		return items[:topN]
	}
	return items
}
