package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const booksCSV = `bookID,title,authors,average_rating,isbn,language_code,  num_pages,ratings_count,text_reviews_count,publication_date,publisher
1,Harry Potter and the Half-Blood Prince,"J.K. Rowling, Mary GrandPré",4.57,0439785960,eng,652,2095690,27591,9/16/2006,Scholastic Inc.
2,Bad Pages,Someone,3.9,0,eng,lots,1,1,,Nobody
3,Bad Rating,Someone Else,four,0,eng,120,1,1,1/1/2000,Nobody
x,No ID,Anon,4.0,0,eng,300,1,1,2/2/2002,Nobody
`

const moviesCSV = `Poster_Link,Series_Title,Released_Year,Certificate,Runtime,Genre,IMDB_Rating,Overview
http://a,The Dark Knight,2008,UA,152 min,"Action, Crime, Drama",9.0,Batman fights.
http://b,Odd Runtime,1999,U,2 hours,"Comedy,, ",7.1,
http://c,Bad Rating,,A,90 min,Horror,n/a,Scary.
`

func TestReadBooks(t *testing.T) {
	books, err := ReadBooks(strings.NewReader(booksCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 4 {
		t.Fatalf("expected 4 books, got %d", len(books))
	}

	hp := books[0]
	if hp.ID != 1 || hp.Title != "Harry Potter and the Half-Blood Prince" {
		t.Errorf("unexpected first book: %+v", hp)
	}
	if len(hp.Authors) != 2 || hp.Authors[1] != "Mary GrandPré" {
		t.Errorf("expected 2 trimmed authors, got %q", hp.Authors)
	}
	if hp.PageCount == nil || *hp.PageCount != 652 {
		t.Errorf("expected 652 pages, got %v", hp.PageCount)
	}
	if hp.AverageRating == nil || *hp.AverageRating != 4.57 {
		t.Errorf("expected rating 4.57, got %v", hp.AverageRating)
	}
	if hp.PublicationDate != "9/16/2006" {
		t.Errorf("expected publication date, got %q", hp.PublicationDate)
	}
}

func TestReadBooksMalformedFields(t *testing.T) {
	books, err := ReadBooks(strings.NewReader(booksCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	badPages := books[1]
	if badPages.PageCount != nil {
		t.Errorf("expected absent page count, got %d", *badPages.PageCount)
	}
	if badPages.AverageRating == nil {
		t.Error("expected rating to survive a bad page count")
	}
	if badPages.PublicationDate != UnknownDate {
		t.Errorf("expected %q, got %q", UnknownDate, badPages.PublicationDate)
	}

	if books[2].AverageRating != nil {
		t.Errorf("expected absent rating, got %v", *books[2].AverageRating)
	}
	if books[3].ID != 0 {
		t.Errorf("expected ID 0 for non-numeric bookID, got %d", books[3].ID)
	}
}

func TestReadBooksEmptyAuthors(t *testing.T) {
	data := "bookID,title,authors,average_rating,num_pages,publication_date\n7,Anonymous,,3.0,10,2001\n"
	books, err := ReadBooks(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}
	if len(books[0].Authors) != 1 || books[0].Authors[0] != "" {
		t.Errorf("expected a single empty author, got %q", books[0].Authors)
	}
}

func TestReadBooksSkipsShortRows(t *testing.T) {
	data := "bookID,title,authors,average_rating,num_pages,publication_date\n" +
		"1,Good,A,4.0,100,2001\n" +
		"2,Short\n" +
		"3,Also Good,B,3.5,200,2002\n"
	books, stats, err := ReadBooksWithStats(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[1].Title != "Also Good" {
		t.Errorf("expected sibling row to load, got %q", books[1].Title)
	}
	if stats.Rows != 3 || stats.Loaded != 2 || stats.Skipped != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestReadMoviesKeepsRowMissingUnusedColumn(t *testing.T) {
	data := "Series_Title,Genre,Runtime,Gross\n" +
		"Heat,\"Action, Crime\",170 min,\"67,436,818\"\n" +
		"Up,Animation,96 min\n"
	movies, stats, err := ReadMoviesWithStats(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d (%+v)", len(movies), stats)
	}
	if movies[1].Title != "Up" || movies[1].RuntimeMinutes == nil || *movies[1].RuntimeMinutes != 96 {
		t.Errorf("unexpected second movie: %+v", movies[1])
	}
	if stats.Rows != 2 || stats.Loaded != 2 || stats.Skipped != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestReadMoviesSkipsRowMissingUsedColumn(t *testing.T) {
	data := "Series_Title,Genre,Runtime,Gross\n" +
		"Heat,Action,170 min,1\n" +
		"Cut Off,Drama\n"
	movies, stats, err := ReadMoviesWithStats(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Heat" {
		t.Fatalf("expected only Heat, got %+v", movies)
	}
	if stats.Skipped != 1 {
		t.Errorf("expected 1 skipped row, got %+v", stats)
	}
}

func TestReadMovies(t *testing.T) {
	movies, err := ReadMovies(strings.NewReader(moviesCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(movies))
	}

	dk := movies[0]
	if dk.Title != "The Dark Knight" {
		t.Errorf("unexpected title %q", dk.Title)
	}
	if strings.Join(dk.Genres, "|") != "Action|Crime|Drama" {
		t.Errorf("unexpected genres %q", dk.Genres)
	}
	if dk.RuntimeMinutes == nil || *dk.RuntimeMinutes != 152 {
		t.Errorf("expected runtime 152, got %v", dk.RuntimeMinutes)
	}
	if dk.IMDBRating == nil || *dk.IMDBRating != 9.0 {
		t.Errorf("expected rating 9.0, got %v", dk.IMDBRating)
	}
	if dk.ReleasedYear != "2008" || dk.Overview != "Batman fights." {
		t.Errorf("unexpected year/overview: %q %q", dk.ReleasedYear, dk.Overview)
	}

	odd := movies[1]
	if odd.RuntimeMinutes != nil {
		t.Errorf("expected absent runtime, got %d", *odd.RuntimeMinutes)
	}
	if len(odd.Genres) != 1 || odd.Genres[0] != "Comedy" {
		t.Errorf("expected empty genres dropped, got %q", odd.Genres)
	}
	if odd.Overview != "" {
		t.Errorf("expected empty overview, got %q", odd.Overview)
	}

	bad := movies[2]
	if bad.IMDBRating != nil {
		t.Errorf("expected absent rating, got %v", *bad.IMDBRating)
	}
	if bad.ReleasedYear != UnknownDate {
		t.Errorf("expected %q, got %q", UnknownDate, bad.ReleasedYear)
	}
}

func TestReadEmptySource(t *testing.T) {
	books, err := ReadBooks(strings.NewReader(""))
	if err == nil {
		t.Fatal("expected error for empty source")
	}
	if books == nil || len(books) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", books)
	}
}

func TestLoadMissingFile(t *testing.T) {
	movies, err := LoadMovies(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "loading movies") {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if movies == nil || len(movies) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", movies)
	}
}

func TestLoadBooksFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte("\ufeff"+booksCSV), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	books, stats, err := LoadBooksWithStats(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Loaded != 4 || len(books) != 4 {
		t.Errorf("expected 4 books, got %d (stats %+v)", len(books), stats)
	}
	if books[0].ID != 1 {
		t.Errorf("expected BOM-prefixed bookID header to resolve, got ID %d", books[0].ID)
	}
}
