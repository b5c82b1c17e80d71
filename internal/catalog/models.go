package catalog

// UnknownDate is stored when a book or movie row has no date.
const UnknownDate = "Unknown"

// Book is one row of the books dataset.
type Book struct {
	ID              int
	Title           string
	Authors         []string
	PageCount       *int
	AverageRating   *float64
	PublicationDate string
}

// Movie is one row of the movies dataset.
type Movie struct {
	Title          string
	Genres         []string
	RuntimeMinutes *int
	Overview       string
	ReleasedYear   string
	IMDBRating     *float64
}

// LoadStats counts what happened to the rows of one source.
type LoadStats struct {
	Rows    int
	Loaded  int
	Skipped int
}
