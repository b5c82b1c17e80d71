package database

// Run kinds.
const (
	KindBooks  = "books"
	KindMovies = "movies"
)

// Run is one stored recommendation request.
type Run struct {
	ID          int64
	Kind        string
	Preferences map[string]string
	TopN        int
	ResultCount int
	SourceRows  int
	SkippedRows int
	CreatedAt   *string
}

// RunItem is one ranked result of a run. Position starts at 1.
type RunItem struct {
	RunID    int64
	Position int
	Title    string
	Detail   string
	Score    float64
}

// NewRun carries everything needed to record a run.
type NewRun struct {
	Kind        string
	Preferences map[string]string
	TopN        int
	SourceRows  int
	SkippedRows int
	Items       []RunItem
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalRuns  int
	BookRuns   int
	MovieRuns  int
	TotalItems int
	LastRunAt  *string
}
