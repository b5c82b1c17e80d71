package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/TobiSchelling/PickList/internal/catalog"
	"github.com/TobiSchelling/PickList/internal/config"
	"github.com/TobiSchelling/PickList/internal/database"
	"github.com/TobiSchelling/PickList/internal/display"
	"github.com/TobiSchelling/PickList/internal/genre"
	"github.com/TobiSchelling/PickList/internal/pipeline"
	"github.com/TobiSchelling/PickList/internal/prompt"
	"github.com/TobiSchelling/PickList/internal/recommend"
	"github.com/TobiSchelling/PickList/internal/report"
	"github.com/TobiSchelling/PickList/internal/server"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "picklist",
	Short:   "Book and movie recommendations",
	Long:    "PickList ranks books and movies from CSV datasets against your preferences and keeps a history of every run.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cfg.Debug() {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(moviesCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("picklist", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/picklist/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to point at your books and movies CSV files.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show datasets and run history status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Datasets:")
		printDataset("Books", cfg.BooksPath(), func(p string) (catalog.LoadStats, error) {
			_, s, err := catalog.LoadBooksWithStats(p)
			return s, err
		})
		printDataset("Movies", cfg.MoviesPath(), func(p string) (catalog.LoadStats, error) {
			_, s, err := catalog.LoadMoviesWithStats(p)
			return s, err
		})

		fmt.Println("\nHistory:")
		fmt.Printf("  Database: %s\n", db.Path())
		fmt.Printf("  Total runs: %d\n", stats.TotalRuns)
		fmt.Printf("  Book runs: %d\n", stats.BookRuns)
		fmt.Printf("  Movie runs: %d\n", stats.MovieRuns)
		fmt.Printf("  Recommended titles: %d\n", stats.TotalItems)
		if stats.LastRunAt != nil {
			fmt.Printf("  Last run: %s\n", *stats.LastRunAt)
		}
		return nil
	},
}

func printDataset(label, path string, load func(string) (catalog.LoadStats, error)) {
	fmt.Printf("  %s: %s\n", label, path)
	stats, err := load(path)
	if err != nil {
		fmt.Printf("    Error: %v\n", err)
		return
	}
	fmt.Printf("    Loaded: %d of %d rows (%d skipped)\n", stats.Loaded, stats.Rows, stats.Skipped)
}

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the movie genres in the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := genre.Collect(cfg.MoviesPath())
		if err != nil {
			return err
		}
		display.Genres(os.Stdout, set.Sorted())
		return nil
	},
}

// --- books command ---

var (
	bookRating   float64
	bookPages    int
	bookTop      int
	bookMarkdown bool
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Recommend books closest to a target rating and length",
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefs recommend.BookPreferences
		if cmd.Flags().Changed("rating") {
			prefs.TargetRating = &bookRating
		}
		if cmd.Flags().Changed("pages") {
			prefs.TargetPages = &bookPages
		}
		if err := prefs.Validate(); err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		result := pipeline.New(cfg, db).RecommendBooks(prefs, bookTop)
		printSteps(result.Steps)
		if bookMarkdown {
			return printReport(db, result.RunID)
		}
		display.Books(os.Stdout, result.Books)
		return nil
	},
}

func init() {
	booksCmd.Flags().Float64Var(&bookRating, "rating", 0, "Target average rating (0-5)")
	booksCmd.Flags().IntVar(&bookPages, "pages", 0, "Target page count")
	booksCmd.Flags().IntVarP(&bookTop, "top", "n", 0, "Number of results (default from config)")
	booksCmd.Flags().BoolVar(&bookMarkdown, "markdown", false, "Print the stored run as markdown")
}

// --- movies command ---

var (
	movieGenres   []string
	movieRuntime  int
	movieTop      int
	movieMarkdown bool
)

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Recommend movies matching genres and a preferred runtime",
	RunE: func(cmd *cobra.Command, args []string) error {
		var genres []string
		for _, g := range movieGenres {
			genres = append(genres, prompt.SplitList(g)...)
		}
		if len(genres) == 0 {
			return fmt.Errorf("at least one --genre is required")
		}
		prefs := recommend.MoviePreferences{Genres: genres}
		if cmd.Flags().Changed("runtime") {
			prefs.PreferredRuntime = &movieRuntime
		}
		if err := prefs.Validate(); err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		result := pipeline.New(cfg, db).RecommendMovies(prefs, movieTop)
		printSteps(result.Steps)
		if movieMarkdown {
			return printReport(db, result.RunID)
		}
		display.Movies(os.Stdout, result.Movies)
		return nil
	},
}

func init() {
	moviesCmd.Flags().StringArrayVarP(&movieGenres, "genre", "g", nil, "Genre to match (repeatable)")
	moviesCmd.Flags().IntVar(&movieRuntime, "runtime", 0, "Preferred runtime in minutes")
	moviesCmd.Flags().IntVarP(&movieTop, "top", "n", 0, "Number of results (default from config)")
	moviesCmd.Flags().BoolVar(&movieMarkdown, "markdown", false, "Print the stored run as markdown")
}

// --- ask command ---

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a few questions and get movie and book recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		known, err := genre.Collect(cfg.MoviesPath())
		if err != nil {
			log.Printf("Genre index unavailable: %v", err)
		}

		answers, err := prompt.New(os.Stdin, os.Stdout).Run(known)
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		pipe := pipeline.New(cfg, db)
		movies := pipe.RecommendMovies(answers.Movies, 0)
		books := pipe.RecommendBooks(answers.Books, 0)

		fmt.Println()
		display.Movies(os.Stdout, movies.Movies)
		fmt.Println()
		display.Books(os.Stdout, books.Books)
		return nil
	},
}

// --- history command ---

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded recommendation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.GetRecentRuns(historyLimit)
		if err != nil {
			return err
		}
		display.Runs(os.Stdout, runs)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a recorded run as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID: %s", args[0])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		return printReport(db, id)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID: %s", args[0])
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := db.GetRun(id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %d not found", id)
		}
		if err := db.DeleteRun(id); err != nil {
			return err
		}
		fmt.Printf("Deleted run [%d]\n", id)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(cfg, db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func printSteps(steps []pipeline.StepResult) {
	if !verbose && !cfg.Debug() {
		return
	}
	for i, step := range steps {
		fmt.Printf("Step %d/%d: %s\n", i+1, len(steps), step.Name)
		if step.Err != nil {
			fmt.Printf("  Error: %v\n", step.Err)
		} else {
			fmt.Printf("  %s\n", step.Summary)
		}
	}
	fmt.Println()
}

func printReport(db *database.DB, runID int64) error {
	if runID == 0 {
		return fmt.Errorf("run was not recorded")
	}
	rep, err := report.NewComposer(db).Compose(runID)
	if err != nil {
		return err
	}
	if rep == nil {
		return fmt.Errorf("run %d not found", runID)
	}
	fmt.Print(rep.Markdown())
	return nil
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "picklist.db")
	return database.Open(dbPath)
}
