package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/TobiSchelling/PickList/internal/config"
	"github.com/TobiSchelling/PickList/internal/database"
	"github.com/TobiSchelling/PickList/internal/genre"
	"github.com/TobiSchelling/PickList/internal/pipeline"
	"github.com/TobiSchelling/PickList/internal/recommend"
	"github.com/TobiSchelling/PickList/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

const recentRunsLimit = 20

// Server is the HTTP server for running and browsing recommendations.
type Server struct {
	db       *database.DB
	pipe     *pipeline.Pipeline
	composer *report.Composer
	genres   []string
	pages    map[string]*template.Template
	mux      *http.ServeMux
}

// New creates a new Server. The genre index is read once from the movies
// dataset; if it cannot be read the movie form accepts no genres.
func New(cfg *config.Config, db *database.DB) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"slug":     genre.Slugify,
		"runTitle": report.Title,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page gets its own clone of base so its "title" and "content"
	// definitions do not collide.
	pageNames := []string{"index.html", "run.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	genres, err := genre.Collect(cfg.MoviesPath())
	if err != nil {
		log.Printf("Genre index unavailable: %v", err)
	}

	s := &Server{
		db:       db,
		pipe:     pipeline.New(cfg, db),
		composer: report.NewComposer(db),
		genres:   genres.Sorted(),
		pages:    pages,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/recommend/books", s.handleRecommendBooks)
	s.mux.HandleFunc("/recommend/movies", s.handleRecommendMovies)
	s.mux.HandleFunc("/run/", s.handleRun)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.renderIndex(w, http.StatusOK, "")
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, formErr string) {
	runs, err := s.db.GetRecentRuns(recentRunsLimit)
	if err != nil {
		log.Printf("Error loading runs: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.renderStatus(w, status, "index.html", map[string]any{
		"Runs":   runs,
		"Genres": s.genres,
		"Error":  formErr,
	})
}

func (s *Server) handleRecommendBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	var prefs recommend.BookPreferences
	var err error
	if prefs.TargetRating, err = optionalFloat(r.FormValue("rating")); err != nil {
		s.renderIndex(w, http.StatusBadRequest, "Target rating must be a number.")
		return
	}
	if prefs.TargetPages, err = optionalInt(r.FormValue("pages")); err != nil {
		s.renderIndex(w, http.StatusBadRequest, "Target pages must be a whole number.")
		return
	}
	topN, err := optionalInt(r.FormValue("top"))
	if err != nil {
		s.renderIndex(w, http.StatusBadRequest, "Number of results must be a whole number.")
		return
	}
	if err := prefs.Validate(); err != nil {
		s.renderIndex(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.pipe.RecommendBooks(prefs, deref(topN))
	s.redirectToRun(w, r, result.RunID)
}

func (s *Server) handleRecommendMovies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderIndex(w, http.StatusBadRequest, "Invalid form.")
		return
	}

	var prefs recommend.MoviePreferences
	for _, g := range r.Form["genre"] {
		if g = strings.TrimSpace(g); g != "" {
			prefs.Genres = append(prefs.Genres, g)
		}
	}
	if len(prefs.Genres) == 0 {
		s.renderIndex(w, http.StatusBadRequest, "Pick at least one genre.")
		return
	}
	var err error
	if prefs.PreferredRuntime, err = optionalInt(r.FormValue("runtime")); err != nil {
		s.renderIndex(w, http.StatusBadRequest, "Runtime must be a whole number of minutes.")
		return
	}
	topN, err := optionalInt(r.FormValue("top"))
	if err != nil {
		s.renderIndex(w, http.StatusBadRequest, "Number of results must be a whole number.")
		return
	}
	if err := prefs.Validate(); err != nil {
		s.renderIndex(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.pipe.RecommendMovies(prefs, deref(topN))
	s.redirectToRun(w, r, result.RunID)
}

func (s *Server) redirectToRun(w http.ResponseWriter, r *http.Request, runID int64) {
	if runID == 0 {
		http.Error(w, "Could not record run", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/run/%d", runID), http.StatusFound)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/run/"), 10, 64)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	rep, err := s.composer.Compose(id)
	if err != nil {
		log.Printf("Error composing run %d: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if rep == nil {
		http.NotFound(w, r)
		return
	}

	s.render(w, "run.html", map[string]any{
		"Report": rep,
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	s.renderStatus(w, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// optionalInt parses a form value; blank means absent.
func optionalInt(v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalFloat(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

// Serve starts the HTTP server on the given port.
func Serve(cfg *config.Config, db *database.DB, port int) error {
	srv, err := New(cfg, db)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
