package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalyses "github.com/resumelens/resumelens/internal/application/analyses"
	domain "github.com/resumelens/resumelens/internal/domain/analyses"
	"github.com/resumelens/resumelens/internal/domain/sessions"
	"github.com/resumelens/resumelens/internal/middleware"
)

type Router struct {
	svc      *appanalyses.Service
	sessions sessions.Provider
}

// NewRouter mounts the API. checkers may be nil; health then reports only
// the service itself.
func NewRouter(svc *appanalyses.Service, provider sessions.Provider, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc, sessions: provider}
	mux := chi.NewRouter()

	// The dashboard runs in a browser on another origin.
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.SessionAuth(provider))
		rt.Use(middleware.RateLimitMiddleware(30, 1))
		rt.Post("/analyses", r.wrap(r.handleSubmit))
		rt.Get("/analyses", r.wrap(r.handleHistory))
		rt.Get("/analyses/{id}", r.wrap(r.handleGet))
		rt.Get("/progress", r.wrap(r.handleProgress))
		rt.Get("/me", r.wrap(r.handleMe))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := http.StatusInternalServerError
			var ae *domain.AnalysisError
			switch {
			case errors.Is(err, domain.ErrFileTooLarge):
				status = http.StatusRequestEntityTooLarge
			case errors.Is(err, domain.ErrNotFound):
				status = http.StatusNotFound
			case errors.Is(err, sessions.ErrInvalidToken):
				status = http.StatusUnauthorized
			case errors.As(err, &ae):
				// Client-side analysis failures (bad file, nothing to
				// extract) keep their 4xx status; everything else is the
				// engine's fault.
				if ae.Status >= 400 && ae.Status < 500 {
					status = ae.Status
				} else {
					status = http.StatusBadGateway
				}
			}
			writeError(w, status, err.Error())
		}
	}
}

// error bodies follow the analyzer's {"detail": "..."} convention
func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

func sessionFrom(req *http.Request) (sessions.Session, error) {
	sess, ok := middleware.GetSession(req.Context())
	if !ok {
		return sessions.Session{}, sessions.ErrInvalidToken
	}
	return sess, nil
}

// POST /v1/analyses
// multipart form: file, optional job_title, optional industry
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	sess, err := sessionFrom(req)
	if err != nil {
		return err
	}

	if err := req.ParseMultipartForm(domain.MaxFileSize + 1); err != nil {
		return fmt.Errorf("reading multipart form: %w", err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("form field 'file' is required: %w", err)
	}
	defer file.Close()

	// Read at most one byte past the limit; the service rejects the rest.
	data, err := io.ReadAll(io.LimitReader(file, domain.MaxFileSize+1))
	if err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	result, err := r.svc.Submit(req.Context(), appanalyses.SubmitCommand{
		UserID:   sess.UID,
		FileName: header.Filename,
		Data:     data,
		JobTitle: req.FormValue("job_title"),
		Industry: req.FormValue("industry"),
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	if result.StorageError {
		middleware.IncrementStorageErrors()
	}

	return writeJSON(w, result)
}

// GET /v1/analyses
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	sess, err := sessionFrom(req)
	if err != nil {
		return err
	}

	list, err := r.svc.History(req.Context(), sess.UID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Record{}
	}
	return writeJSON(w, list)
}

// GET /v1/analyses/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	rec, err := r.svc.Get(req.Context(), domain.RecordID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// GET /v1/progress
func (r *Router) handleProgress(w http.ResponseWriter, req *http.Request) error {
	sess, err := sessionFrom(req)
	if err != nil {
		return err
	}

	progress, err := r.svc.Progress(req.Context(), sess.UID)
	if err != nil {
		return err
	}
	return writeJSON(w, progress)
}

// GET /v1/me
func (r *Router) handleMe(w http.ResponseWriter, req *http.Request) error {
	sess, err := sessionFrom(req)
	if err != nil {
		return err
	}

	profile, err := r.sessions.Profile(req.Context(), sess.UID)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{
		"session": sess,
		"profile": profile,
	})
}
