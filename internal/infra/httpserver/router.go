package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	appanalysis "github.com/nutricheck/nutricheck/internal/application/analysis"
	appfollowup "github.com/nutricheck/nutricheck/internal/application/followup"
	domain "github.com/nutricheck/nutricheck/internal/domain/analysis"
	"github.com/nutricheck/nutricheck/internal/middleware"
)

// User-facing failure messages stay short and non-technical; the original
// cause is logged by the services.
const (
	msgMissingInput    = "Please provide an image or text description."
	msgAnalysisFailed  = "Failed to analyze product. Please try again."
	msgMissingQuestion = "Question is required"
)

type Router struct {
	analysisSvc *appanalysis.Service
	followupSvc *appfollowup.Service
	log         zerolog.Logger
}

func NewRouter(analysisSvc *appanalysis.Service, followupSvc *appfollowup.Service, checkers map[string]middleware.HealthChecker, log zerolog.Logger) http.Handler {
	r := &Router{analysisSvc: analysisSvc, followupSvc: followupSvc, log: log}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RequestLogger(log))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", r.handleAnalyze)
		rt.Post("/followup", r.handleFollowup)
	})

	return mux
}

// POST /api/analyze
// Multipart body: optional "image" file (<=5MB, image/*) and/or optional
// "text" field. At least one must be present.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	middleware.IncrementAnalyses()

	// Allow some slack over the file cap for the other form fields.
	req.Body = http.MaxBytesReader(w, req.Body, middleware.MaxUploadBytes+64<<10)
	if err := req.ParseMultipartForm(middleware.MaxUploadBytes); err != nil {
		middleware.IncrementAnalysesFailed()
		writeError(w, http.StatusBadRequest, "Invalid upload: image must be 5MB or smaller.")
		return
	}

	cmd := appanalysis.Command{
		Text: middleware.SanitizeString(req.FormValue("text")),
	}

	file, header, err := req.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		mediaType := header.Header.Get("Content-Type")
		if err := middleware.ValidateMediaType(mediaType); err != nil {
			middleware.IncrementAnalysesFailed()
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			middleware.IncrementAnalysesFailed()
			writeError(w, http.StatusBadRequest, "Could not read uploaded image.")
			return
		}
		cmd.Image = data
		cmd.MIMEType = mediaType
	case errors.Is(err, http.ErrMissingFile):
		// text-only request
	default:
		middleware.IncrementAnalysesFailed()
		writeError(w, http.StatusBadRequest, "Invalid image upload.")
		return
	}

	out, err := r.analysisSvc.Analyze(req.Context(), cmd)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, msgMissingInput)
			return
		}
		writeError(w, http.StatusInternalServerError, msgAnalysisFailed)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// POST /api/followup
// Body: {"history": [{"role":"user|assistant","text":"..."}], "question": "...", "sessionId": "..."}
// Always answers 200 with either a genuine or fallback answer, unless the
// question itself is missing.
func (r *Router) handleFollowup(w http.ResponseWriter, req *http.Request) {
	middleware.IncrementFollowups()

	var body struct {
		History   []chatTurn `json:"history"`
		Question  string     `json:"question"`
		SessionID string     `json:"sessionId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := middleware.ValidateHistoryLen(len(body.History)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cmd := appfollowup.Command{
		Question:  middleware.SanitizeString(body.Question),
		SessionID: body.SessionID,
	}
	for _, turn := range body.History {
		cmd.History = append(cmd.History, turn.toDomain())
	}

	answer, err := r.followupSvc.Answer(req.Context(), cmd)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgMissingQuestion)
		return
	}
	if answer == appfollowup.FallbackAnswer {
		middleware.IncrementFollowupFallbacks()
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
