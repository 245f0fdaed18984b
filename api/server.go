// Package api exposes the dice, their probabilities and the fairness proof
// ledger over HTTP. Nothing here plays a game.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"nontransitive/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const (
	defaultProofLimit = 20
	maxProofLimit     = 100
)

// Server handles HTTP requests
type Server struct {
	game      service.GameService
	fairness  service.FairnessService
	startTime time.Time
}

// NewServer creates a new API server
func NewServer(game service.GameService, fairnessService service.FairnessService) *Server {
	return &Server{
		game:      game,
		fairness:  fairnessService,
		startTime: time.Now(),
	}
}

// Routes sets up the HTTP routes with middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dice", s.handleDice)
		r.Get("/probabilities", s.handleProbabilities)
		r.Get("/proofs", s.handleListProofs)
		r.Get("/proofs/{roundID}", s.handleGetProof)
		r.Post("/verify", s.handleVerify)
	})

	return r
}

// requestLogger logs one line per request through logrus
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.WithFields(log.Fields{
			"requestID": middleware.GetReqID(r.Context()),
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"bytes":     ww.BytesWritten(),
			"duration":  time.Since(start),
		}).Info("Handled request")
	})
}

// writeJSON writes a JSON response with proper headers
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// writeError writes a structured error response
func writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{
		Type:      errType,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}
