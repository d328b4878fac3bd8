// Package api implements the tally REST API: the score calculator, score
// history, grade books and rental desks.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tallybook/tally/internal/history"
	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/scoring"
)

// Namespace is the store namespace that API sessions are saved under.
const Namespace = "api"

// HistoryStore records and reads computed scores.
type HistoryStore interface {
	Record(ctx context.Context, result *scoring.ScoreResult, label string) (*history.Record, error)
	Get(ctx context.Context, id string) (*history.Record, error)
	List(ctx context.Context, limit int) ([]history.Record, error)
}

// Handler is the top-level API handler for tallyd.
type Handler struct {
	engine   *scoring.Engine
	weights  scoring.DefaultWeights
	docs     store.StorageClient
	history  HistoryStore
	sessions *SessionCache
}

// NewHandler creates a new API handler. hist may be nil, which disables
// the history endpoints.
func NewHandler(engine *scoring.Engine, weights scoring.DefaultWeights, docs store.StorageClient, hist HistoryStore, sessions *SessionCache) *Handler {
	if sessions == nil {
		sessions = NewSessionCacheFromEnv()
	}
	return &Handler{
		engine:   engine,
		weights:  weights,
		docs:     docs,
		history:  hist,
		sessions: sessions,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.handleHealth)

	// Calculator
	mux.HandleFunc("POST /api/v1/score", h.handleScore)
	mux.HandleFunc("POST /api/v1/score/batch", h.handleScoreBatch)
	mux.HandleFunc("GET /api/v1/score/template.xlsx", h.handleBatchTemplate)
	mux.HandleFunc("GET /api/v1/tiers", h.handleTiers)
	mux.HandleFunc("GET /api/v1/explain", h.handleExplain)
	mux.HandleFunc("GET /api/v1/history", h.handleListHistory)
	mux.HandleFunc("GET /api/v1/history/{id}", h.handleGetHistory)

	// Grade books
	mux.HandleFunc("GET /api/v1/classes", h.handleClasses)
	mux.HandleFunc("GET /api/v1/gradebooks/{book}/students", h.handleListStudents)
	mux.HandleFunc("POST /api/v1/gradebooks/{book}/students", h.handleAddStudent)
	mux.HandleFunc("GET /api/v1/gradebooks/{book}/students/{name}", h.handleGetStudent)
	mux.HandleFunc("PUT /api/v1/gradebooks/{book}/students/{name}", h.handleUpdateStudent)
	mux.HandleFunc("DELETE /api/v1/gradebooks/{book}/students/{name}", h.handleRemoveStudent)
	mux.HandleFunc("POST /api/v1/gradebooks/{book}/students/{name}/electives", h.handleAddElective)
	mux.HandleFunc("DELETE /api/v1/gradebooks/{book}/students/{name}/electives/{subject}", h.handleRemoveElective)
	mux.HandleFunc("PUT /api/v1/gradebooks/{book}/students/{name}/grades", h.handleSetGrade)
	mux.HandleFunc("GET /api/v1/gradebooks/{book}/students/{name}/report", h.handleReportCard)
	mux.HandleFunc("GET /api/v1/gradebooks/{book}/export.xlsx", h.handleExportGradebook)

	// Rental desks
	mux.HandleFunc("GET /api/v1/desks/{desk}/cars", h.handleListCars)
	mux.HandleFunc("POST /api/v1/desks/{desk}/cars", h.handleRegisterCar)
	mux.HandleFunc("GET /api/v1/desks/{desk}/clients", h.handleListClients)
	mux.HandleFunc("POST /api/v1/desks/{desk}/clients", h.handleRegisterClient)
	mux.HandleFunc("GET /api/v1/desks/{desk}/rentals", h.handleListRentals)
	mux.HandleFunc("POST /api/v1/desks/{desk}/rentals", h.handleSchedule)
	mux.HandleFunc("GET /api/v1/desks/{desk}/rentals/{id}", h.handleGetRental)
	mux.HandleFunc("POST /api/v1/desks/{desk}/rentals/{id}/return", h.handleReturn)
	mux.HandleFunc("GET /api/v1/desks/{desk}/report", h.handleRentalReport)
	mux.HandleFunc("GET /api/v1/desks/{desk}/export.xlsx", h.handleExportRentals)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"history":  h.history != nil,
		"sessions": h.sessions.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
