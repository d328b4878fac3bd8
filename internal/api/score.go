package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/pkg/scoring"
	"github.com/tallybook/tally/pkg/surface"
)

// decimal accepts a JSON number or a string such as "80,5".
type decimal string

func (d *decimal) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = decimal(s)
		return nil
	}
	*d = decimal(b)
	return nil
}

type scoreRequest struct {
	Label         string  `json:"label"`
	HeightCm      decimal `json:"height_cm"`
	WeightKg      decimal `json:"weight_kg"`
	BodyFatPct    decimal `json:"body_fat_pct"`
	ShoulderWidth decimal `json:"shoulder_width"`
	WaistWidth    decimal `json:"waist_width"`
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, err := scoring.ParseMeasurements(string(req.HeightCm), string(req.WeightKg),
		string(req.BodyFatPct), string(req.ShoulderWidth), string(req.WaistWidth))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	result, err := h.engine.Score(m)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if h.history != nil {
		rec, err := h.history.Record(r.Context(), result, req.Label)
		if err != nil {
			log.Printf("api: record score: %v", err)
		} else {
			w.Header().Set("Location", "/api/v1/history/"+rec.ID)
		}
	}

	switch r.URL.Query().Get("format") {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=\"score.pdf\"")
		if err := export.ScoreCardPDF(w, result, req.Label); err != nil {
			log.Printf("api: score pdf: %v", err)
		}
	case surface.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_ = (&surface.MarkdownRenderer{}).Render(w, result)
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) handleScoreBatch(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	batch, err := export.ScoreWorkbook(file, h.engine)
	if err != nil {
		if errors.Is(err, export.ErrEmptySheet) {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid workbook")
		return
	}

	if h.history != nil {
		for _, row := range batch.Rows {
			if row.Result == nil {
				continue
			}
			if _, err := h.history.Record(r.Context(), row.Result, row.Label); err != nil {
				log.Printf("api: record batch row %d: %v", row.Row, err)
			}
		}
	}

	writeJSON(w, http.StatusOK, batch)
}

func (h *Handler) handleBatchTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"scores.xlsx\"")
	if err := export.WriteBatchTemplate(w); err != nil {
		log.Printf("api: batch template: %v", err)
	}
}

func (h *Handler) handleTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Classifier().Tiers())
}

func (h *Handler) handleExplain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(scoring.Explain(h.weights, h.engine.Classifier().Tiers())))
}

func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "score history is not enabled")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.history.List(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusServiceUnavailable, "score history is not enabled")
		return
	}
	rec, err := h.history.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
