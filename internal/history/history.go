// Package history keeps a Postgres-backed log of computed scores.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/tallybook/tally/pkg/scoring"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("score record not found")

// DefaultLimit caps List when the caller passes no limit.
const DefaultLimit = 50

// Record is one stored score computation.
type Record struct {
	ID          string         `db:"id" json:"id"`
	Label       string         `db:"label" json:"label,omitempty"`
	HeightCm    float64        `db:"height_cm" json:"height_cm"`
	WeightKg    float64        `db:"weight_kg" json:"weight_kg"`
	BodyFatPct  float64        `db:"body_fat_pct" json:"body_fat_pct"`
	Shoulder    float64        `db:"shoulder" json:"shoulder_width"`
	Waist       float64        `db:"waist" json:"waist_width"`
	FFMI        float64        `db:"ffmi" json:"ffmi"`
	Ratio       float64        `db:"ratio" json:"shoulder_waist_ratio"`
	TotalPoints float64        `db:"total_points" json:"total_points"`
	MaxPoints   float64        `db:"max_points" json:"max_points"`
	Percentage  float64        `db:"percentage" json:"percentage"`
	Tier        string         `db:"tier" json:"tier"`
	Breakdown   types.JSONText `db:"breakdown" json:"breakdown"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

const columns = `id, label, height_cm, weight_kg, body_fat_pct, shoulder, waist,
	ffmi, ratio, total_points, max_points, percentage, tier, breakdown, created_at`

// Service reads and writes score records.
type Service struct {
	db *sqlx.DB
}

// NewService creates a history Service.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// NewRecord flattens a score result into a record with a fresh id.
func NewRecord(result *scoring.ScoreResult, label string) (Record, error) {
	breakdown, err := json.Marshal(result.Breakdown)
	if err != nil {
		return Record{}, fmt.Errorf("encode breakdown: %w", err)
	}
	m := result.Measurements
	return Record{
		ID:          uuid.New().String(),
		Label:       label,
		HeightCm:    m.HeightCm,
		WeightKg:    m.WeightKg,
		BodyFatPct:  m.BodyFatPct,
		Shoulder:    m.ShoulderWidth,
		Waist:       m.WaistWidth,
		FFMI:        result.Indicators.FFMI,
		Ratio:       result.Indicators.ShoulderWaistRatio,
		TotalPoints: result.TotalPoints,
		MaxPoints:   result.MaxPoints,
		Percentage:  result.Percentage,
		Tier:        result.Tier.Key,
		Breakdown:   types.JSONText(breakdown),
	}, nil
}

// Measurements rebuilds the inputs the record was computed from.
func (r Record) Measurements() scoring.Measurements {
	return scoring.Measurements{
		HeightCm:      r.HeightCm,
		WeightKg:      r.WeightKg,
		BodyFatPct:    r.BodyFatPct,
		ShoulderWidth: r.Shoulder,
		WaistWidth:    r.Waist,
	}
}

// Record stores a score result and returns the saved row.
func (s *Service) Record(ctx context.Context, result *scoring.ScoreResult, label string) (*Record, error) {
	rec, err := NewRecord(result, label)
	if err != nil {
		return nil, err
	}

	saved := &Record{}
	rows, err := s.db.NamedQueryContext(ctx,
		`INSERT INTO score_history (id, label, height_cm, weight_kg, body_fat_pct, shoulder, waist,
		   ffmi, ratio, total_points, max_points, percentage, tier, breakdown)
		 VALUES (:id, :label, :height_cm, :weight_kg, :body_fat_pct, :shoulder, :waist,
		   :ffmi, :ratio, :total_points, :max_points, :percentage, :tier, :breakdown)
		 RETURNING `+columns, rec)
	if err != nil {
		return nil, fmt.Errorf("insert score record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("insert score record: %w", err)
		}
		return nil, fmt.Errorf("insert score record: no row returned")
	}
	if err := rows.StructScan(saved); err != nil {
		return nil, fmt.Errorf("scan score record: %w", err)
	}
	return saved, nil
}

// Get returns the record with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	rec := &Record{}
	err := s.db.GetContext(ctx, rec, `SELECT `+columns+` FROM score_history WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get score record %s: %w", id, err)
	}
	return rec, nil
}

// List returns the most recent records, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Record, error) {
	records := []Record{}
	err := s.db.SelectContext(ctx, &records,
		`SELECT `+columns+` FROM score_history ORDER BY created_at DESC LIMIT $1`,
		normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list score records: %w", err)
	}
	return records, nil
}

// ListByLabel returns the most recent records carrying label.
func (s *Service) ListByLabel(ctx context.Context, label string, limit int) ([]Record, error) {
	records := []Record{}
	err := s.db.SelectContext(ctx, &records,
		`SELECT `+columns+` FROM score_history WHERE label = $1 ORDER BY created_at DESC LIMIT $2`,
		label, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list score records for %q: %w", label, err)
	}
	return records, nil
}

// Delete removes a record. Deleting a missing record returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM score_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete score record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete score record %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return DefaultLimit
	}
	return limit
}
