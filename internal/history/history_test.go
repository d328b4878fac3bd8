package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tallybook/tally/pkg/scoring"
)

func TestNewService(t *testing.T) {
	// NewService only stores the reference; a nil db is fine.
	svc := NewService(nil)
	if svc == nil {
		t.Fatal("NewService returned nil")
	}
}

func TestNewRecord(t *testing.T) {
	m := scoring.Measurements{HeightCm: 185, WeightKg: 80, BodyFatPct: 12, ShoulderWidth: 120, WaistWidth: 75}
	result, err := scoring.Compute(m)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	rec, err := NewRecord(result, "monday")
	if err != nil {
		t.Fatalf("NewRecord() error: %v", err)
	}

	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", rec.ID, err)
	}
	if rec.Label != "monday" {
		t.Errorf("Label = %q, want %q", rec.Label, "monday")
	}
	if rec.Tier != scoring.TierChadLight {
		t.Errorf("Tier = %q, want %q", rec.Tier, scoring.TierChadLight)
	}
	if rec.Percentage != result.Percentage || rec.TotalPoints != result.TotalPoints {
		t.Errorf("points not copied: %+v", rec)
	}
	if rec.Measurements() != m {
		t.Errorf("Measurements() = %+v, want %+v", rec.Measurements(), m)
	}

	var breakdown []scoring.MetricResult
	if err := json.Unmarshal(rec.Breakdown, &breakdown); err != nil {
		t.Fatalf("breakdown is not valid JSON: %v", err)
	}
	if len(breakdown) != len(result.Breakdown) {
		t.Errorf("breakdown has %d entries, want %d", len(breakdown), len(result.Breakdown))
	}
}

func TestNewRecordIDsAreUnique(t *testing.T) {
	result, err := scoring.Compute(scoring.Measurements{HeightCm: 180, WeightKg: 75, BodyFatPct: 15, ShoulderWidth: 110, WaistWidth: 80})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	a, _ := NewRecord(result, "")
	b, _ := NewRecord(result, "")
	if a.ID == b.ID {
		t.Errorf("expected distinct ids, both %q", a.ID)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Get(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), "../etc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{10, 10},
		{500, 500},
		{501, DefaultLimit},
	}
	for _, tc := range tests {
		if got := normalizeLimit(tc.in); got != tc.want {
			t.Errorf("normalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
