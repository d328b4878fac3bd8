package scoring

import (
	"fmt"
	"sort"
)

// Tier is a classification bracket for the score percentage.
type Tier struct {
	Key           string  `json:"key"`
	Name          string  `json:"name"`
	Message       string  `json:"message"`
	MinPercentage float64 `json:"min_percentage"` // inclusive lower bound
	Exact         bool    `json:"exact,omitempty"` // match MinPercentage only
}

// Tier keys.
const (
	TierGreekGod     = "greek_god"
	TierChad         = "chad"
	TierChadLight    = "chad_light"
	TierAboveAverage = "above_average"
	TierAverage      = "average"
	TierBelowAverage = "below_average"
	TierSubfive      = "subfive"
)

// DefaultTiers returns the standard tier table, best first.
func DefaultTiers() []Tier {
	return []Tier{
		{Key: TierGreekGod, Name: "Greek God", Message: "Congratulations, you are a Greek God!", MinPercentage: 100, Exact: true},
		{Key: TierChad, Name: "Chad", Message: "Congratulations, you are a Chad!", MinPercentage: 90},
		{Key: TierChadLight, Name: "Chad Light", Message: "Congratulations, you are a Chad Light!", MinPercentage: 80},
		{Key: TierAboveAverage, Name: "Above Average", Message: "Nice, you are above average.", MinPercentage: 70},
		{Key: TierAverage, Name: "Average", Message: "You are average.", MinPercentage: 60},
		{Key: TierBelowAverage, Name: "Below Average", Message: "Too bad, you are below average.", MinPercentage: 50},
		{Key: TierSubfive, Name: "Subfive", Message: "Too bad, you are a subfive.", MinPercentage: 0},
	}
}

// Classifier maps a percentage to a Tier.
type Classifier struct {
	tiers []Tier // exact tiers first, then by MinPercentage descending
}

// NewClassifier creates a classifier over the given tiers.
func NewClassifier(tiers ...Tier) *Classifier {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Exact != sorted[j].Exact {
			return sorted[i].Exact
		}
		return sorted[i].MinPercentage > sorted[j].MinPercentage
	})
	return &Classifier{tiers: sorted}
}

// Tiers returns the tier table, best first.
func (c *Classifier) Tiers() []Tier {
	out := make([]Tier, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// Classify returns the first tier whose bound the percentage satisfies.
// Percentages below every bound fall into the lowest tier.
func (c *Classifier) Classify(percentage float64) Tier {
	if len(c.tiers) == 0 {
		return Tier{}
	}
	for _, t := range c.tiers {
		if t.Exact {
			if percentage == t.MinPercentage {
				return t
			}
			continue
		}
		if percentage >= t.MinPercentage {
			return t
		}
	}
	return c.tiers[len(c.tiers)-1]
}

var defaultClassifier = NewClassifier(DefaultTiers()...)

// Classify maps a percentage to a tier of the default table.
func Classify(percentage float64) Tier {
	return defaultClassifier.Classify(percentage)
}

// TiersFromConfig applies threshold overrides, keyed by tier key, to the
// default table.
func TiersFromConfig(thresholds map[string]float64) ([]Tier, error) {
	tiers := DefaultTiers()
	for key, min := range thresholds {
		found := false
		for i := range tiers {
			if tiers[i].Key == key {
				tiers[i].MinPercentage = min
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown tier %q", key)
		}
	}
	return tiers, nil
}
