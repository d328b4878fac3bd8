package scoring

import (
	"fmt"
	"strings"
)

// Explain describes the scoring rules for w and the tier table in plain text.
func Explain(w DefaultWeights, tiers []Tier) string {
	var b strings.Builder
	max := w.HeightMax + w.BodyFatMax + w.FFMIMax + w.ProportionMax

	fmt.Fprintf(&b, "Scoring algorithm\n\n")
	fmt.Fprintf(&b, "Points (out of %s) are awarded to each body metric based on ideal proportions.\n\n", num(max))

	fmt.Fprintf(&b, "Metrics and weights:\n")
	fmt.Fprintf(&b, "- Height (weight %s): max between %sm and %sm; 0 below %sm or above %sm.\n",
		num(w.HeightMax), num(w.HeightPlateauStart), num(w.HeightPlateauEnd), num(w.HeightFloor), num(w.HeightCeiling))
	fmt.Fprintf(&b, "- Body fat %% (weight %s): max between %s%% and %s%%; 0 above %s%%.\n",
		num(w.BodyFatMax), num(w.BodyFatIdealLow), num(w.BodyFatIdealHigh), num(w.BodyFatCutoff))
	fmt.Fprintf(&b, "- FFMI (weight %s): max at %s kg/m² or above; 0 below %s kg/m².\n",
		num(w.FFMIMax), num(w.FFMIIdeal), num(w.FFMIFloor))
	fmt.Fprintf(&b, "- Shoulder/waist ratio (weight %s):\n", num(w.ProportionMax))
	fmt.Fprintf(&b, "    %s to %s: max points\n", num(w.ProportionIdealLow), num(w.ProportionIdealHigh))
	fmt.Fprintf(&b, "    %s to %s: points grow linearly up to the max\n", num(w.ProportionFloor), num(w.ProportionIdealLow))
	fmt.Fprintf(&b, "    below %s or above %s: 0\n\n", num(w.ProportionFloor), num(w.ProportionIdealHigh))

	fmt.Fprintf(&b, "Classification:\n")
	ordered := NewClassifier(tiers...).Tiers()
	for i := len(ordered) - 1; i >= 0; i-- {
		t := ordered[i]
		if t.Exact {
			fmt.Fprintf(&b, "- %s%%: %s\n", num(t.MinPercentage), t.Message)
			continue
		}
		if upper, ok := upperBound(ordered, i); ok {
			fmt.Fprintf(&b, "- %s%% to %.2f%%: %s\n", num(t.MinPercentage), upper-0.01, t.Message)
		} else {
			fmt.Fprintf(&b, "- %s%% and above: %s\n", num(t.MinPercentage), t.Message)
		}
	}
	return b.String()
}

// upperBound returns the smallest bound above tiers[i] among the better tiers.
func upperBound(tiers []Tier, i int) (float64, bool) {
	var (
		upper float64
		found bool
	)
	for _, t := range tiers[:i] {
		if t.MinPercentage > tiers[i].MinPercentage && (!found || t.MinPercentage < upper) {
			upper, found = t.MinPercentage, true
		}
	}
	return upper, found
}

// num formats a float without trailing zeros.
func num(v float64) string {
	s := strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
