package nhtsa

import (
	"context"
	"strconv"
	"strings"

	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Spec names whose values are kept as text.
var textSpecs = map[string]bool{"Make": true, "Model": true, "WD": true}

type rawSpec struct {
	Name  string  `json:"Name"`
	Value *string `json:"Value"`
}

type rawSpecification struct {
	Specs []rawSpec `json:"Specs"`
}

// parsedSpec holds a cleaned value: text specs in text, numeric specs in number.
type parsedSpec struct {
	text   *string
	number *int
}

// parseSpec cleans a raw value. Numeric specs keep only their digits, and a
// value with no digits at all is treated as missing.
func parseSpec(ctx context.Context, s rawSpec) parsedSpec {
	if s.Value == nil {
		return parsedSpec{}
	}
	value := strings.TrimSpace(*s.Value)
	if value == "" {
		return parsedSpec{}
	}
	if textSpecs[s.Name] {
		return parsedSpec{text: &value}
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
	n, err := strconv.Atoi(digits)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("spec", s.Name).
			Str("value", *s.Value).
			Msg("BAD VALUE")
		return parsedSpec{}
	}
	return parsedSpec{number: &n}
}

func (r rawSpecification) detail(ctx context.Context) (vehicles.StyleDetail, bool) {
	specs := make(map[string]parsedSpec, len(r.Specs))
	for _, s := range r.Specs {
		specs[s.Name] = parseSpec(ctx, s)
	}

	model := specs["Model"].text
	if model == nil {
		return vehicles.StyleDetail{}, false
	}
	return vehicles.StyleDetail{
		Style:                 *model,
		HoodLengthCM:          specs["A"].number,
		BackLengthCM:          specs["B"].number,
		SideGlassMaxHeightCM:  specs["C"].number,
		DoorHeightCM:          specs["D"].number,
		MaxWidthCM:            specs["E"].number,
		FrontOverhangCM:       specs["F"].number,
		RearOverhangCM:        specs["G"].number,
		OverallLengthCM:       specs["OL"].number,
		OverallWidthCM:        specs["OW"].number,
		OverallHeightCM:       specs["OH"].number,
		WheelbaseCM:           specs["WB"].number,
		FrontTrackWidthCM:     specs["TWF"].number,
		RearTrackWidthCM:      specs["TWR"].number,
		CurbWeightKG:          specs["CW"].number,
		WeightDistributionPct: specs["WD"].text,
	}, true
}
