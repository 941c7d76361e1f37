package vehicles

// StyleDetail is one specification record returned for a (year, make) query.
// Measurements the source could not express as a number are nil.
type StyleDetail struct {
	Style                 string  `json:"model_style"`
	HoodLengthCM          *int    `json:"hood_length_cm"`
	BackLengthCM          *int    `json:"back_length_cm"`
	SideGlassMaxHeightCM  *int    `json:"side_glass_max_height_cm"`
	DoorHeightCM          *int    `json:"door_height_cm"`
	MaxWidthCM            *int    `json:"max_width_cm"`
	FrontOverhangCM       *int    `json:"front_overhang_cm"`
	RearOverhangCM        *int    `json:"rear_overhang_cm"`
	OverallLengthCM       *int    `json:"overall_length_cm"`
	OverallWidthCM        *int    `json:"overall_width_cm"`
	OverallHeightCM       *int    `json:"overall_height_cm"`
	WheelbaseCM           *int    `json:"wheelbase_cm"`
	FrontTrackWidthCM     *int    `json:"front_track_width_cm"`
	RearTrackWidthCM      *int    `json:"rear_track_width_cm"`
	CurbWeightKG          *int    `json:"curb_weight_kg"`
	WeightDistributionPct *string `json:"weight_distribution_pct"`
}
