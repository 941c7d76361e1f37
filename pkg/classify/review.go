package classify

// ReviewEntry is a discovered make that is neither allowed nor denied.
type ReviewEntry struct {
	MakeID       int      `json:"make_id" yaml:"make_id"`
	MakeName     string   `json:"make_name" yaml:"make_name"`
	MakeSlug     string   `json:"make_slug" yaml:"make_slug"`
	VehicleTypes []string `json:"vehicle_types" yaml:"vehicle_types"`
	Passenger    bool     `json:"passenger" yaml:"passenger"`
}
