package vehicles

// OrphanEntry is a style label that matched no model of its make.
// Year is the first year the label was seen.
type OrphanEntry struct {
	MakeName   string `json:"make_name"`
	StyleLabel string `json:"style_label"`
	Year       int    `json:"year"`
}

// MakeOrphans is the review record for one make.
type MakeOrphans struct {
	ModelChoices   []string `json:"model_choices"`
	OrphanedStyles []string `json:"orphaned_styles"`
}

// OrphanReport maps make names to their unmatched style labels.
type OrphanReport map[string]*MakeOrphans

// Count returns the number of orphaned labels across all makes.
func (r OrphanReport) Count() int {
	count := 0
	for _, entry := range r {
		count += len(entry.OrphanedStyles)
	}
	return count
}
