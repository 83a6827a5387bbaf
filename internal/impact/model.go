package impact

import "time"

// Profile is the cumulative identity and impact record for a producer.
// The cumulative fields only ever grow: they are the fold of every applied
// factory export for that producer.
type Profile struct {
	ID                 string
	TrustScore         float64
	Verified           bool
	FertilizerCredits  int
	WasteReducedKg     float64
	CO2SavedKg         float64
	CompostGeneratedKg float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
