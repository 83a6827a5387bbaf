package export

import "time"

type Category string

const (
	CategoryFertilizer Category = "Fertilizer"
	CategoryBioFuel    Category = "Bio-Fuel"
	CategoryAnimalFeed Category = "Animal Feed"
)

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusInTransit Status = "In-Transit"
	StatusProcessed Status = "Processed"
)

// statusRank orders the logistics pipeline. Status only ever moves forward
// and an export is immutable once Processed.
var statusRank = map[Status]int{
	StatusScheduled: 0,
	StatusInTransit: 1,
	StatusProcessed: 2,
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryFertilizer, CategoryBioFuel, CategoryAnimalFeed:
		return true
	}
	return false
}

func ValidStatus(s Status) bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvance reports whether a logistics actor may move an export from one
// status to the next. Only single forward steps are allowed.
func CanAdvance(from, to Status) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank == fromRank+1
}

// Export records that a quantity of waste from a produce unit was routed to
// a processing facility. Weight and the derived fields are immutable after
// creation.
type Export struct {
	ID             string
	ProducerID     string
	ProduceID      string
	ProduceName    string
	Weight         float64
	FacilityName   string
	Category       Category
	PickupDate     time.Time
	Status         Status
	CreditsEarned  int
	CO2OffsetKg    float64
	CompostYieldKg float64
	CreatedAt      time.Time
}
