package produce

import "time"

type Status string

const (
	StatusAvailable Status = "available"
	StatusSoldOut   Status = "sold_out"
	StatusUnsold    Status = "unsold"
	StatusSpoiled   Status = "spoiled"
)

type Category string

const (
	CategoryFruit     Category = "Fruit"
	CategoryVegetable Category = "Vegetable"
	CategoryGrain     Category = "Grain"
	CategoryDairy     Category = "Dairy"
)

// Unit is one listed batch of a producer's harvest.
type Unit struct {
	ID          string
	ProducerID  string
	Name        string
	Category    Category
	Quantity    float64
	UnitLabel   string
	Price       float64
	HarvestDate time.Time
	Organic     bool
	Status      Status
	Description *string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// transitions is the authoritative status table. sold_out is terminal.
var transitions = map[Status][]Status{
	StatusAvailable: {StatusSoldOut, StatusUnsold, StatusSpoiled},
	StatusUnsold:    {StatusSoldOut},
	StatusSpoiled:   {StatusSoldOut},
	StatusSoldOut:   {},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryFruit, CategoryVegetable, CategoryGrain, CategoryDairy:
		return true
	}
	return false
}
