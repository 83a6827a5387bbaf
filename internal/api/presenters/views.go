package presenters

import (
	"time"

	"agrocycle-be/internal/export"
	"agrocycle-be/internal/impact"
	"agrocycle-be/internal/order"
	"agrocycle-be/internal/produce"
	"agrocycle-be/internal/review"
)

type ProduceView struct {
	ID          string    `json:"id"`
	ProducerID  string    `json:"producer_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Quantity    float64   `json:"quantity"`
	UnitLabel   string    `json:"unit_label"`
	Price       float64   `json:"price"`
	HarvestDate time.Time `json:"harvest_date"`
	Organic     bool      `json:"organic"`
	Status      string    `json:"status"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProduceView(u *produce.Unit) ProduceView {
	return ProduceView{
		ID:          u.ID,
		ProducerID:  u.ProducerID,
		Name:        u.Name,
		Category:    string(u.Category),
		Quantity:    u.Quantity,
		UnitLabel:   u.UnitLabel,
		Price:       u.Price,
		HarvestDate: u.HarvestDate,
		Organic:     u.Organic,
		Status:      string(u.Status),
		Description: u.Description,
		ImageURL:    u.ImageURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func NewProduceViews(units []*produce.Unit) []ProduceView {
	views := make([]ProduceView, 0, len(units))
	for _, u := range units {
		views = append(views, NewProduceView(u))
	}
	return views
}

type ExportView struct {
	ID             string    `json:"id"`
	ProducerID     string    `json:"producer_id"`
	ProduceID      string    `json:"produce_id"`
	ProduceName    string    `json:"produce_name"`
	Weight         float64   `json:"weight"`
	FacilityName   string    `json:"facility_name"`
	Category       string    `json:"category"`
	PickupDate     time.Time `json:"pickup_date"`
	Status         string    `json:"status"`
	CreditsEarned  int       `json:"credits_earned"`
	CO2OffsetKg    float64   `json:"co2_offset_kg"`
	CompostYieldKg float64   `json:"compost_yield_kg"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewExportView(e *export.Export) ExportView {
	return ExportView{
		ID:             e.ID,
		ProducerID:     e.ProducerID,
		ProduceID:      e.ProduceID,
		ProduceName:    e.ProduceName,
		Weight:         e.Weight,
		FacilityName:   e.FacilityName,
		Category:       string(e.Category),
		PickupDate:     e.PickupDate,
		Status:         string(e.Status),
		CreditsEarned:  e.CreditsEarned,
		CO2OffsetKg:    e.CO2OffsetKg,
		CompostYieldKg: e.CompostYieldKg,
		CreatedAt:      e.CreatedAt,
	}
}

func NewExportViews(exports []*export.Export) []ExportView {
	views := make([]ExportView, 0, len(exports))
	for _, e := range exports {
		views = append(views, NewExportView(e))
	}
	return views
}

type LineItemView struct {
	ID        string  `json:"id"`
	ProduceID string  `json:"produce_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type OrderView struct {
	ID            string         `json:"id"`
	CustomerID    string         `json:"customer_id"`
	ProducerID    string         `json:"producer_id"`
	Items         []LineItemView `json:"items"`
	Total         float64        `json:"total"`
	Status        string         `json:"status"`
	PaymentStatus string         `json:"payment_status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func NewOrderView(o *order.Order) OrderView {
	items := make([]LineItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, LineItemView{
			ID:        it.ID,
			ProduceID: it.ProduceID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return OrderView{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		ProducerID:    o.ProducerID,
		Items:         items,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func NewOrderViews(orders []*order.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views
}

type ProfileView struct {
	ID                 string  `json:"id"`
	TrustScore         float64 `json:"trust_score"`
	Verified           bool    `json:"verified"`
	FertilizerCredits  int     `json:"fertilizer_credits"`
	WasteReducedKg     float64 `json:"waste_reduced_kg"`
	CO2SavedKg         float64 `json:"co2_saved_kg"`
	CompostGeneratedKg float64 `json:"compost_generated_kg"`
}

func NewProfileView(p *impact.Profile) ProfileView {
	return ProfileView{
		ID:                 p.ID,
		TrustScore:         p.TrustScore,
		Verified:           p.Verified,
		FertilizerCredits:  p.FertilizerCredits,
		WasteReducedKg:     p.WasteReducedKg,
		CO2SavedKg:         p.CO2SavedKg,
		CompostGeneratedKg: p.CompostGeneratedKg,
	}
}

type ReviewView struct {
	ID           string    `json:"id"`
	ProducerID   string    `json:"producer_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewReviewView(r *review.Review) ReviewView {
	return ReviewView{
		ID:           r.ID,
		ProducerID:   r.ProducerID,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

func NewReviewViews(reviews []*review.Review) []ReviewView {
	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, NewReviewView(r))
	}
	return views
}
