package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"agrocycle-be/internal/api/presenters"
	"agrocycle-be/internal/middleware"
	"agrocycle-be/internal/produce"
)

const (
	MessageFailedBodyRequest = "failed to parse request body"

	MessageSuccessCreateProduce = "produce unit created"
	MessageFailedCreateProduce  = "failed to create produce unit"
	MessageSuccessListProduce   = "produce units fetched"
	MessageFailedListProduce    = "failed to fetch produce units"
	MessageSuccessUpdateStatus  = "produce status updated"
	MessageFailedUpdateStatus   = "failed to update produce status"
)

type (
	CreateProduceRequest struct {
		Name        string  `json:"name" validate:"required"`
		Category    string  `json:"category" validate:"required"`
		Quantity    float64 `json:"quantity" validate:"required,gt=0"`
		UnitLabel   string  `json:"unit_label" validate:"required"`
		Price       float64 `json:"price" validate:"required,gte=0"`
		HarvestDate string  `json:"harvest_date" validate:"required,datetime=2006-01-02"`
		Organic     bool    `json:"organic"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
	}

	UpdateProduceStatusRequest struct {
		Status string `json:"status" validate:"required"`
	}

	ProduceHandler interface {
		CreateProduce(c *fiber.Ctx) error
		ListProduce(c *fiber.Ctx) error
		UpdateProduceStatus(c *fiber.Ctx) error
	}

	produceHandler struct {
		produceService produce.Service
		validator      *validator.Validate
	}
)

func NewProduceHandler(produceService produce.Service, validator *validator.Validate) ProduceHandler {
	return &produceHandler{
		produceService: produceService,
		validator:      validator,
	}
}

func (h *produceHandler) CreateProduce(c *fiber.Ctx) error {
	producerID, _ := middleware.UserIDFrom(c.UserContext())
	req := new(CreateProduceRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedCreateProduce, err)
	}

	harvestDate, err := time.Parse("2006-01-02", req.HarvestDate)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedCreateProduce, err)
	}

	unit, err := h.produceService.Create(c.UserContext(), produce.NewUnit{
		ProducerID:  producerID,
		Name:        req.Name,
		Category:    produce.Category(req.Category),
		Quantity:    req.Quantity,
		UnitLabel:   req.UnitLabel,
		Price:       req.Price,
		HarvestDate: harvestDate,
		Organic:     req.Organic,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedCreateProduce, err)
	}

	return presenters.SuccessResponse(c, presenters.NewProduceView(unit), fiber.StatusCreated, MessageSuccessCreateProduce)
}

func (h *produceHandler) ListProduce(c *fiber.Ctx) error {
	var producerID *string
	if id := c.Query("producer_id"); id != "" {
		producerID = &id
	}

	units, err := h.produceService.ListAvailable(c.UserContext(), producerID)
	if err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedListProduce, err)
	}

	return presenters.SuccessResponse(c, presenters.NewProduceViews(units), fiber.StatusOK, MessageSuccessListProduce)
}

func (h *produceHandler) UpdateProduceStatus(c *fiber.Ctx) error {
	producerID, _ := middleware.UserIDFrom(c.UserContext())
	unitID := c.Params("id")
	req := new(UpdateProduceStatusRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedUpdateStatus, err)
	}

	if err := h.produceService.SetStatus(c.UserContext(), producerID, unitID, produce.Status(req.Status)); err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedUpdateStatus, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, MessageSuccessUpdateStatus)
}
