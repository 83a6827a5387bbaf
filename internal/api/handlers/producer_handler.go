package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"agrocycle-be/internal/api/presenters"
	"agrocycle-be/internal/impact"
	"agrocycle-be/internal/middleware"
	"agrocycle-be/internal/review"
)

const (
	MessageSuccessGetProfile  = "producer profile fetched"
	MessageFailedGetProfile   = "failed to fetch producer profile"
	MessageSuccessLeaveReview = "review submitted"
	MessageFailedLeaveReview  = "failed to submit review"
	MessageSuccessListReviews = "reviews fetched"
	MessageFailedListReviews  = "failed to fetch reviews"
)

type (
	LeaveReviewRequest struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"required"`
	}

	ProducerHandler interface {
		GetProfile(c *fiber.Ctx) error
		LeaveReview(c *fiber.Ctx) error
		ListReviews(c *fiber.Ctx) error
	}

	producerHandler struct {
		impactService impact.Service
		reviewService review.Service
		validator     *validator.Validate
	}
)

func NewProducerHandler(impactService impact.Service, reviewService review.Service, validator *validator.Validate) ProducerHandler {
	return &producerHandler{
		impactService: impactService,
		reviewService: reviewService,
		validator:     validator,
	}
}

func (h *producerHandler) GetProfile(c *fiber.Ctx) error {
	producerID := c.Params("id")

	profile, err := h.impactService.GetProfile(c.UserContext(), producerID)
	if err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedGetProfile, err)
	}

	return presenters.SuccessResponse(c, presenters.NewProfileView(profile), fiber.StatusOK, MessageSuccessGetProfile)
}

func (h *producerHandler) LeaveReview(c *fiber.Ctx) error {
	customerID, _ := middleware.UserIDFrom(c.UserContext())
	customerName := middleware.UserNameFrom(c.UserContext())
	producerID := c.Params("id")
	req := new(LeaveReviewRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedLeaveReview, err)
	}

	rev, err := h.reviewService.Leave(c.UserContext(), customerID, customerName, producerID, req.Rating, req.Comment)
	if err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedLeaveReview, err)
	}

	return presenters.SuccessResponse(c, presenters.NewReviewView(rev), fiber.StatusCreated, MessageSuccessLeaveReview)
}

func (h *producerHandler) ListReviews(c *fiber.Ctx) error {
	producerID := c.Params("id")

	reviews, err := h.reviewService.ListByProducer(c.UserContext(), producerID)
	if err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedListReviews, err)
	}

	return presenters.SuccessResponse(c, presenters.NewReviewViews(reviews), fiber.StatusOK, MessageSuccessListReviews)
}
