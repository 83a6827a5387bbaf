package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"agrocycle-be/internal/api/presenters"
	"agrocycle-be/internal/export"
	"agrocycle-be/internal/lifecycle"
	"agrocycle-be/internal/middleware"
)

const (
	MessageSuccessConvert      = "produce converted to factory export"
	MessagePartialConvert      = "conversion partially completed, retry available"
	MessageFailedConvert       = "failed to convert produce"
	MessageSuccessRetry        = "conversion retry completed"
	MessageFailedRetry         = "failed to retry conversion"
	MessageSuccessListExports  = "exports fetched"
	MessageFailedListExports   = "failed to fetch exports"
	MessageSuccessExportStatus = "export status updated"
	MessageFailedExportStatus  = "failed to update export status"
)

type (
	ConvertRequest struct {
		ProduceID    string `json:"produce_id" validate:"required"`
		FacilityName string `json:"facility_name" validate:"required"`
		Category     string `json:"category" validate:"required"`
	}

	UpdateExportStatusRequest struct {
		Status string `json:"status" validate:"required"`
	}

	ExportHandler interface {
		Convert(c *fiber.Ctx) error
		Retry(c *fiber.Ctx) error
		ListExports(c *fiber.Ctx) error
		UpdateExportStatus(c *fiber.Ctx) error
	}

	exportHandler struct {
		exportService    export.Service
		lifecycleService lifecycle.Service
		validator        *validator.Validate
	}
)

func NewExportHandler(exportService export.Service, lifecycleService lifecycle.Service, validator *validator.Validate) ExportHandler {
	return &exportHandler{
		exportService:    exportService,
		lifecycleService: lifecycleService,
		validator:        validator,
	}
}

func (h *exportHandler) Convert(c *fiber.Ctx) error {
	producerID, _ := middleware.UserIDFrom(c.UserContext())
	req := new(ConvertRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedConvert, err)
	}

	exp, err := h.lifecycleService.ConvertToExport(
		c.UserContext(), producerID, req.ProduceID, req.FacilityName, export.Category(req.Category),
	)
	if err != nil {
		var partial *lifecycle.PartialFailureError
		if errors.As(err, &partial) && exp != nil {
			// The export exists and credit accrual will catch up on retry.
			return presenters.SuccessResponse(c, fiber.Map{
				"export": presenters.NewExportView(exp),
				"partial_failure": fiber.Map{
					"step":  partial.Step,
					"error": partial.Err.Error(),
				},
			}, fiber.StatusOK, MessagePartialConvert)
		}
		return presenters.DomainErrorResponse(c, MessageFailedConvert, err)
	}

	return presenters.SuccessResponse(c, presenters.NewExportView(exp), fiber.StatusCreated, MessageSuccessConvert)
}

func (h *exportHandler) Retry(c *fiber.Ctx) error {
	producerID, _ := middleware.UserIDFrom(c.UserContext())
	exportID := c.Params("id")

	if err := h.lifecycleService.Retry(c.UserContext(), producerID, exportID); err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedRetry, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, MessageSuccessRetry)
}

func (h *exportHandler) ListExports(c *fiber.Ctx) error {
	producerID, _ := middleware.UserIDFrom(c.UserContext())

	exports, err := h.exportService.ListByProducer(c.UserContext(), producerID)
	if err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedListExports, err)
	}

	return presenters.SuccessResponse(c, presenters.NewExportViews(exports), fiber.StatusOK, MessageSuccessListExports)
}

func (h *exportHandler) UpdateExportStatus(c *fiber.Ctx) error {
	exportID := c.Params("id")
	req := new(UpdateExportStatusRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, MessageFailedExportStatus, err)
	}

	if err := h.exportService.AdvanceStatus(c.UserContext(), exportID, export.Status(req.Status)); err != nil {
		return presenters.DomainErrorResponse(c, MessageFailedExportStatus, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, MessageSuccessExportStatus)
}
