package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agrocycle-be/internal/middleware"
	"agrocycle-be/internal/produce"
)

type MockProduceService struct {
	mock.Mock
}

func (m *MockProduceService) Create(ctx context.Context, input produce.NewUnit) (*produce.Unit, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*produce.Unit), args.Error(1)
}

func (m *MockProduceService) Get(ctx context.Context, id string) (*produce.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*produce.Unit), args.Error(1)
}

func (m *MockProduceService) ListAvailable(ctx context.Context, producerID *string) ([]*produce.Unit, error) {
	args := m.Called(ctx, producerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*produce.Unit), args.Error(1)
}

func (m *MockProduceService) SetStatus(ctx context.Context, producerID, id string, to produce.Status) error {
	args := m.Called(ctx, producerID, id, to)
	return args.Error(0)
}

func (m *MockProduceService) MarkDispatched(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// identityStub injects a fixed caller so handlers under test see an
// authenticated request without minting real tokens.
func identityStub(userID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(middleware.WithIdentity(c.UserContext(), userID, "Test User", role))
		return c.Next()
	}
}

func newProduceApp(svc produce.Service) *fiber.App {
	app := fiber.New()
	h := NewProduceHandler(svc, validator.New())
	app.Use(identityStub("farmer-1", middleware.RoleFarmer))
	app.Post("/api/v1/produce", h.CreateProduce)
	app.Get("/api/v1/produce", h.ListProduce)
	app.Patch("/api/v1/produce/:id/status", h.UpdateProduceStatus)
	return app
}

func decodeBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func TestCreateProduce(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockProduceService)
		svc.On("Create", mock.Anything, mock.MatchedBy(func(in produce.NewUnit) bool {
			return in.ProducerID == "farmer-1" && in.Name == "Tomat Ceri"
		})).Return(&produce.Unit{
			ID:          "unit-1",
			ProducerID:  "farmer-1",
			Name:        "Tomat Ceri",
			Category:    produce.CategoryVegetable,
			Quantity:    25,
			UnitLabel:   "kg",
			Price:       12000,
			HarvestDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Status:      produce.StatusAvailable,
		}, nil)

		payload := `{
			"name": "Tomat Ceri",
			"category": "Vegetable",
			"quantity": 25,
			"unit_label": "kg",
			"price": 12000,
			"harvest_date": "2025-06-01"
		}`
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/produce", bytes.NewBufferString(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := newProduceApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, "success", body["status"])
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "unit-1", data["id"])
		svc.AssertExpectations(t)
	})

	t.Run("validation failure", func(t *testing.T) {
		svc := new(MockProduceService)

		payload := `{"name": "Tomat Ceri"}`
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/produce", bytes.NewBufferString(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := newProduceApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Create")
	})

	t.Run("unknown category maps to 422", func(t *testing.T) {
		svc := new(MockProduceService)
		svc.On("Create", mock.Anything, mock.Anything).Return(nil, produce.ErrUnknownCategory)

		payload := `{
			"name": "Tomat Ceri",
			"category": "Gadgets",
			"quantity": 25,
			"unit_label": "kg",
			"price": 12000,
			"harvest_date": "2025-06-01"
		}`
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/produce", bytes.NewBufferString(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := newProduceApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestListProduce(t *testing.T) {
	t.Run("all available", func(t *testing.T) {
		svc := new(MockProduceService)
		svc.On("ListAvailable", mock.Anything, (*string)(nil)).Return([]*produce.Unit{
			{ID: "unit-1", Status: produce.StatusAvailable},
			{ID: "unit-2", Status: produce.StatusAvailable},
		}, nil)

		resp, err := newProduceApp(svc).Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/produce", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Len(t, body["data"], 2)
		svc.AssertExpectations(t)
	})

	t.Run("filtered by producer", func(t *testing.T) {
		svc := new(MockProduceService)
		svc.On("ListAvailable", mock.Anything, mock.MatchedBy(func(id *string) bool {
			return id != nil && *id == "farmer-2"
		})).Return([]*produce.Unit{}, nil)

		resp, err := newProduceApp(svc).Test(
			httptest.NewRequest(fiber.MethodGet, "/api/v1/produce?producer_id=farmer-2", nil),
		)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})
}

func TestUpdateProduceStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockProduceService)
		svc.On("SetStatus", mock.Anything, "farmer-1", "unit-1", produce.StatusUnsold).Return(nil)

		req := httptest.NewRequest(
			fiber.MethodPatch, "/api/v1/produce/unit-1/status",
			bytes.NewBufferString(`{"status": "unsold"}`),
		)
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := newProduceApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("invalid transition maps to 409", func(t *testing.T) {
		svc := new(MockProduceService)
		svc.On("SetStatus", mock.Anything, "farmer-1", "unit-1", produce.StatusAvailable).
			Return(produce.ErrInvalidTransition)

		req := httptest.NewRequest(
			fiber.MethodPatch, "/api/v1/produce/unit-1/status",
			bytes.NewBufferString(`{"status": "available"}`),
		)
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := newProduceApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("not owner maps to 403", func(t *testing.T) {
		svc := new(MockProduceService)
		svc.On("SetStatus", mock.Anything, "farmer-1", "unit-9", produce.StatusUnsold).
			Return(produce.ErrNotOwner)

		req := httptest.NewRequest(
			fiber.MethodPatch, "/api/v1/produce/unit-9/status",
			bytes.NewBufferString(`{"status": "unsold"}`),
		)
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := newProduceApp(svc).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}
