package lifecycle

import (
	"context"
	"errors"
	"testing"

	"agrocycle-be/internal/export"
	"agrocycle-be/internal/impact"
	"agrocycle-be/internal/metrics"
	"agrocycle-be/internal/produce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

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

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) CreateExport(ctx context.Context, produceID string, weight float64, facility string, category export.Category) (*export.Export, error) {
	args := m.Called(ctx, produceID, weight, facility, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Export), args.Error(1)
}

func (m *MockExportService) Get(ctx context.Context, id string) (*export.Export, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Export), args.Error(1)
}

func (m *MockExportService) ListByProducer(ctx context.Context, producerID string) ([]*export.Export, error) {
	args := m.Called(ctx, producerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*export.Export), args.Error(1)
}

func (m *MockExportService) AdvanceStatus(ctx context.Context, id string, to export.Status) error {
	args := m.Called(ctx, id, to)
	return args.Error(0)
}

type MockImpactService struct {
	mock.Mock
}

func (m *MockImpactService) ApplyExport(ctx context.Context, e *export.Export) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockImpactService) GetProfile(ctx context.Context, producerID string) (*impact.Profile, error) {
	args := m.Called(ctx, producerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*impact.Profile), args.Error(1)
}

// --- Helpers ---

func unsoldUnit() *produce.Unit {
	return &produce.Unit{
		ID:         "u1",
		ProducerID: "farmer-1",
		Name:       "Sweet Corn",
		Quantity:   20,
		Status:     produce.StatusUnsold,
	}
}

func scheduledExport() *export.Export {
	return &export.Export{
		ID:             "ex1",
		ProducerID:     "farmer-1",
		ProduceID:      "u1",
		Weight:         20,
		Category:       export.CategoryFertilizer,
		Status:         export.StatusScheduled,
		CreditsEarned:  70,
		CO2OffsetKg:    30,
		CompostYieldKg: 6,
	}
}

func TestService_ConvertToExport(t *testing.T) {
	ctx := context.Background()

	t.Run("FullConversion", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		e := scheduledExport()
		units.On("Get", ctx, "u1").Return(unsoldUnit(), nil)
		exports.On("CreateExport", ctx, "u1", 20.0, "GreenCycle Compost Co.", export.CategoryFertilizer).Return(e, nil)
		units.On("MarkDispatched", ctx, "u1").Return(nil)
		impacts.On("ApplyExport", ctx, e).Return(nil)

		m := metrics.NewSet()
		svc := NewService(units, exports, impacts, m)

		got, err := svc.ConvertToExport(ctx, "farmer-1", "u1", "GreenCycle Compost Co.", export.CategoryFertilizer)
		require.NoError(t, err)
		assert.Equal(t, 70, got.CreditsEarned)
		assert.Equal(t, uint64(1), m.Snapshot()["conversions_completed"])
		units.AssertExpectations(t)
		exports.AssertExpectations(t)
		impacts.AssertExpectations(t)
	})

	t.Run("AvailableUnitRejectedBeforeExport", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		available := unsoldUnit()
		available.Status = produce.StatusAvailable
		units.On("Get", ctx, "u1").Return(available, nil)
		exports.On("CreateExport", ctx, "u1", 20.0, "BioFuel Hub", export.CategoryFertilizer).
			Return(nil, export.ErrUnitNotWaste)

		svc := NewService(units, exports, impacts, nil)

		_, err := svc.ConvertToExport(ctx, "farmer-1", "u1", "BioFuel Hub", export.CategoryFertilizer)
		assert.ErrorIs(t, err, export.ErrUnitNotWaste)
		assert.NotErrorIs(t, err, ErrPartialFailure)
		units.AssertNotCalled(t, "MarkDispatched")
		impacts.AssertNotCalled(t, "ApplyExport")
	})

	t.Run("NotOwner", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		units.On("Get", ctx, "u1").Return(unsoldUnit(), nil)

		svc := NewService(units, exports, impacts, nil)

		_, err := svc.ConvertToExport(ctx, "farmer-2", "u1", "BioFuel Hub", export.CategoryFertilizer)
		assert.ErrorIs(t, err, ErrNotOwner)
		exports.AssertNotCalled(t, "CreateExport")
	})

	t.Run("TransitionFailureIsPartial", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		e := scheduledExport()
		units.On("Get", ctx, "u1").Return(unsoldUnit(), nil)
		exports.On("CreateExport", ctx, "u1", 20.0, "BioFuel Hub", export.CategoryFertilizer).Return(e, nil)
		units.On("MarkDispatched", ctx, "u1").Return(errors.New("backend down"))

		svc := NewService(units, exports, impacts, nil)

		got, err := svc.ConvertToExport(ctx, "farmer-1", "u1", "BioFuel Hub", export.CategoryFertilizer)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPartialFailure)

		var pf *PartialFailureError
		require.ErrorAs(t, err, &pf)
		assert.Equal(t, "ex1", pf.ExportID)
		assert.Equal(t, "status_transition", pf.Step)

		// The export is still returned: it represents a real pickup.
		require.NotNil(t, got)
		assert.Equal(t, "ex1", got.ID)
		impacts.AssertNotCalled(t, "ApplyExport")
	})

	t.Run("AccumulatorFailureIsPartial", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		e := scheduledExport()
		units.On("Get", ctx, "u1").Return(unsoldUnit(), nil)
		exports.On("CreateExport", ctx, "u1", 20.0, "BioFuel Hub", export.CategoryFertilizer).Return(e, nil)
		units.On("MarkDispatched", ctx, "u1").Return(nil)
		impacts.On("ApplyExport", ctx, e).Return(errors.New("backend down"))

		svc := NewService(units, exports, impacts, nil)

		_, err := svc.ConvertToExport(ctx, "farmer-1", "u1", "BioFuel Hub", export.CategoryFertilizer)
		assert.ErrorIs(t, err, ErrPartialFailure)

		var pf *PartialFailureError
		require.ErrorAs(t, err, &pf)
		assert.Equal(t, "impact_accumulation", pf.Step)
	})
}

func TestService_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("CompletesRemainingSteps", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		e := scheduledExport()
		exports.On("Get", ctx, "ex1").Return(e, nil)
		units.On("MarkDispatched", ctx, "u1").Return(nil)
		impacts.On("ApplyExport", ctx, e).Return(nil)

		svc := NewService(units, exports, impacts, nil)
		assert.NoError(t, svc.Retry(ctx, "farmer-1", "ex1"))
		units.AssertExpectations(t)
		impacts.AssertExpectations(t)
	})

	t.Run("RepeatedRetryIsSafe", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		e := scheduledExport()
		exports.On("Get", ctx, "ex1").Return(e, nil)
		// Unit already sold_out and export already applied: both no-ops.
		units.On("MarkDispatched", ctx, "u1").Return(nil)
		impacts.On("ApplyExport", ctx, e).Return(nil)

		svc := NewService(units, exports, impacts, nil)
		assert.NoError(t, svc.Retry(ctx, "farmer-1", "ex1"))
		assert.NoError(t, svc.Retry(ctx, "farmer-1", "ex1"))
	})

	t.Run("NotOwner", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		exports.On("Get", ctx, "ex1").Return(scheduledExport(), nil)

		svc := NewService(units, exports, impacts, nil)
		err := svc.Retry(ctx, "farmer-2", "ex1")
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("ExportNotFound", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		exports.On("Get", ctx, "missing").Return(nil, export.ErrExportNotFound)

		svc := NewService(units, exports, impacts, nil)
		err := svc.Retry(ctx, "farmer-1", "missing")
		assert.ErrorIs(t, err, export.ErrExportNotFound)
	})

	t.Run("StillFailingStaysPartial", func(t *testing.T) {
		units := new(MockProduceService)
		exports := new(MockExportService)
		impacts := new(MockImpactService)

		e := scheduledExport()
		exports.On("Get", ctx, "ex1").Return(e, nil)
		units.On("MarkDispatched", ctx, "u1").Return(errors.New("backend down"))

		svc := NewService(units, exports, impacts, nil)
		err := svc.Retry(ctx, "farmer-1", "ex1")
		assert.ErrorIs(t, err, ErrPartialFailure)
	})
}
