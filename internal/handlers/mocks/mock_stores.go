package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cx-tal-miterani/flight-booking-client/internal/schedule"
	"github.com/cx-tal-miterani/flight-booking-client/internal/service"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// MockCatalog is a mock implementation of the bridge Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Search(ctx context.Context, q service.SearchQuery) ([]models.Flight, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flight), args.Error(1)
}

func (m *MockCatalog) ByID(ctx context.Context, id string) (models.Flight, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Flight), args.Error(1)
}

func (m *MockCatalog) Filtered(b schedule.Bounds) []models.Flight {
	args := m.Called(b)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Flight)
}

func (m *MockCatalog) Snapshot() service.Snapshot[service.Catalog] {
	args := m.Called()
	return args.Get(0).(service.Snapshot[service.Catalog])
}

func (m *MockCatalog) Reset() {
	m.Called()
}

// MockBookings is a mock implementation of the bridge Bookings
type MockBookings struct {
	mock.Mock
}

func (m *MockBookings) Create(ctx context.Context, in service.CreateBookingInput) (models.Booking, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *MockBookings) FetchAll(ctx context.Context, paginationToken string) ([]models.Booking, error) {
	args := m.Called(ctx, paginationToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookings) Snapshot() service.Snapshot[service.Bookings] {
	args := m.Called()
	return args.Get(0).(service.Snapshot[service.Bookings])
}

func (m *MockBookings) Reset() {
	m.Called()
}

// MockLoyalty is a mock implementation of the bridge Loyalty
type MockLoyalty struct {
	mock.Mock
}

func (m *MockLoyalty) Fetch(ctx context.Context, userID string) (models.Loyalty, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.Loyalty), args.Error(1)
}

func (m *MockLoyalty) AddPoints(ctx context.Context, delta int) (models.Loyalty, error) {
	args := m.Called(ctx, delta)
	return args.Get(0).(models.Loyalty), args.Error(1)
}

func (m *MockLoyalty) Snapshot() service.Snapshot[models.Loyalty] {
	args := m.Called()
	return args.Get(0).(service.Snapshot[models.Loyalty])
}

func (m *MockLoyalty) Reset() {
	m.Called()
}

// MockSession is a mock implementation of the bridge Session
type MockSession struct {
	mock.Mock
}

func (m *MockSession) SignIn(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockSession) UserID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockSession) Clear() {
	m.Called()
}
