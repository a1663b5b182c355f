package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cx-tal-miterani/flight-booking-client/internal/api"
)

// MockAPI is a mock implementation of api.API
type MockAPI struct {
	mock.Mock
}

var _ api.API = (*MockAPI)(nil)

func (m *MockAPI) SearchFlights(ctx context.Context, params api.SearchParams) ([]byte, error) {
	args := m.Called(ctx, params)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockAPI) CreateBooking(ctx context.Context, req api.CreateBookingRequest) ([]byte, error) {
	args := m.Called(ctx, req)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockAPI) ListBookings(ctx context.Context, userID, paginationToken string) ([]byte, error) {
	args := m.Called(ctx, userID, paginationToken)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockAPI) GetLoyalty(ctx context.Context, userID string) ([]byte, error) {
	args := m.Called(ctx, userID)
	return bytesArg(args, 0), args.Error(1)
}

func (m *MockAPI) AddLoyaltyPoints(ctx context.Context, userID string, pointsToAdd int) ([]byte, error) {
	args := m.Called(ctx, userID, pointsToAdd)
	return bytesArg(args, 0), args.Error(1)
}

// bytesArg accepts a []byte or a string return value.
func bytesArg(args mock.Arguments, i int) []byte {
	switch v := args.Get(i).(type) {
	case nil:
		return nil
	case string:
		return []byte(v)
	default:
		return v.([]byte)
	}
}
