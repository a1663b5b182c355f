package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/flight-booking-client/internal/api/mocks"
	"github.com/cx-tal-miterani/flight-booking-client/internal/identity"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

func TestLoyaltyStore_Fetch(t *testing.T) {
	m := new(mocks.MockAPI)
	m.On("GetLoyalty", mock.Anything, "u1").Return(`{"level":"silver","points":250,"remainingPoints":750}`, nil)
	store := NewLoyaltyStore(m, WithIdentity(identity.Static("u1")))

	assert.Equal(t, models.DefaultLoyalty(), store.Snapshot().Value)

	loyalty, err := store.Fetch(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, models.LoyaltyLevelSilver, loyalty.Level)
	assert.Equal(t, 25, loyalty.Percentage)
	assert.Equal(t, "u1", loyalty.UserID)
	assert.Equal(t, loyalty, store.Snapshot().Value)
}

func TestLoyaltyStore_FetchExplicitUser(t *testing.T) {
	m := new(mocks.MockAPI)
	m.On("GetLoyalty", mock.Anything, "other").Return(`{"body":"{\"level\":\"gold\",\"userId\":\"other\"}"}`, nil)
	store := NewLoyaltyStore(m)

	loyalty, err := store.Fetch(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, "Gold", loyalty.FormattedLevel())
}

func TestLoyaltyStore_FetchUnauthenticated(t *testing.T) {
	m := new(mocks.MockAPI)
	store := NewLoyaltyStore(m)

	_, err := store.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	m.AssertNotCalled(t, "GetLoyalty", mock.Anything, mock.Anything)
}

func TestLoyaltyStore_AddPoints(t *testing.T) {
	m := new(mocks.MockAPI)
	m.On("AddLoyaltyPoints", mock.Anything, "u1", 300).
		Return(`{"level":"platinum","points":5300,"remainingPoints":0,"percentage":100}`, nil)
	store := NewLoyaltyStore(m, WithIdentity(identity.Static("u1")))

	loyalty, err := store.AddPoints(context.Background(), 300)
	require.NoError(t, err)

	assert.True(t, loyalty.IsMaxTier())
	assert.Equal(t, 5300, store.Snapshot().Value.Points)
	m.AssertExpectations(t)
}

func TestLoyaltyStore_AddPointsRejectsNonPositive(t *testing.T) {
	for _, delta := range []int{-5, 0} {
		m := new(mocks.MockAPI)
		store := NewLoyaltyStore(m, WithIdentity(identity.Static("u1")))

		_, err := store.AddPoints(context.Background(), delta)

		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "pointsToAdd", verr.Field)
		m.AssertNotCalled(t, "AddLoyaltyPoints", mock.Anything, mock.Anything, mock.Anything)
		assert.False(t, store.Loading())
	}
}

func TestLoyaltyStore_FailureKeepsRecord(t *testing.T) {
	m := new(mocks.MockAPI)
	m.On("GetLoyalty", mock.Anything, "u1").Return(`{"level":"gold","points":10}`, nil).Once()
	m.On("GetLoyalty", mock.Anything, "u1").Return(nil, &models.TransportError{StatusCode: 503, Body: "unavailable"}).Once()
	m.On("GetLoyalty", mock.Anything, "u1").Return(`[]`, nil).Once()
	store := NewLoyaltyStore(m, WithIdentity(identity.Static("u1")))

	_, err := store.Fetch(context.Background(), "")
	require.NoError(t, err)
	before := store.Snapshot()

	_, err = store.Fetch(context.Background(), "")
	assert.True(t, models.IsTransport(err))
	_, err = store.Fetch(context.Background(), "")
	assert.True(t, models.IsMalformed(err))

	assert.Equal(t, before, store.Snapshot())
}

func TestLoyaltyStore_Reset(t *testing.T) {
	m := new(mocks.MockAPI)
	m.On("GetLoyalty", mock.Anything, "u1").Return(`{"level":"gold","points":10}`, nil)
	store := NewLoyaltyStore(m, WithIdentity(identity.Static("u1")))

	_, err := store.Fetch(context.Background(), "")
	require.NoError(t, err)

	store.Reset()
	assert.Equal(t, models.DefaultLoyalty(), store.Snapshot().Value)
}
