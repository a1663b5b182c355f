package service

import (
	"context"
	"fmt"

	"github.com/cx-tal-miterani/flight-booking-client/internal/api"
	"github.com/cx-tal-miterani/flight-booking-client/internal/identity"
	"github.com/cx-tal-miterani/flight-booking-client/internal/normalizer"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

const (
	loyaltyStoreName = "loyalty"
	// Fetch and AddPoints both replace the whole record, so they share one sequence.
	loyaltyCommitKey = "record"
)

// LoyaltyStore owns the signed-in user's loyalty record
type LoyaltyStore struct {
	api      api.API
	settings settings
	state    *state[models.Loyalty]
}

// NewLoyaltyStore creates a LoyaltyStore holding the default record
func NewLoyaltyStore(client api.API, opts ...Option) *LoyaltyStore {
	s := newSettings(opts)
	return &LoyaltyStore{
		api:      client,
		settings: s,
		state:    newState(models.DefaultLoyalty, models.Loyalty.Clone, s.sequencing),
	}
}

// Fetch loads the loyalty record of userID, or of the signed-in user when empty.
func (s *LoyaltyStore) Fetch(ctx context.Context, userID string) (loyalty models.Loyalty, err error) {
	ctx, finish := s.settings.instrument(ctx, loyaltyStoreName, "fetch")
	defer func() { finish(err) }()

	userID, err = identity.Resolve(userID, s.settings.identity)
	if err != nil {
		return models.Loyalty{}, fmt.Errorf("failed to fetch loyalty: %w", err)
	}

	seq := s.state.begin(loyaltyCommitKey)
	defer s.state.done()

	raw, err := s.api.GetLoyalty(ctx, userID)
	if err != nil {
		return models.Loyalty{}, fmt.Errorf("failed to fetch loyalty: %w", err)
	}

	return s.replace(raw, userID, seq)
}

// AddPoints accumulates delta points for the signed-in user and replaces the
// record with the server state. delta must be positive.
func (s *LoyaltyStore) AddPoints(ctx context.Context, delta int) (loyalty models.Loyalty, err error) {
	ctx, finish := s.settings.instrument(ctx, loyaltyStoreName, "addPoints")
	defer func() { finish(err) }()

	if delta <= 0 {
		return models.Loyalty{}, models.NewValidationError("pointsToAdd", "must be a positive integer")
	}

	userID, err := identity.Resolve("", s.settings.identity)
	if err != nil {
		return models.Loyalty{}, fmt.Errorf("failed to add loyalty points: %w", err)
	}

	seq := s.state.begin(loyaltyCommitKey)
	defer s.state.done()

	raw, err := s.api.AddLoyaltyPoints(ctx, userID, delta)
	if err != nil {
		return models.Loyalty{}, fmt.Errorf("failed to add loyalty points: %w", err)
	}

	return s.replace(raw, userID, seq)
}

func (s *LoyaltyStore) replace(raw []byte, userID string, seq uint64) (models.Loyalty, error) {
	payload, err := normalizer.DecodeObject(raw)
	if err != nil {
		return models.Loyalty{}, fmt.Errorf("failed to decode loyalty response: %w", err)
	}

	loyalty := normalizer.Loyalty(payload.Records[0])
	if loyalty.UserID == "" {
		loyalty.UserID = userID
	}

	held := loyalty.Clone()
	s.state.commit(loyaltyCommitKey, seq, func(models.Loyalty) models.Loyalty { return held })

	return loyalty, nil
}

func (s *LoyaltyStore) Snapshot() Snapshot[models.Loyalty] {
	return s.state.snapshot()
}

// Subscribe registers fn for every state change and returns its cancel func.
func (s *LoyaltyStore) Subscribe(fn func(Snapshot[models.Loyalty])) func() {
	return s.state.subscribe(fn)
}

func (s *LoyaltyStore) Loading() bool {
	return s.state.loading()
}

// Reset restores the default record, e.g. on sign-out.
func (s *LoyaltyStore) Reset() {
	s.state.reset()
}
