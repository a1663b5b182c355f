package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/cx-tal-miterani/flight-booking-client/internal/api"
	"github.com/cx-tal-miterani/flight-booking-client/internal/normalizer"
	"github.com/cx-tal-miterani/flight-booking-client/internal/schedule"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

const catalogStoreName = "catalog"

// SearchQuery selects flights by route and date. Empty fields are not sent.
type SearchQuery struct {
	From string `json:"from"`
	To   string `json:"to"`
	Date string `json:"date,omitempty"`
}

// Catalog is the searched flight collection
type Catalog struct {
	Flights   []models.Flight `json:"flights"`
	Query     SearchQuery     `json:"query"`
	NextToken string          `json:"nextToken,omitempty"`
}

func (c Catalog) clone() Catalog {
	c.Flights = append([]models.Flight(nil), c.Flights...)
	return c
}

// CatalogStore owns the flight search results
type CatalogStore struct {
	api      api.API
	settings settings
	state    *state[Catalog]
}

// NewCatalogStore creates an empty CatalogStore
func NewCatalogStore(client api.API, opts ...Option) *CatalogStore {
	s := newSettings(opts)
	return &CatalogStore{
		api:      client,
		settings: s,
		state: newState(func() Catalog { return Catalog{Flights: []models.Flight{}} },
			Catalog.clone, s.sequencing),
	}
}

// Search fetches flights for q, keeps the first occurrence of each id,
// drops flights off the requested route and replaces the held collection.
func (s *CatalogStore) Search(ctx context.Context, q SearchQuery) (flights []models.Flight, err error) {
	ctx, finish := s.settings.instrument(ctx, catalogStoreName, "search")
	defer func() { finish(err) }()

	seq := s.state.begin("search")
	defer s.state.done()

	q = SearchQuery{
		From: strings.ToUpper(strings.TrimSpace(q.From)),
		To:   strings.ToUpper(strings.TrimSpace(q.To)),
		Date: strings.TrimSpace(q.Date),
	}

	raw, err := s.api.SearchFlights(ctx, api.SearchParams{From: q.From, To: q.To, Date: q.Date})
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}

	payload, err := normalizer.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	all, err := normalizer.Flights(payload.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize flights: %w", err)
	}

	flights = lo.UniqBy(all, func(f models.Flight) string { return f.ID })
	flights = lo.Filter(flights, func(f models.Flight, _ int) bool {
		return s.onRoute(f, q)
	})

	held := append([]models.Flight(nil), flights...)
	s.state.commit("search", seq, func(Catalog) Catalog {
		return Catalog{
			Flights:   held,
			Query:     q,
			NextToken: normalizer.PaginationToken(payload.Envelope),
		}
	})

	return flights, nil
}

func (s *CatalogStore) onRoute(f models.Flight, q SearchQuery) bool {
	return matchCode(s.settings.routeMatch, f.DepartureAirportCode, q.From) &&
		matchCode(s.settings.routeMatch, f.ArrivalAirportCode, q.To)
}

func matchCode(m RouteMatch, code, want string) bool {
	if want == "" {
		return true
	}
	if m == RouteMatchContains {
		return strings.Contains(strings.ToUpper(code), want)
	}
	return strings.EqualFold(code, want)
}

// ByID looks a flight up in the unfiltered catalog. The held collection is not changed.
func (s *CatalogStore) ByID(ctx context.Context, id string) (flight models.Flight, err error) {
	ctx, finish := s.settings.instrument(ctx, catalogStoreName, "byId")
	defer func() { finish(err) }()

	s.state.begin("byId")
	defer s.state.done()

	id = strings.TrimSpace(id)
	if id == "" {
		return models.Flight{}, models.NewValidationError("flightId", "is required")
	}

	raw, err := s.api.SearchFlights(ctx, api.SearchParams{})
	if err != nil {
		return models.Flight{}, fmt.Errorf("failed to fetch flight %s: %w", id, err)
	}

	records, err := normalizer.NormalizeCollection(raw)
	if err != nil {
		return models.Flight{}, fmt.Errorf("failed to decode flight %s: %w", id, err)
	}

	record, found := lo.Find(records, func(r normalizer.Record) bool {
		return normalizer.FlightID(r) == id
	})
	if !found {
		return models.Flight{}, &models.NotFoundError{Kind: "flight", ID: id}
	}

	return normalizer.Flight(record)
}

// Filtered applies the schedule bounds to the held collection.
func (s *CatalogStore) Filtered(b schedule.Bounds) []models.Flight {
	return schedule.FilterBySchedule(s.state.snapshot().Value.Flights, b)
}

// NextToken returns the pagination token of the last search, if any.
func (s *CatalogStore) NextToken() string {
	return s.state.snapshot().Value.NextToken
}

func (s *CatalogStore) Snapshot() Snapshot[Catalog] {
	return s.state.snapshot()
}

// Subscribe registers fn for every state change and returns its cancel func.
func (s *CatalogStore) Subscribe(fn func(Snapshot[Catalog])) func() {
	return s.state.subscribe(fn)
}

func (s *CatalogStore) Loading() bool {
	return s.state.loading()
}

// Reset empties the collection.
func (s *CatalogStore) Reset() {
	s.state.reset()
}
