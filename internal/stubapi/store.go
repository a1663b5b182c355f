// Package stubapi is an in-memory stand-in for the booking REST backend.
// It reproduces the payload quirks of the real service for local
// development and integration tests.
package stubapi

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v3"
)

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrInvalidToken   = errors.New("invalid pagination token")
)

// Tier thresholds in points
var tiers = []struct {
	level string
	min   int
}{
	{"bronze", 0},
	{"silver", 1000},
	{"gold", 2500},
	{"platinum", 5000},
}

// FlightRecord is a flight as the search endpoint emits it
type FlightRecord struct {
	ID              string  `json:"id"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Departure       string  `json:"departure"`
	Arrival         string  `json:"arrival"`
	Price           float64 `json:"price"`
	Seats           int     `json:"seats"`
	DepartureLocale string  `json:"departureLocale,omitempty"`
	ArrivalLocale   string  `json:"arrivalLocale,omitempty"`
}

// PassengerRecord is a stored passenger
type PassengerRecord struct {
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// ContactRecord is a stored booking contact
type ContactRecord struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

// BookingRecord is a booking as the bookings endpoint emits it
type BookingRecord struct {
	BookingReference string            `json:"bookingReference"`
	Status           string            `json:"status"`
	UserID           string            `json:"userId"`
	OutboundFlight   FlightRecord      `json:"outboundFlight"`
	Passengers       []PassengerRecord `json:"passengers"`
	ContactInfo      ContactRecord     `json:"contactInfo"`
	TotalPrice       float64           `json:"totalPrice"`
	PaymentToken     string            `json:"paymentToken,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// LoyaltyRecord is a loyalty account. Percentage is left for the client to derive.
type LoyaltyRecord struct {
	Level           string    `json:"level"`
	Points          int       `json:"points"`
	RemainingPoints int       `json:"remainingPoints"`
	UserID          string    `json:"userId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewBooking is the input of Store.CreateBooking
type NewBooking struct {
	UserID       string
	FlightID     string
	Passengers   []PassengerRecord
	ContactInfo  ContactRecord
	PaymentToken string
}

// Store holds the stub backend data. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	flights  []FlightRecord
	bookings map[string][]BookingRecord // userID -> newest first
	loyalty  map[string]*LoyaltyRecord
	now      func() time.Time
}

// NewStore creates a Store seeded with flights
func NewStore(flights []FlightRecord) *Store {
	return &Store{
		flights:  append([]FlightRecord(nil), flights...),
		bookings: make(map[string][]BookingRecord),
		loyalty:  make(map[string]*LoyaltyRecord),
		now:      time.Now,
	}
}

// SearchFlights returns flights on the route, all flights when both codes are empty.
// A non-empty date keeps flights departing on that day.
func (s *Store) SearchFlights(from, to, date string) []FlightRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []FlightRecord
	for _, f := range s.flights {
		if from != "" && !strings.EqualFold(f.From, from) {
			continue
		}
		if to != "" && !strings.EqualFold(f.To, to) {
			continue
		}
		if date != "" && !strings.HasPrefix(f.Departure, date) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// GetFlight returns a flight by id
func (s *Store) GetFlight(id string) (FlightRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.flights {
		if f.ID == id {
			return f, nil
		}
	}
	return FlightRecord{}, fmt.Errorf("%w: %s", ErrFlightNotFound, id)
}

// CreateBooking stores a confirmed booking under a new reference
func (s *Store) CreateBooking(nb NewBooking) (BookingRecord, error) {
	flight, err := s.GetFlight(nb.FlightID)
	if err != nil {
		return BookingRecord{}, err
	}

	booking := BookingRecord{
		BookingReference: "BK-" + shortuuid.New()[:8],
		Status:           "CONFIRMED",
		UserID:           nb.UserID,
		OutboundFlight:   flight,
		Passengers:       append([]PassengerRecord(nil), nb.Passengers...),
		ContactInfo:      nb.ContactInfo,
		TotalPrice:       flight.Price * float64(len(nb.Passengers)),
		PaymentToken:     nb.PaymentToken,
		CreatedAt:        s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[nb.UserID] = append([]BookingRecord{booking}, s.bookings[nb.UserID]...)

	return booking, nil
}

// ListBookings returns one page of a user's bookings, newest first, and the
// token of the next page ("" on the last page).
func (s *Store) ListBookings(userID, token string, pageSize int) ([]BookingRecord, string, error) {
	offset := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return nil, "", ErrInvalidToken
		}
		offset = n
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.bookings[userID]
	if offset >= len(all) {
		return []BookingRecord{}, "", nil
	}

	end := len(all)
	next := ""
	if pageSize > 0 && offset+pageSize < len(all) {
		end = offset + pageSize
		next = strconv.Itoa(end)
	}

	page := make([]BookingRecord, end-offset)
	copy(page, all[offset:end])
	return page, next, nil
}

// GetLoyalty returns a user's loyalty account, creating it on first access.
func (s *Store) GetLoyalty(userID string) LoyaltyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.account(userID)
}

// AddPoints accumulates points and recomputes the tier.
func (s *Store) AddPoints(userID string, points int) LoyaltyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.account(userID)
	acc.Points += points
	acc.Level, acc.RemainingPoints = tierFor(acc.Points)
	acc.UpdatedAt = s.now().UTC()
	return *acc
}

func (s *Store) account(userID string) *LoyaltyRecord {
	acc, ok := s.loyalty[userID]
	if !ok {
		now := s.now().UTC()
		level, remaining := tierFor(0)
		acc = &LoyaltyRecord{
			Level:           level,
			RemainingPoints: remaining,
			UserID:          userID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		s.loyalty[userID] = acc
	}
	return acc
}

// tierFor returns the tier for points and the points missing to the next one.
func tierFor(points int) (string, int) {
	i := sort.Search(len(tiers), func(i int) bool { return tiers[i].min > points }) - 1
	if i < 0 {
		i = 0
	}
	if i == len(tiers)-1 {
		return tiers[i].level, 0
	}
	return tiers[i].level, tiers[i+1].min - points
}

// SampleFlights is the default catalog
func SampleFlights() []FlightRecord {
	return []FlightRecord{
		{ID: "AI101", From: "DEL", To: "BOM", Departure: "2024-01-01T08:00Z", Arrival: "2024-01-01T10:00Z", Price: 100, Seats: 150, DepartureLocale: "Asia/Kolkata", ArrivalLocale: "Asia/Kolkata"},
		{ID: "6E202", From: "DEL", To: "BOM", Departure: "2024-01-01T12:30Z", Arrival: "2024-01-01T14:40Z", Price: 85.5, Seats: 180},
		{ID: "UK303", From: "BOM", To: "BLR", Departure: "2024-01-02T06:15Z", Arrival: "2024-01-02T07:55Z", Price: 70},
		{ID: "LH760", From: "FRA", To: "DEL", Departure: "2024-01-03T13:20+01:00", Arrival: "2024-01-04T01:10+05:30", Price: 540, Seats: 300, DepartureLocale: "Europe/Berlin", ArrivalLocale: "Asia/Kolkata"},
		{ID: "BA142", From: "LHR", To: "DEL", Departure: "2024-01-03T20:40Z", Arrival: "2024-01-04T10:30+05:30", Price: 610, Seats: 250},
	}
}
