package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/cx-tal-miterani/flight-booking-client/internal/api"
	"github.com/cx-tal-miterani/flight-booking-client/internal/identity"
	"github.com/cx-tal-miterani/flight-booking-client/internal/normalizer"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

const (
	bookingStoreName = "bookings"
	bookingsWrapper  = "bookings"
	bookingEchoKey   = "booking"
)

// CreateBookingInput describes a booking to create
type CreateBookingInput struct {
	Flight       models.Flight      `json:"outboundFlight"`
	Passengers   []models.Passenger `json:"passengers"`
	ContactInfo  models.ContactInfo `json:"contactInfo"`
	UserID       string             `json:"userId,omitempty"`
	PaymentToken string             `json:"paymentToken,omitempty"`
}

// Bookings is the held booking collection, newest first after a create
type Bookings struct {
	Items     []models.Booking `json:"items"`
	NextToken string           `json:"nextToken,omitempty"`
}

func (b Bookings) clone() Bookings {
	items := make([]models.Booking, len(b.Items))
	for i, booking := range b.Items {
		items[i] = booking.Clone()
	}
	b.Items = items
	return b
}

// BookingStore owns the signed-in user's bookings
type BookingStore struct {
	api      api.API
	settings settings
	state    *state[Bookings]
	now      func() time.Time
}

// NewBookingStore creates an empty BookingStore
func NewBookingStore(client api.API, opts ...Option) *BookingStore {
	s := newSettings(opts)
	return &BookingStore{
		api:      client,
		settings: s,
		state: newState(func() Bookings { return Bookings{Items: []models.Booking{}} },
			Bookings.clone, s.sequencing),
		now: time.Now,
	}
}

// Create books in.Flight. Required fields are checked before any network call.
// The new booking is placed first, replacing an older entry with the same id.
func (s *BookingStore) Create(ctx context.Context, in CreateBookingInput) (booking models.Booking, err error) {
	ctx, finish := s.settings.instrument(ctx, bookingStoreName, "create")
	defer func() { finish(err) }()

	req := api.NewCreateBookingRequest(in.UserID, in.Flight.ID, in.Passengers, in.ContactInfo, in.PaymentToken)
	if err := req.ValidateDetails(); err != nil {
		return models.Booking{}, err
	}

	userID, err := identity.Resolve(in.UserID, s.settings.identity)
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	req.UserID = userID
	if err := req.Validate(); err != nil {
		return models.Booking{}, err
	}

	s.state.begin("create")
	defer s.state.done()

	raw, err := s.api.CreateBooking(ctx, req)
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}

	payload, err := normalizer.DecodeObject(raw)
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to decode create booking response: %w", err)
	}

	booking, err = s.bookingFromResponse(payload.Envelope, in, userID)
	if err != nil {
		return models.Booking{}, err
	}

	held := booking.Clone()
	s.state.apply(func(b Bookings) Bookings {
		items := make([]models.Booking, 0, len(b.Items)+1)
		items = append(items, held)
		for _, existing := range b.Items {
			if existing.ID != held.ID {
				items = append(items, existing)
			}
		}
		b.Items = items
		return b
	})

	return booking, nil
}

// bookingFromResponse builds the created booking from the server echo,
// falling back to the request values field by field.
func (s *BookingStore) bookingFromResponse(envelope normalizer.Record, in CreateBookingInput, userID string) (models.Booking, error) {
	if ok, present := normalizer.Success(envelope); present && !ok {
		return models.Booking{}, &models.TransportError{
			Body: envelope.String("message", "error"),
			Err:  errors.New("backend reported an unsuccessful booking"),
		}
	}

	echo, hasEcho := envelope.Object(bookingEchoKey)
	if !hasEcho {
		echo = normalizer.Record{}
	}

	id := normalizer.BookingID(echo)
	if id == "" {
		id = normalizer.BookingID(envelope)
	}
	if id == "" {
		return models.Booking{}, &models.MalformedResponseError{Reason: "create booking response carries no booking id"}
	}

	var flightRecord normalizer.Record
	if hasEcho {
		flightRecord = normalizer.FlightRecord(echo)
	}
	flight, err := normalizer.MergeFlight(flightRecord, in.Flight)
	if err != nil {
		return models.Booking{}, err
	}

	fields := models.BookingFields{
		ID:             id,
		Status:         normalizer.BookingStatus(echo),
		CustomerID:     lo.Ternary(normalizer.CustomerID(echo) != "", normalizer.CustomerID(echo), userID),
		CreatedAt:      s.now().UTC(),
		OutboundFlight: flight,
		Passengers:     in.Passengers,
		ContactInfo:    in.ContactInfo,
		TotalPrice:     normalizer.TotalPrice(echo),
		PaymentToken:   lo.Ternary(normalizer.PaymentToken(echo) != "", normalizer.PaymentToken(echo), in.PaymentToken),
	}
	if t, ok := normalizer.CreatedAt(echo); ok {
		fields.CreatedAt = t
	}
	if passengers := normalizer.PassengerList(echo); len(passengers) > 0 {
		fields.Passengers = passengers
	}
	if contact := normalizer.Contact(echo); contact.Email != "" {
		fields.ContactInfo = contact
	}
	fields.ContactInfo.Email = strings.TrimSpace(fields.ContactInfo.Email)

	return models.NewBooking(fields)
}

// FetchAll loads the signed-in user's bookings. Without a pagination token
// the held collection is replaced; with one the page is appended and
// duplicates collapse onto the first position, keeping the latest record.
func (s *BookingStore) FetchAll(ctx context.Context, paginationToken string) (bookings []models.Booking, err error) {
	ctx, finish := s.settings.instrument(ctx, bookingStoreName, "fetchAll")
	defer func() { finish(err) }()

	userID, err := identity.Resolve("", s.settings.identity)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	seq := s.state.begin("fetchAll")
	defer s.state.done()

	paginationToken = strings.TrimSpace(paginationToken)
	raw, err := s.api.ListBookings(ctx, userID, paginationToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	payload, err := normalizer.Decode(raw, bookingsWrapper)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bookings response: %w", err)
	}
	// An envelope with no list and no booking identity, e.g. {"paginationToken":null}, is an empty page.
	if payload.Shape == normalizer.ShapeSingle && normalizer.BookingID(payload.Records[0]) == "" {
		payload.Records = nil
	}

	bookings, err = normalizer.Bookings(payload.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize bookings: %w", err)
	}

	page := make([]models.Booking, len(bookings))
	for i, b := range bookings {
		page[i] = b.Clone()
	}
	next := normalizer.PaginationToken(payload.Envelope)

	s.state.commit("fetchAll", seq, func(b Bookings) Bookings {
		if paginationToken == "" {
			return Bookings{Items: dedupeBookings(page), NextToken: next}
		}
		return Bookings{Items: dedupeBookings(append(b.Items, page...)), NextToken: next}
	})

	return bookings, nil
}

// dedupeBookings keeps each id once, at its first position, holding its last record.
func dedupeBookings(items []models.Booking) []models.Booking {
	index := make(map[string]int, len(items))
	out := make([]models.Booking, 0, len(items))
	for _, b := range items {
		if i, ok := index[b.ID]; ok {
			out[i] = b
			continue
		}
		index[b.ID] = len(out)
		out = append(out, b)
	}
	return out
}

// NextToken returns the pagination token of the last fetched page.
func (s *BookingStore) NextToken() string {
	return s.state.snapshot().Value.NextToken
}

func (s *BookingStore) Snapshot() Snapshot[Bookings] {
	return s.state.snapshot()
}

// Subscribe registers fn for every state change and returns its cancel func.
func (s *BookingStore) Subscribe(fn func(Snapshot[Bookings])) func() {
	return s.state.subscribe(fn)
}

func (s *BookingStore) Loading() bool {
	return s.state.loading()
}

// Reset empties the collection, e.g. on sign-out.
func (s *BookingStore) Reset() {
	s.state.reset()
}
