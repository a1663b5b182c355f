package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/flight-booking-client/internal/identity"
	"github.com/cx-tal-miterani/flight-booking-client/internal/schedule"
	"github.com/cx-tal-miterani/flight-booking-client/internal/service"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// Catalog is the flight search store used by the bridge
type Catalog interface {
	Search(ctx context.Context, q service.SearchQuery) ([]models.Flight, error)
	ByID(ctx context.Context, id string) (models.Flight, error)
	Filtered(b schedule.Bounds) []models.Flight
	Snapshot() service.Snapshot[service.Catalog]
	Reset()
}

// Bookings is the booking store used by the bridge
type Bookings interface {
	Create(ctx context.Context, in service.CreateBookingInput) (models.Booking, error)
	FetchAll(ctx context.Context, paginationToken string) ([]models.Booking, error)
	Snapshot() service.Snapshot[service.Bookings]
	Reset()
}

// Loyalty is the loyalty store used by the bridge
type Loyalty interface {
	Fetch(ctx context.Context, userID string) (models.Loyalty, error)
	AddPoints(ctx context.Context, delta int) (models.Loyalty, error)
	Snapshot() service.Snapshot[models.Loyalty]
	Reset()
}

// Session holds the signed-in identity
type Session interface {
	SignIn(token string) error
	UserID() (string, error)
	Clear()
}

var (
	_ Catalog  = (*service.CatalogStore)(nil)
	_ Bookings = (*service.BookingStore)(nil)
	_ Loyalty  = (*service.LoyaltyStore)(nil)
	_ Session  = (*identity.Session)(nil)
)

// Handler contains HTTP handlers for the local bridge
type Handler struct {
	catalog  Catalog
	bookings Bookings
	loyalty  Loyalty
	session  Session
	log      logrus.FieldLogger
}

// NewHandler creates a new Handler instance
func NewHandler(catalog Catalog, bookings Bookings, loyalty Loyalty, session Session, log logrus.FieldLogger) *Handler {
	return &Handler{
		catalog:  catalog,
		bookings: bookings,
		loyalty:  loyalty,
		session:  session,
		log:      log,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// StatusFor maps a store error onto an HTTP status
func StatusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case models.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case models.IsTransport(err), models.IsMalformed(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	entry := h.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
	respondError(w, status, err.Error())
}

// SearchFlights handles GET /api/flights
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	bounds, err := schedule.ParseBounds(q.Get("departureAfter"), q.Get("arrivalBefore"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	flights, err := h.catalog.Search(r.Context(), service.SearchQuery{
		From: q.Get("from"),
		To:   q.Get("to"),
		Date: q.Get("date"),
	})
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	if !bounds.IsZero() {
		flights = schedule.FilterBySchedule(flights, bounds)
	}
	respondJSON(w, http.StatusOK, flights)
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flightID := chi.URLParam(r, "id")
	flight, err := h.catalog.ByID(r.Context(), flightID)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, flight)
}

// GetCatalog handles GET /api/catalog. Schedule bounds in the query
// narrow the held flights without a new search.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bounds, err := schedule.ParseBounds(q.Get("departureAfter"), q.Get("arrivalBefore"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.catalog.Snapshot()
	if !bounds.IsZero() {
		snap.Value.Flights = h.catalog.Filtered(bounds)
	}
	respondJSON(w, http.StatusOK, snap)
}

// CreateBookingRequest is the body of POST /api/bookings. The flight is
// given in full as outboundFlight or looked up by flightId.
type CreateBookingRequest struct {
	service.CreateBookingInput
	FlightID string `json:"flightId,omitempty"`
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in := req.CreateBookingInput
	if in.Flight.ID == "" && req.FlightID != "" {
		flight, err := h.resolveFlight(r.Context(), req.FlightID)
		if err != nil {
			h.respondStoreError(w, r, err)
			return
		}
		in.Flight = flight
	}

	booking, err := h.bookings.Create(r.Context(), in)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	h.log.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"flight_id":  booking.OutboundFlight.ID,
	}).Info("Booking created")

	respondJSON(w, http.StatusCreated, booking)
}

// resolveFlight prefers the held search results over a new search.
func (h *Handler) resolveFlight(ctx context.Context, id string) (models.Flight, error) {
	held := h.catalog.Snapshot().Value.Flights
	if flight, ok := lo.Find(held, func(f models.Flight) bool { return f.ID == id }); ok {
		return flight, nil
	}
	return h.catalog.ByID(ctx, id)
}

// ListBookings handles GET /api/bookings
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	if _, err := h.bookings.FetchAll(r.Context(), r.URL.Query().Get("paginationToken")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.bookings.Snapshot().Value)
}

// GetLoyalty handles GET /api/loyalty
func (h *Handler) GetLoyalty(w http.ResponseWriter, r *http.Request) {
	loyalty, err := h.loyalty.Fetch(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loyalty)
}

// AddPointsRequest is the body of POST /api/loyalty/points
type AddPointsRequest struct {
	PointsToAdd int `json:"pointsToAdd"`
}

// AddLoyaltyPoints handles POST /api/loyalty/points
func (h *Handler) AddLoyaltyPoints(w http.ResponseWriter, r *http.Request) {
	var req AddPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	loyalty, err := h.loyalty.AddPoints(r.Context(), req.PointsToAdd)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loyalty)
}

// SignInRequest is the body of POST /api/session
type SignInRequest struct {
	Token string `json:"token"`
}

// SignIn handles POST /api/session
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.session.SignIn(req.Token); err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	userID, err := h.session.UserID()
	if err != nil {
		h.session.Clear()
		h.respondStoreError(w, r, err)
		return
	}

	h.log.WithField("user_id", userID).Info("Signed in")
	respondJSON(w, http.StatusOK, map[string]string{"userId": userID})
}

// SignOut handles DELETE /api/session. Every store drops the previous
// user's data.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.session.Clear()
	h.catalog.Reset()
	h.bookings.Reset()
	h.loyalty.Reset()

	h.log.Info("Signed out")
	w.WriteHeader(http.StatusNoContent)
}
