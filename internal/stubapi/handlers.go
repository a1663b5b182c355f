package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cx-tal-miterani/flight-booking-client/internal/api"
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// SearchShape selects how the search endpoint wraps its results
type SearchShape string

const (
	ShapeStringBody SearchShape = "string-body"
	ShapeBodyArray  SearchShape = "body-array"
	ShapeArray      SearchShape = "array"
	ShapeItems      SearchShape = "items"

	DefaultPageSize = 10
)

// ParseSearchShape validates a shape name.
func ParseSearchShape(s string) (SearchShape, error) {
	switch shape := SearchShape(strings.ToLower(strings.TrimSpace(s))); shape {
	case ShapeStringBody, ShapeBodyArray, ShapeArray, ShapeItems:
		return shape, nil
	case "":
		return ShapeStringBody, nil
	default:
		return "", errors.New("unknown search shape: " + s)
	}
}

// Options tune the stub's payload quirks
type Options struct {
	SearchShape SearchShape
	// DuplicateResults emits every search result twice.
	DuplicateResults bool
	PageSize         int
}

// Handler contains the stub backend HTTP handlers
type Handler struct {
	store *Store
	opts  Options
	log   logrus.FieldLogger
}

// NewHandler creates a new Handler instance
func NewHandler(store *Store, opts Options, log logrus.FieldLogger) *Handler {
	if opts.SearchShape == "" {
		opts.SearchShape = ShapeStringBody
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Handler{store: store, opts: opts, log: log}
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
	respondJSON(w, status, map[string]string{"message": message})
}

// Search handles GET /search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flights := h.store.SearchFlights(q.Get("from"), q.Get("to"), q.Get("date"))
	if flights == nil {
		flights = []FlightRecord{}
	}

	if h.opts.DuplicateResults {
		doubled := make([]FlightRecord, 0, 2*len(flights))
		for _, f := range flights {
			doubled = append(doubled, f, f)
		}
		flights = doubled
	}

	switch h.opts.SearchShape {
	case ShapeArray:
		respondJSON(w, http.StatusOK, flights)
	case ShapeItems:
		respondJSON(w, http.StatusOK, map[string]any{"Items": flights, "Count": len(flights)})
	case ShapeBodyArray:
		respondJSON(w, http.StatusOK, map[string]any{"statusCode": http.StatusOK, "body": flights})
	default:
		body, err := json.Marshal(flights)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to encode flights")
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"statusCode": http.StatusOK, "body": string(body)})
	}
}

// CreateBooking handles POST /booking
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	nb := NewBooking{
		UserID:   req.UserID,
		FlightID: req.FlightID,
		ContactInfo: ContactRecord{
			Email: req.ContactInfo.Email,
			Phone: req.ContactInfo.Phone,
			Name:  req.ContactInfo.Name,
		},
		PaymentToken: req.PaymentToken,
	}
	for _, p := range req.Passengers {
		nb.Passengers = append(nb.Passengers, PassengerRecord(p))
	}

	booking, err := h.store.CreateBooking(nb)
	if errors.Is(err, ErrFlightNotFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.WithFields(logrus.Fields{
		"booking_reference": booking.BookingReference,
		"user_id":           booking.UserID,
		"flight_id":         booking.OutboundFlight.ID,
	}).Info("Booking created")

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"bookingId": booking.BookingReference,
		"booking":   booking,
	})
}

// ListBookings handles GET /bookings
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	page, next, err := h.store.ListBookings(userID, q.Get("paginationToken"), h.opts.PageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var token *string
	if next != "" {
		token = &next
	}
	respondJSON(w, http.StatusOK, map[string]any{"bookings": page, "paginationToken": token})
}

// GetLoyalty handles GET /loyalty
func (h *Handler) GetLoyalty(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	respondJSON(w, http.StatusOK, h.store.GetLoyalty(userID))
}

// AddLoyaltyPoints handles POST /loyalty
func (h *Handler) AddLoyaltyPoints(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	var req api.AddPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PointsToAdd <= 0 {
		respondError(w, http.StatusBadRequest, models.NewValidationError("pointsToAdd", "must be a positive integer").Error())
		return
	}

	loyalty := h.store.AddPoints(userID, req.PointsToAdd)
	h.log.WithFields(logrus.Fields{
		"user_id": userID,
		"points":  loyalty.Points,
		"level":   loyalty.Level,
	}).Info("Loyalty points added")

	respondJSON(w, http.StatusOK, loyalty)
}
