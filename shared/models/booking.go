package models

import (
	"strings"
	"time"
)

// BookingStatus is the reservation state reported by the backend
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// ParseBookingStatus maps a backend status onto the known set.
// Unknown or missing values are treated as confirmed.
func ParseBookingStatus(s string) BookingStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(BookingStatusPending):
		return BookingStatusPending
	case string(BookingStatusCancelled), "CANCELED":
		return BookingStatusCancelled
	default:
		return BookingStatusConfirmed
	}
}

// Passenger is a traveller listed on a booking
type Passenger struct {
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// DisplayName returns Name, or the first and last name joined.
func (p Passenger) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ContactInfo is the booking's point of contact
type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Booking represents a reservation of exactly one flight.
// OutboundFlight is a copy taken at purchase time, not a reference to the catalog.
type Booking struct {
	ID             string        `json:"id"`
	Status         BookingStatus `json:"status"`
	CustomerID     string        `json:"customerId,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	OutboundFlight Flight        `json:"outboundFlight"`
	Passengers     []Passenger   `json:"passengers"`
	ContactInfo    ContactInfo   `json:"contactInfo"`
	TotalPrice     float64       `json:"totalPrice"`
	PaymentToken   string        `json:"paymentToken,omitempty"`
}

// BookingFields is the canonical constructor input for a Booking
type BookingFields struct {
	ID             string
	Status         string
	CustomerID     string
	CreatedAt      time.Time
	OutboundFlight Flight
	Passengers     []Passenger
	ContactInfo    ContactInfo
	// TotalPrice is derived from the ticket price when nil.
	TotalPrice   *float64
	PaymentToken string
}

// NewBooking validates required fields and builds a Booking.
func NewBooking(f BookingFields) (Booking, error) {
	if strings.TrimSpace(f.ID) == "" {
		return Booking{}, NewValidationError("id", "is required")
	}
	if len(f.Passengers) == 0 {
		return Booking{}, NewValidationError("passengers", "at least one passenger is required")
	}
	if strings.TrimSpace(f.ContactInfo.Email) == "" {
		return Booking{}, NewValidationError("contactInfo.email", "is required")
	}

	passengers := make([]Passenger, len(f.Passengers))
	copy(passengers, f.Passengers)

	b := Booking{
		ID:             f.ID,
		Status:         ParseBookingStatus(f.Status),
		CustomerID:     f.CustomerID,
		CreatedAt:      f.CreatedAt,
		OutboundFlight: f.OutboundFlight,
		Passengers:     passengers,
		ContactInfo:    f.ContactInfo,
		PaymentToken:   f.PaymentToken,
	}

	if f.TotalPrice != nil && *f.TotalPrice >= 0 {
		b.TotalPrice = *f.TotalPrice
	} else {
		b.TotalPrice = f.OutboundFlight.TicketPrice * float64(len(passengers))
	}

	return b, nil
}

// Clone returns a copy that shares no memory with b.
func (b Booking) Clone() Booking {
	c := b
	c.Passengers = make([]Passenger, len(b.Passengers))
	copy(c.Passengers, b.Passengers)
	return c
}
