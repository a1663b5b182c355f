package normalizer

import (
	"strings"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// bookingIdentityKeys are stripped before reading flight fields from a flat
// booking record, so the booking id is never mistaken for the flight id.
var bookingIdentityKeys = []string{"id", "bookingId", "bookingID", "bookingReference"}

// Booking builds a Booking from one record of the bookings endpoint.
// Missing id, passengers or contact email fail with a ValidationError.
func Booking(r Record) (models.Booking, error) {
	passengers := PassengerList(r)
	contact := Contact(r)

	fields := models.BookingFields{
		ID:             BookingID(r),
		Status:         BookingStatus(r),
		CustomerID:     CustomerID(r),
		OutboundFlight: models.NewFlight(FlightFields(FlightRecord(r))),
		Passengers:     passengers,
		ContactInfo:    contact,
		TotalPrice:     TotalPrice(r),
		PaymentToken:   PaymentToken(r),
	}
	if t, ok := CreatedAt(r); ok {
		fields.CreatedAt = t
	}

	return models.NewBooking(fields)
}

// Bookings builds one Booking per record, failing on the first invalid record.
func Bookings(records []Record) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0, len(records))
	for _, r := range records {
		b, err := Booking(r)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// FlightRecord returns the flight embedded in a booking record: the nested
// outboundFlight object when present, otherwise the flat booking fields.
func FlightRecord(r Record) Record {
	if nested, ok := OutboundFlight(r); ok {
		return nested
	}
	return r.without(bookingIdentityKeys...)
}

// PassengerList reads passengers given either as objects or as plain names.
func PassengerList(r Record) []models.Passenger {
	items, ok := Passengers(r)
	if !ok {
		return nil
	}

	passengers := make([]models.Passenger, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			if name := strings.TrimSpace(t); name != "" {
				passengers = append(passengers, models.Passenger{Name: name})
			}
		case map[string]any:
			p := Record(t)
			passenger := models.Passenger{
				Name:      p.String("name", "fullName"),
				FirstName: p.String("firstName", "givenName"),
				LastName:  p.String("lastName", "familyName"),
				Email:     p.String("email"),
			}
			if passenger.DisplayName() == "" && passenger.Email == "" {
				continue
			}
			passengers = append(passengers, passenger)
		}
	}
	return passengers
}

// Contact reads the nested contactInfo object, falling back to top-level aliases.
func Contact(r Record) models.ContactInfo {
	c, ok := ContactInfo(r)
	if !ok {
		c = Record{}
	}
	info := models.ContactInfo{
		Email: ContactEmail(c),
		Phone: ContactPhone(c),
		Name:  ContactName(c),
	}
	if info.Email == "" {
		info.Email = r.String("contactEmail", "customerEmail")
	}
	if info.Phone == "" {
		info.Phone = r.String("contactPhone")
	}
	return info
}
