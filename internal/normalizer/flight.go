package normalizer

import (
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// FlightFields resolves every flight alias in r. Absent values stay zero so
// that models.NewFlight applies its defaults.
func FlightFields(r Record) models.FlightFields {
	price, _ := TicketPrice(r)
	seats, _ := SeatCapacity(r)

	return models.FlightFields{
		ID:                   FlightID(r),
		DepartureCity:        DepartureCity(r),
		DepartureAirportCode: DepartureAirportCode(r),
		DepartureAirportName: DepartureAirportName(r),
		DepartureDate:        DepartureDate(r),
		DepartureTimezone:    DepartureTimezone(r),
		ArrivalCity:          ArrivalCity(r),
		ArrivalAirportCode:   ArrivalAirportCode(r),
		ArrivalAirportName:   ArrivalAirportName(r),
		ArrivalDate:          ArrivalDate(r),
		ArrivalTimezone:      ArrivalTimezone(r),
		TicketPrice:          price,
		TicketCurrency:       TicketCurrency(r),
		FlightNumber:         FlightNumber(r),
		SeatCapacity:         seats,
	}
}

// Flight builds a Flight from a search record. The id is required.
func Flight(r Record) (models.Flight, error) {
	fields := FlightFields(r)
	if fields.ID == "" {
		return models.Flight{}, models.NewValidationError("id", "is required for a flight")
	}
	return models.NewFlight(fields), nil
}

// Flights builds one Flight per record, failing on the first invalid record.
func Flights(records []Record) ([]models.Flight, error) {
	flights := make([]models.Flight, 0, len(records))
	for _, r := range records {
		f, err := Flight(r)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, nil
}

// MergeFlight overlays the fields present in server onto fallback, field by field.
// The server is authoritative wherever it supplied a value.
func MergeFlight(server Record, fallback models.Flight) (models.Flight, error) {
	fields := fallback.Fields()

	if server != nil {
		overlayString(&fields.ID, FlightID(server))
		overlayString(&fields.DepartureCity, DepartureCity(server))
		overlayString(&fields.DepartureAirportCode, DepartureAirportCode(server))
		overlayString(&fields.DepartureAirportName, DepartureAirportName(server))
		overlayString(&fields.DepartureDate, DepartureDate(server))
		overlayString(&fields.DepartureTimezone, DepartureTimezone(server))
		overlayString(&fields.ArrivalCity, ArrivalCity(server))
		overlayString(&fields.ArrivalAirportCode, ArrivalAirportCode(server))
		overlayString(&fields.ArrivalAirportName, ArrivalAirportName(server))
		overlayString(&fields.ArrivalDate, ArrivalDate(server))
		overlayString(&fields.ArrivalTimezone, ArrivalTimezone(server))
		overlayString(&fields.TicketCurrency, TicketCurrency(server))
		overlayString(&fields.FlightNumber, FlightNumber(server))

		if p, ok := TicketPrice(server); ok {
			fields.TicketPrice = p
		}
		if n, ok := SeatCapacity(server); ok {
			fields.SeatCapacity = n
		}
	}

	if fields.ID == "" {
		return models.Flight{}, models.NewValidationError("flight.id", "is required")
	}
	return models.NewFlight(fields), nil
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
