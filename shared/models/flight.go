package models

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone     = "UTC"
	DefaultCurrency     = "EUR"
	DefaultSeatCapacity = 100

	timeLabelLayout = "15:04"
	dateLabelLayout = "02 Jan 2006"
)

// Flight represents one bookable flight leg
type Flight struct {
	ID                   string  `json:"id"`
	DepartureCity        string  `json:"departureCity"`
	DepartureAirportCode string  `json:"departureAirportCode"`
	DepartureAirportName string  `json:"departureAirportName"`
	DepartureDate        string  `json:"departureDate"`
	DepartureTimezone    string  `json:"departureTimezone"`
	ArrivalCity          string  `json:"arrivalCity"`
	ArrivalAirportCode   string  `json:"arrivalAirportCode"`
	ArrivalAirportName   string  `json:"arrivalAirportName"`
	ArrivalDate          string  `json:"arrivalDate"`
	ArrivalTimezone      string  `json:"arrivalTimezone"`
	TicketPrice          float64 `json:"ticketPrice"`
	TicketCurrency       string  `json:"ticketCurrency"`
	FlightNumber         string  `json:"flightNumber"`
	SeatCapacity         int     `json:"seatCapacity"`
}

// FlightFields is the canonical constructor input for a Flight.
// Zero values mean "absent" and resolve to the documented defaults.
type FlightFields struct {
	ID                   string
	DepartureCity        string
	DepartureAirportCode string
	DepartureAirportName string
	DepartureDate        string
	DepartureTimezone    string
	ArrivalCity          string
	ArrivalAirportCode   string
	ArrivalAirportName   string
	ArrivalDate          string
	ArrivalTimezone      string
	TicketPrice          float64
	TicketCurrency       string
	FlightNumber         string
	SeatCapacity         int
}

// NewFlight builds a Flight from normalized fields, applying defaults.
func NewFlight(f FlightFields) Flight {
	flight := Flight{
		ID:                   f.ID,
		DepartureCity:        f.DepartureCity,
		DepartureAirportCode: f.DepartureAirportCode,
		DepartureAirportName: f.DepartureAirportName,
		DepartureDate:        f.DepartureDate,
		DepartureTimezone:    strings.TrimSpace(f.DepartureTimezone),
		ArrivalCity:          f.ArrivalCity,
		ArrivalAirportCode:   f.ArrivalAirportCode,
		ArrivalAirportName:   f.ArrivalAirportName,
		ArrivalDate:          f.ArrivalDate,
		ArrivalTimezone:      strings.TrimSpace(f.ArrivalTimezone),
		TicketPrice:          f.TicketPrice,
		TicketCurrency:       strings.ToUpper(strings.TrimSpace(f.TicketCurrency)),
		FlightNumber:         f.FlightNumber,
		SeatCapacity:         f.SeatCapacity,
	}

	if flight.DepartureTimezone == "" {
		flight.DepartureTimezone = DefaultTimezone
	}
	if flight.ArrivalTimezone == "" {
		flight.ArrivalTimezone = DefaultTimezone
	}
	if flight.DepartureAirportName == "" {
		flight.DepartureAirportName = flight.DepartureAirportCode
	}
	if flight.ArrivalAirportName == "" {
		flight.ArrivalAirportName = flight.ArrivalAirportCode
	}
	if flight.TicketPrice < 0 {
		flight.TicketPrice = 0
	}
	if flight.TicketCurrency == "" {
		flight.TicketCurrency = DefaultCurrency
	}
	if flight.FlightNumber == "" {
		flight.FlightNumber = flight.ID
	}
	if flight.SeatCapacity <= 0 {
		flight.SeatCapacity = DefaultSeatCapacity
	}

	return flight
}

// Fields returns the constructor input that rebuilds f.
func (f Flight) Fields() FlightFields {
	return FlightFields{
		ID:                   f.ID,
		DepartureCity:        f.DepartureCity,
		DepartureAirportCode: f.DepartureAirportCode,
		DepartureAirportName: f.DepartureAirportName,
		DepartureDate:        f.DepartureDate,
		DepartureTimezone:    f.DepartureTimezone,
		ArrivalCity:          f.ArrivalCity,
		ArrivalAirportCode:   f.ArrivalAirportCode,
		ArrivalAirportName:   f.ArrivalAirportName,
		ArrivalDate:          f.ArrivalDate,
		ArrivalTimezone:      f.ArrivalTimezone,
		TicketPrice:          f.TicketPrice,
		TicketCurrency:       f.TicketCurrency,
		FlightNumber:         f.FlightNumber,
		SeatCapacity:         f.SeatCapacity,
	}
}

// DepartureTime returns the parsed departure instant.
func (f Flight) DepartureTime() (time.Time, bool) {
	t, err := ParseTimestamp(f.DepartureDate)
	return t, err == nil
}

// ArrivalTime returns the parsed arrival instant.
func (f Flight) ArrivalTime() (time.Time, bool) {
	t, err := ParseTimestamp(f.ArrivalDate)
	return t, err == nil
}

// DurationLabel renders the absolute time between departure and arrival as "2h5m".
// Backend data may have arrival before departure, so the difference is never negative.
func (f Flight) DurationLabel() string {
	dep, ok := f.DepartureTime()
	if !ok {
		return "0h0m"
	}
	arr, ok := f.ArrivalTime()
	if !ok {
		return "0h0m"
	}

	diff := arr.Sub(dep)
	if arr.Before(dep) {
		diff = dep.Sub(arr)
	}

	minutes := int(diff / time.Minute)
	return fmt.Sprintf("%dh%dm", minutes/60, minutes%60)
}

// DepartureTimeLabel renders the departure wall-clock time in the departure timezone.
func (f Flight) DepartureTimeLabel() string {
	t, ok := f.DepartureTime()
	if !ok {
		return ""
	}
	return inZone(t, f.DepartureTimezone).Format(timeLabelLayout)
}

// ArrivalTimeLabel renders the arrival wall-clock time in the arrival timezone.
func (f Flight) ArrivalTimeLabel() string {
	t, ok := f.ArrivalTime()
	if !ok {
		return ""
	}
	return inZone(t, f.ArrivalTimezone).Format(timeLabelLayout)
}

// DepartureDateLabel renders the departure calendar date as "01 Jan 2024".
func (f Flight) DepartureDateLabel() string {
	t, ok := f.DepartureTime()
	if !ok {
		return ""
	}
	return inZone(t, f.DepartureTimezone).Format(dateLabelLayout)
}

func inZone(t time.Time, zone string) time.Time {
	if zone == "" || strings.EqualFold(zone, DefaultTimezone) {
		return t.UTC()
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return t.UTC()
	}
	return t.In(loc)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp layouts observed in backend payloads.
// Layouts without an offset are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp %q", value)
}
