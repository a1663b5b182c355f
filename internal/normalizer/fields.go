package normalizer

import (
	"time"
)

// Canonical field names. Each maps to the keys accepted for it, canonical key first.
const (
	FieldFlightID             = "id"
	FieldDepartureCity        = "departureCity"
	FieldDepartureAirportCode = "departureAirportCode"
	FieldDepartureAirportName = "departureAirportName"
	FieldDepartureDate        = "departureDate"
	FieldDepartureTimezone    = "departureTimezone"
	FieldArrivalCity          = "arrivalCity"
	FieldArrivalAirportCode   = "arrivalAirportCode"
	FieldArrivalAirportName   = "arrivalAirportName"
	FieldArrivalDate          = "arrivalDate"
	FieldArrivalTimezone      = "arrivalTimezone"
	FieldTicketPrice          = "ticketPrice"
	FieldTicketCurrency       = "ticketCurrency"
	FieldFlightNumber         = "flightNumber"
	FieldSeatCapacity         = "seatCapacity"

	FieldBookingID      = "bookingId"
	FieldBookingStatus  = "status"
	FieldCustomerID     = "customerId"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
	FieldOutboundFlight = "outboundFlight"
	FieldPassengers     = "passengers"
	FieldContactInfo    = "contactInfo"
	FieldContactEmail   = "email"
	FieldContactPhone   = "phone"
	FieldContactName    = "name"
	FieldTotalPrice     = "totalPrice"
	FieldPaymentToken   = "paymentToken"

	FieldLevel           = "level"
	FieldPoints          = "points"
	FieldRemainingPoints = "remainingPoints"
	FieldPercentage      = "percentage"
	FieldUserID          = "userId"

	FieldPaginationToken = "paginationToken"
	FieldSuccess         = "success"
)

// Aliases is the complete aliasing table.
var Aliases = map[string][]string{
	FieldFlightID:             {"id", "flightId", "flightID"},
	FieldDepartureCity:        {"departureCity"},
	FieldDepartureAirportCode: {"departureAirportCode", "from"},
	FieldDepartureAirportName: {"departureAirportName"},
	FieldDepartureDate:        {"departureDate", "departure"},
	FieldDepartureTimezone:    {"departureTimezone", "departureLocale"},
	FieldArrivalCity:          {"arrivalCity"},
	FieldArrivalAirportCode:   {"arrivalAirportCode", "to"},
	FieldArrivalAirportName:   {"arrivalAirportName"},
	FieldArrivalDate:          {"arrivalDate", "arrival"},
	FieldArrivalTimezone:      {"arrivalTimezone", "arrivalLocale"},
	FieldTicketPrice:          {"ticketPrice", "price"},
	FieldTicketCurrency:       {"ticketCurrency", "currency"},
	FieldFlightNumber:         {"flightNumber"},
	FieldSeatCapacity:         {"seatCapacity", "seats"},

	FieldBookingID:      {"bookingId", "bookingID", "id", "bookingReference"},
	FieldBookingStatus:  {"status", "bookingStatus"},
	FieldCustomerID:     {"customerId", "userId", "customer"},
	FieldCreatedAt:      {"createdAt"},
	FieldUpdatedAt:      {"updatedAt"},
	FieldOutboundFlight: {"outboundFlight", "flight"},
	FieldPassengers:     {"passengers"},
	FieldContactInfo:    {"contactInfo", "contact"},
	FieldContactEmail:   {"email", "contactEmail", "customerEmail"},
	FieldContactPhone:   {"phone", "contactPhone"},
	FieldContactName:    {"name", "contactName"},
	FieldTotalPrice:     {"totalPrice", "total"},
	FieldPaymentToken:   {"paymentToken", "chargeToken"},

	FieldLevel:           {"level", "tier"},
	FieldPoints:          {"points"},
	FieldRemainingPoints: {"remainingPoints"},
	FieldPercentage:      {"percentage"},
	FieldUserID:          {"userId"},

	FieldPaginationToken: {"paginationToken", "nextToken"},
	FieldSuccess:         {"success"},
}

func keys(field string) []string {
	return Aliases[field]
}

// Flight fields

func FlightID(r Record) string             { return r.String(keys(FieldFlightID)...) }
func DepartureCity(r Record) string        { return r.String(keys(FieldDepartureCity)...) }
func DepartureAirportCode(r Record) string { return r.String(keys(FieldDepartureAirportCode)...) }
func DepartureAirportName(r Record) string { return r.String(keys(FieldDepartureAirportName)...) }
func DepartureDate(r Record) string        { return r.String(keys(FieldDepartureDate)...) }
func DepartureTimezone(r Record) string    { return r.String(keys(FieldDepartureTimezone)...) }
func ArrivalCity(r Record) string          { return r.String(keys(FieldArrivalCity)...) }
func ArrivalAirportCode(r Record) string   { return r.String(keys(FieldArrivalAirportCode)...) }
func ArrivalAirportName(r Record) string   { return r.String(keys(FieldArrivalAirportName)...) }
func ArrivalDate(r Record) string          { return r.String(keys(FieldArrivalDate)...) }
func ArrivalTimezone(r Record) string      { return r.String(keys(FieldArrivalTimezone)...) }
func TicketCurrency(r Record) string       { return r.String(keys(FieldTicketCurrency)...) }
func FlightNumber(r Record) string         { return r.String(keys(FieldFlightNumber)...) }

// TicketPrice returns the price and whether a non-negative value was present.
func TicketPrice(r Record) (float64, bool) {
	p, ok := r.Float(keys(FieldTicketPrice)...)
	if !ok || p < 0 {
		return 0, false
	}
	return p, true
}

// SeatCapacity returns the capacity and whether a positive integer was present.
func SeatCapacity(r Record) (int, bool) {
	n, ok := r.Int(keys(FieldSeatCapacity)...)
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

// Booking fields

func BookingID(r Record) string     { return r.String(keys(FieldBookingID)...) }
func BookingStatus(r Record) string { return r.String(keys(FieldBookingStatus)...) }
func CustomerID(r Record) string    { return r.String(keys(FieldCustomerID)...) }
func PaymentToken(r Record) string  { return r.String(keys(FieldPaymentToken)...) }

func CreatedAt(r Record) (time.Time, bool) { return r.Time(keys(FieldCreatedAt)...) }
func UpdatedAt(r Record) (time.Time, bool) { return r.Time(keys(FieldUpdatedAt)...) }

func OutboundFlight(r Record) (Record, bool) { return r.Object(keys(FieldOutboundFlight)...) }
func ContactInfo(r Record) (Record, bool)    { return r.Object(keys(FieldContactInfo)...) }
func Passengers(r Record) ([]any, bool)      { return r.List(keys(FieldPassengers)...) }

func ContactEmail(r Record) string { return r.String(keys(FieldContactEmail)...) }
func ContactPhone(r Record) string { return r.String(keys(FieldContactPhone)...) }
func ContactName(r Record) string  { return r.String(keys(FieldContactName)...) }

// TotalPrice returns nil when the backend did not supply a usable total.
func TotalPrice(r Record) *float64 {
	p, ok := r.Float(keys(FieldTotalPrice)...)
	if !ok || p < 0 {
		return nil
	}
	return &p
}

// Loyalty fields

func Level(r Record) string  { return r.String(keys(FieldLevel)...) }
func UserID(r Record) string { return r.String(keys(FieldUserID)...) }

func Points(r Record) *int          { return optionalInt(r, FieldPoints) }
func RemainingPoints(r Record) *int { return optionalInt(r, FieldRemainingPoints) }
func Percentage(r Record) *int      { return optionalInt(r, FieldPercentage) }

func optionalInt(r Record, field string) *int {
	n, ok := r.Int(keys(field)...)
	if !ok {
		return nil
	}
	return &n
}

// Envelope fields

func PaginationToken(r Record) string { return r.String(keys(FieldPaginationToken)...) }

// Success returns the success flag and whether it was present.
func Success(r Record) (bool, bool) { return r.Bool(keys(FieldSuccess)...) }
