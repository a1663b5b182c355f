package models

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookingFields() BookingFields {
	return BookingFields{
		ID:             "B1",
		OutboundFlight: NewFlight(FlightFields{ID: "F9", TicketPrice: 200}),
		Passengers: []Passenger{
			{Name: "A", Email: "a@x.com"},
			{FirstName: "Bo", LastName: "Diddley"},
		},
		ContactInfo: ContactInfo{Email: "a@x.com"},
	}
}

func TestNewBooking_DerivesTotalAndStatus(t *testing.T) {
	b, err := NewBooking(validBookingFields())
	require.NoError(t, err)

	assert.Equal(t, 400.0, b.TotalPrice)
	assert.Equal(t, BookingStatusConfirmed, b.Status)
	assert.Equal(t, "Bo Diddley", b.Passengers[1].DisplayName())
}

func TestNewBooking_SuppliedTotal(t *testing.T) {
	fields := validBookingFields()
	fields.TotalPrice = lo.ToPtr(350.0)
	fields.Status = "pending"

	b, err := NewBooking(fields)
	require.NoError(t, err)
	assert.Equal(t, 350.0, b.TotalPrice)
	assert.Equal(t, BookingStatusPending, b.Status)
}

func TestNewBooking_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingFields)
		field  string
	}{
		{"missing id", func(f *BookingFields) { f.ID = " " }, "id"},
		{"no passengers", func(f *BookingFields) { f.Passengers = nil }, "passengers"},
		{"no contact email", func(f *BookingFields) { f.ContactInfo.Email = "" }, "contactInfo.email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validBookingFields()
			tt.mutate(&fields)

			_, err := NewBooking(fields)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBooking_CloneIsIndependent(t *testing.T) {
	b, err := NewBooking(validBookingFields())
	require.NoError(t, err)

	c := b.Clone()
	c.Passengers[0].Name = "changed"
	c.OutboundFlight.TicketPrice = 1

	assert.Equal(t, "A", b.Passengers[0].Name)
	assert.Equal(t, 200.0, b.OutboundFlight.TicketPrice)
}

func TestParseBookingStatus(t *testing.T) {
	assert.Equal(t, BookingStatusCancelled, ParseBookingStatus("canceled"))
	assert.Equal(t, BookingStatusCancelled, ParseBookingStatus("CANCELLED"))
	assert.Equal(t, BookingStatusPending, ParseBookingStatus(" Pending "))
	assert.Equal(t, BookingStatusConfirmed, ParseBookingStatus("on-hold"))
	assert.Equal(t, BookingStatusConfirmed, ParseBookingStatus(""))
}
