package schedule

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

func flight(id, dep, arr string) models.Flight {
	return models.NewFlight(models.FlightFields{ID: id, DepartureDate: dep, ArrivalDate: arr})
}

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

var flights = []models.Flight{
	flight("early", "2024-01-01T06:00:00Z", "2024-01-01T08:00:00Z"),
	flight("noon", "2024-01-01T12:00:00Z", "2024-01-01T14:00:00Z"),
	flight("broken", "not a date", "also not a date"),
	flight("late", "2024-01-01T20:00:00Z", "2024-01-01T23:30:00Z"),
}

func ids(fs []models.Flight) []string {
	return lo.Map(fs, func(f models.Flight, _ int) string { return f.ID })
}

func TestFilterBySchedule(t *testing.T) {
	tests := []struct {
		name     string
		bounds   Bounds
		expected []string
	}{
		{
			name:     "no bounds",
			bounds:   Bounds{},
			expected: []string{"early", "noon", "broken", "late"},
		},
		{
			name:     "departure after is inclusive",
			bounds:   Bounds{DepartureAfter: at("2024-01-01T12:00:00Z")},
			expected: []string{"noon", "broken", "late"},
		},
		{
			name:     "arrival before is inclusive",
			bounds:   Bounds{ArrivalBefore: at("2024-01-01T14:00:00Z")},
			expected: []string{"early", "noon", "broken"},
		},
		{
			name: "both bounds",
			bounds: Bounds{
				DepartureAfter: at("2024-01-01T07:00:00Z"),
				ArrivalBefore:  at("2024-01-01T20:00:00Z"),
			},
			expected: []string{"noon", "broken"},
		},
		{
			name: "nothing matches except unparseable",
			bounds: Bounds{
				DepartureAfter: at("2030-01-01T00:00:00Z"),
			},
			expected: []string{"broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(FilterBySchedule(flights, tt.bounds)))
		})
	}
}

func TestFilterBySchedule_Idempotent(t *testing.T) {
	bounds := []Bounds{
		{},
		{DepartureAfter: at("2024-01-01T10:00:00Z")},
		{ArrivalBefore: at("2024-01-01T10:00:00Z")},
		{DepartureAfter: at("2024-01-01T05:00:00Z"), ArrivalBefore: at("2024-01-01T15:00:00Z")},
	}

	for _, b := range bounds {
		once := FilterBySchedule(flights, b)
		assert.Equal(t, once, FilterBySchedule(once, b))
	}
}

func TestFilterBySchedule_FailOpenForAnyBound(t *testing.T) {
	broken := []models.Flight{flight("x", "", "")}

	for _, bound := range []string{"1970-01-01T00:00:00Z", "2024-06-01T00:00:00Z", "2999-12-31T23:59:59Z"} {
		out := FilterBySchedule(broken, Bounds{DepartureAfter: at(bound), ArrivalBefore: at(bound)})
		assert.Equal(t, []string{"x"}, ids(out), bound)
	}
}

func TestFilterBySchedule_DoesNotMutateInput(t *testing.T) {
	input := append([]models.Flight(nil), flights...)

	out := FilterBySchedule(input, Bounds{DepartureAfter: at("2024-01-01T12:00:00Z")})
	require.NotEmpty(t, out)
	out[0] = flight("changed", "", "")

	assert.Equal(t, flights, input)
}

func TestFilterBySchedule_OffsetTimestamps(t *testing.T) {
	// 10:00+05:30 is 04:30Z
	fs := []models.Flight{flight("ist", "2024-01-01T10:00+05:30", "2024-01-01T12:00+05:30")}

	out := FilterBySchedule(fs, Bounds{DepartureAfter: at("2024-01-01T05:00:00Z")})
	assert.Empty(t, out)
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("2024-01-01T08:00Z", "")
	require.NoError(t, err)
	require.NotNil(t, b.DepartureAfter)
	assert.Nil(t, b.ArrivalBefore)
	assert.Equal(t, 8, b.DepartureAfter.Hour())

	_, err = ParseBounds("", "tomorrow")
	assert.Error(t, err)

	b, err = ParseBounds(" ", "")
	require.NoError(t, err)
	assert.True(t, b.IsZero())
}
