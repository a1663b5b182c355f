// Package schedule filters flight collections by departure and arrival time bounds.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// Bounds limits flights by time. A nil bound is not applied.
type Bounds struct {
	DepartureAfter *time.Time
	ArrivalBefore  *time.Time
}

// IsZero reports whether no bound is set.
func (b Bounds) IsZero() bool {
	return b.DepartureAfter == nil && b.ArrivalBefore == nil
}

// FilterBySchedule keeps flights departing at or after DepartureAfter and
// arriving at or before ArrivalBefore. Flights whose timestamp cannot be
// parsed are kept. Order is preserved and the input is never modified.
func FilterBySchedule(flights []models.Flight, b Bounds) []models.Flight {
	if b.IsZero() {
		return flights
	}

	out := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if b.DepartureAfter != nil {
			if dep, ok := f.DepartureTime(); ok && dep.Before(*b.DepartureAfter) {
				continue
			}
		}
		if b.ArrivalBefore != nil {
			if arr, ok := f.ArrivalTime(); ok && arr.After(*b.ArrivalBefore) {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

// ParseBound parses a bound given as a timestamp. An empty string yields nil.
func ParseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := models.ParseTimestamp(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule bound %q: %w", s, err)
	}
	return &t, nil
}

// ParseBounds builds Bounds from the departure-after and arrival-before strings.
func ParseBounds(departureAfter, arrivalBefore string) (Bounds, error) {
	dep, err := ParseBound(departureAfter)
	if err != nil {
		return Bounds{}, err
	}
	arr, err := ParseBound(arrivalBefore)
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{DepartureAfter: dep, ArrivalBefore: arr}, nil
}
