package normalizer

import (
	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// Loyalty builds the loyalty record. Every field is optional and defaulted.
func Loyalty(r Record) models.Loyalty {
	fields := models.LoyaltyFields{
		Level:           Level(r),
		Points:          Points(r),
		RemainingPoints: RemainingPoints(r),
		Percentage:      Percentage(r),
		UserID:          UserID(r),
	}
	if t, ok := CreatedAt(r); ok {
		fields.CreatedAt = &t
	}
	if t, ok := UpdatedAt(r); ok {
		fields.UpdatedAt = &t
	}
	return models.NewLoyalty(fields)
}
