package models

import (
	"strings"
	"time"
)

// LoyaltyLevel is a loyalty programme tier
type LoyaltyLevel string

const (
	LoyaltyLevelBronze   LoyaltyLevel = "bronze"
	LoyaltyLevelSilver   LoyaltyLevel = "silver"
	LoyaltyLevelGold     LoyaltyLevel = "gold"
	LoyaltyLevelPlatinum LoyaltyLevel = "platinum"

	DefaultRemainingPoints = 1000
)

// ParseLoyaltyLevel maps a backend tier name onto the known tiers, defaulting to bronze.
func ParseLoyaltyLevel(s string) LoyaltyLevel {
	switch LoyaltyLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LoyaltyLevelSilver:
		return LoyaltyLevelSilver
	case LoyaltyLevelGold:
		return LoyaltyLevelGold
	case LoyaltyLevelPlatinum:
		return LoyaltyLevelPlatinum
	default:
		return LoyaltyLevelBronze
	}
}

// Loyalty is a user's loyalty programme status
type Loyalty struct {
	Level           LoyaltyLevel `json:"level"`
	Points          int          `json:"points"`
	RemainingPoints int          `json:"remainingPoints"`
	Percentage      int          `json:"percentage"`
	UserID          string       `json:"userId,omitempty"`
	CreatedAt       *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time   `json:"updatedAt,omitempty"`
}

// LoyaltyFields is the canonical constructor input for a Loyalty record.
// Nil pointers mean the backend did not supply the value.
type LoyaltyFields struct {
	Level           string
	Points          *int
	RemainingPoints *int
	Percentage      *int
	UserID          string
	CreatedAt       *time.Time
	UpdatedAt       *time.Time
}

// NewLoyalty applies defaults and derives the percentage when it is absent.
func NewLoyalty(f LoyaltyFields) Loyalty {
	l := Loyalty{
		Level:           ParseLoyaltyLevel(f.Level),
		Points:          0,
		RemainingPoints: DefaultRemainingPoints,
		UserID:          f.UserID,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}

	if f.Points != nil && *f.Points >= 0 {
		l.Points = *f.Points
	}
	if f.RemainingPoints != nil && *f.RemainingPoints >= 0 {
		l.RemainingPoints = *f.RemainingPoints
	}

	if f.Percentage != nil {
		l.Percentage = clampPercentage(*f.Percentage)
	} else {
		l.Percentage = CalculatePercentage(l.Points, l.RemainingPoints)
	}

	return l
}

// DefaultLoyalty is the state of a user with no loyalty history.
func DefaultLoyalty() Loyalty {
	return NewLoyalty(LoyaltyFields{})
}

// CalculatePercentage returns ceil(points / (points + remaining) * 100).
// Integer arithmetic keeps the ceiling exact; both zero yields 0.
func CalculatePercentage(points, remaining int) int {
	if points < 0 {
		points = 0
	}
	if remaining < 0 {
		remaining = 0
	}
	total := points + remaining
	if total == 0 {
		return 0
	}
	return clampPercentage((points*100 + total - 1) / total)
}

func clampPercentage(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// FormattedLevel returns the tier name capitalised, e.g. "Gold".
func (l Loyalty) FormattedLevel() string {
	s := string(l.Level)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsMaxTier reports whether the user sits at the top tier with nothing left to earn.
func (l Loyalty) IsMaxTier() bool {
	return l.Level == LoyaltyLevelPlatinum && l.RemainingPoints == 0
}

// Clone returns a copy that shares no memory with l.
func (l Loyalty) Clone() Loyalty {
	c := l
	if l.CreatedAt != nil {
		t := *l.CreatedAt
		c.CreatedAt = &t
	}
	if l.UpdatedAt != nil {
		t := *l.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}
