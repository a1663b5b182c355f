package models

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestNewLoyalty_Defaults(t *testing.T) {
	l := NewLoyalty(LoyaltyFields{})

	assert.Equal(t, LoyaltyLevelBronze, l.Level)
	assert.Equal(t, 0, l.Points)
	assert.Equal(t, DefaultRemainingPoints, l.RemainingPoints)
	assert.Equal(t, 0, l.Percentage)
	assert.Equal(t, DefaultLoyalty(), l)
}

func TestNewLoyalty_ZeroPointsAndRemaining(t *testing.T) {
	l := NewLoyalty(LoyaltyFields{Points: lo.ToPtr(0), RemainingPoints: lo.ToPtr(0)})

	assert.Equal(t, 0, l.Percentage)
	assert.False(t, l.IsMaxTier())

	top := NewLoyalty(LoyaltyFields{Level: "platinum", Points: lo.ToPtr(0), RemainingPoints: lo.ToPtr(0)})
	assert.True(t, top.IsMaxTier())
}

func TestNewLoyalty_Percentage(t *testing.T) {
	tests := []struct {
		name     string
		fields   LoyaltyFields
		expected int
	}{
		{"derived", LoyaltyFields{Points: lo.ToPtr(250), RemainingPoints: lo.ToPtr(750)}, 25},
		{"derived rounds up", LoyaltyFields{Points: lo.ToPtr(1), RemainingPoints: lo.ToPtr(999)}, 1},
		{"derived exact seven", LoyaltyFields{Points: lo.ToPtr(7), RemainingPoints: lo.ToPtr(93)}, 7},
		{"nothing remaining", LoyaltyFields{Points: lo.ToPtr(40), RemainingPoints: lo.ToPtr(0)}, 100},
		{"supplied", LoyaltyFields{Points: lo.ToPtr(250), RemainingPoints: lo.ToPtr(750), Percentage: lo.ToPtr(30)}, 30},
		{"supplied zero kept", LoyaltyFields{Points: lo.ToPtr(250), RemainingPoints: lo.ToPtr(750), Percentage: lo.ToPtr(0)}, 0},
		{"supplied above range", LoyaltyFields{Percentage: lo.ToPtr(140)}, 100},
		{"supplied below range", LoyaltyFields{Percentage: lo.ToPtr(-3)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewLoyalty(tt.fields).Percentage)
		})
	}
}

func TestCalculatePercentage_Bounds(t *testing.T) {
	for points := 0; points <= 300; points += 7 {
		for remaining := 0; remaining <= 300; remaining += 11 {
			p := CalculatePercentage(points, remaining)
			assert.GreaterOrEqual(t, p, 0)
			assert.LessOrEqual(t, p, 100)

			if points+remaining == 0 {
				assert.Equal(t, 0, p)
				continue
			}
			// ceil(a/b) == smallest n with n*b >= a
			total := points + remaining
			assert.GreaterOrEqual(t, p*total, points*100)
			assert.Less(t, (p-1)*total, points*100)
		}
	}
}

func TestNewLoyalty_NegativeValuesUseDefaults(t *testing.T) {
	l := NewLoyalty(LoyaltyFields{Level: "Diamond", Points: lo.ToPtr(-10), RemainingPoints: lo.ToPtr(-1)})

	assert.Equal(t, LoyaltyLevelBronze, l.Level)
	assert.Equal(t, 0, l.Points)
	assert.Equal(t, DefaultRemainingPoints, l.RemainingPoints)
}

func TestLoyalty_FormattedLevel(t *testing.T) {
	assert.Equal(t, "Gold", NewLoyalty(LoyaltyFields{Level: "GOLD"}).FormattedLevel())
	assert.Equal(t, "Bronze", DefaultLoyalty().FormattedLevel())
}
