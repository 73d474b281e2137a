package prizes

import "github.com/ArowuTest/wagerspin-backend/internal/models"

// DefaultTables holds the launch prize tables per spin tier. Admins can
// replace these through the system config; every replacement is validated
// with Validate before it is accepted.
var DefaultTables = map[string]Table{
	models.TierBronze: {
		{Label: "No win", Value: 0, Color: "#6b7280", Probability: 60},
		{Label: "$1", Value: 1, Color: "#cd7f32", Probability: 25},
		{Label: "$5", Value: 5, Color: "#cd7f32", Probability: 10},
		{Label: "$10", Value: 10, Color: "#f59e0b", Probability: 4},
		{Label: "$50", Value: 50, Color: "#ef4444", Probability: 1},
	},
	models.TierSilver: {
		{Label: "No win", Value: 0, Color: "#6b7280", Probability: 55},
		{Label: "$5", Value: 5, Color: "#c0c0c0", Probability: 25},
		{Label: "$20", Value: 20, Color: "#c0c0c0", Probability: 13},
		{Label: "$50", Value: 50, Color: "#f59e0b", Probability: 5},
		{Label: "$250", Value: 250, Color: "#ef4444", Probability: 2},
	},
	models.TierGold: {
		{Label: "No win", Value: 0, Color: "#6b7280", Probability: 50},
		{Label: "$20", Value: 20, Color: "#ffd700", Probability: 25},
		{Label: "$100", Value: 100, Color: "#ffd700", Probability: 15},
		{Label: "$500", Value: 500, Color: "#f59e0b", Probability: 8},
		{Label: "$2500", Value: 2500, Color: "#ef4444", Probability: 2},
	},
}

// Tiers lists the spin tiers in ascending order of prize value
var Tiers = []string{models.TierBronze, models.TierSilver, models.TierGold}

// IsKnownTier reports whether the tier has a default table
func IsKnownTier(tier string) bool {
	_, ok := DefaultTables[tier]
	return ok
}
