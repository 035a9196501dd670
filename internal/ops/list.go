package ops

import (
	"time"

	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/tenure"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Query string    // optional, blank lists everything
	AsOf  time.Time // optional, default: now
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Query string `json:"query"`
	Items []Card `json:"items"`
	Stats Stats  `json:"stats"`
	Empty bool   `json:"empty"`
}

// List filters the directory by query and renders the matching cards.
func List(store *directory.Store, input ListInput) *ListOutput {
	v := Project(directory.NewState(store).Search(input.Query), asOfOrNow(input.AsOf), "")
	return &ListOutput{
		Query: v.Query,
		Items: v.Items,
		Stats: v.Stats,
		Empty: v.Empty,
	}
}

// StatsInput contains parameters for the Stats operation.
type StatsInput struct {
	Query string
	AsOf  time.Time
}

// StatsOutput contains the result of the Stats operation.
type StatsOutput struct {
	Stats
	Query  string              `json:"query"`
	ByTier map[tenure.Tier]int `json:"by_tier"` // tiers of the filtered records
}

// GetStats returns the directory counters for query along with a per-tier breakdown.
func GetStats(store *directory.Store, input StatsInput) *StatsOutput {
	out := List(store, ListInput(input))
	return &StatsOutput{
		Stats:  out.Stats,
		Query:  out.Query,
		ByTier: TierCounts(out.Items),
	}
}
