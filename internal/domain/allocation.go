package domain

import "github.com/shopspring/decimal"

// AllocationItem routes a stream count through a vendor, optionally pinned to
// one of that vendor's playlists. PlaylistID nil means a vendor-only
// allocation (used by direct vendor deals that bypass playlist placement).
type AllocationItem struct {
	PlaylistID *string
	VendorID   string
	Streams    int64
}

type MatchStrength string

const (
	MatchStrength_Strong  MatchStrength = "strong"
	MatchStrength_Good    MatchStrength = "good"
	MatchStrength_Partial MatchStrength = "partial"
)

// GenreMatch is the unbounded "match strength" badge shown next to each
// candidate playlist in the campaign intake UI. Not used by allocation logic.
type GenreMatch struct {
	PlaylistID string
	Score      int
	Strength   MatchStrength
}

// StreamProjection is the optimistic / realistic / conservative triple
// derived from an allocation total.
type StreamProjection struct {
	Optimistic   int64
	Realistic    int64
	Conservative int64
}

type CostSummary struct {
	EstimatedSpend decimal.Decimal
	SpendByVendor  map[string]decimal.Decimal
	// nil when the campaign has no budget set
	BudgetUtilization *float64
}

type AllocationInsights struct {
	ConfidenceScore float64
	Projection      StreamProjection
	Recommendations []string
	RiskFactors     []string
	Cost            CostSummary
}

// AllocationResult is the full envelope returned by the optimizer.
// MLOptimized reports which branch produced the allocations - the fallback
// from the scored path to the greedy one is a designed degradation, never an
// error.
type AllocationResult struct {
	Allocations   []AllocationItem
	GenreMatches  []GenreMatch
	Insights      AllocationInsights
	MLOptimized   bool
	MLPredictions map[string]Prediction
}

// ValidationResult accumulates every constraint violation found rather than
// stopping at the first. The caller decides whether to block submission.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

type ProjectionTotals struct {
	TotalStreams int64
	ByPlaylist   map[string]int64
	ByVendor     map[string]int64
}
