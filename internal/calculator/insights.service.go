package calculator

import (
	"fmt"
	"math"

	"streamalloc/internal/domain"
	"streamalloc/internal/util"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

const highRiskThreshold = 0.7

type InsightsInput struct {
	Goal        int64
	Allocations []domain.AllocationItem
	// per allocated item, scored path only
	Confidences []float64
	Risks       []float64
	MLOptimized bool
	// true when the candidate playlist set was empty to begin with
	NoCandidates bool
	Budget       *decimal.Decimal
	Vendors      []domain.Vendor
	Playlists    []domain.Playlist
}

// BuildInsights turns an allocation set into the summary block shown beside
// it: a confidence score, an optimistic/realistic/conservative stream triple,
// free-text recommendations, risk flags, and cost figures.
func BuildInsights(in InsightsInput) domain.AllocationInsights {
	total := int64(0)
	for _, a := range in.Allocations {
		total += a.Streams
	}

	coverage := 1.0
	if in.Goal > 0 {
		coverage = float64(total) / float64(in.Goal)
	}

	return domain.AllocationInsights{
		ConfidenceScore: confidenceScore(in, coverage),
		Projection:      projection(total, in),
		Recommendations: recommendations(in, coverage),
		RiskFactors:     riskFactors(in),
		Cost:            costSummary(in),
	}
}

func confidenceScore(in InsightsInput, coverage float64) float64 {
	if in.MLOptimized && len(in.Confidences) > 0 {
		mean, err := stats.Mean(in.Confidences)
		if err == nil {
			return util.Clamp(mean, 0.4, 0.95)
		}
	}
	// the greedy path has no per-item confidence; grade on coverage
	c := 0.6
	if coverage >= 1 {
		c += 0.15
	} else if coverage < 0.5 {
		c -= 0.1
	}
	return util.Clamp(c, 0.4, 0.95)
}

// projection spreads the allocated total into a best/expected/worst triple.
// The greedy path uses a flat +/-15%; the scored path scales the spread by
// how confident the predictions were.
func projection(total int64, in InsightsInput) domain.StreamProjection {
	spread := 0.15
	if in.MLOptimized && len(in.Confidences) > 0 {
		if mean, err := stats.Mean(in.Confidences); err == nil {
			spread = 1 - util.Clamp(mean, 0.4, 0.95)
		}
	}
	return domain.StreamProjection{
		Optimistic:   int64(math.Round(float64(total) * (1 + spread))),
		Realistic:    total,
		Conservative: int64(math.Round(float64(total) * (1 - spread))),
	}
}

func recommendations(in InsightsInput, coverage float64) []string {
	recs := []string{}
	if coverage < 1 {
		recs = append(recs, fmt.Sprintf("allocation covers %.0f%% of the stream goal - increase vendor caps or add playlists to close the gap", coverage*100))
	}
	if in.Budget != nil {
		spend := totalSpend(in)
		if spend.GreaterThan(*in.Budget) {
			recs = append(recs, fmt.Sprintf("estimated spend %s exceeds budget %s", spend.StringFixed(2), in.Budget.StringFixed(2)))
		} else {
			headroom := in.Budget.Sub(spend)
			recs = append(recs, fmt.Sprintf("estimated spend %s leaves %s of budget headroom", spend.StringFixed(2), headroom.StringFixed(2)))
		}
	}
	return recs
}

func riskFactors(in InsightsInput) []string {
	flags := []string{}
	if in.NoCandidates {
		flags = append(flags, "no playlists match the campaign genre filters")
	}
	highRisk := 0
	for _, r := range in.Risks {
		if r > highRiskThreshold {
			highRisk++
		}
	}
	if highRisk > 0 {
		flags = append(flags, fmt.Sprintf("%d high-risk allocations", highRisk))
	}
	return flags
}

// costSummary prices the allocation set against vendor rates. Pure
// reporting - allocation amounts are never cut by budget.
func costSummary(in InsightsInput) domain.CostSummary {
	ratesByVendor := map[string]decimal.Decimal{}
	for _, v := range in.Vendors {
		ratesByVendor[v.ID] = v.CostPer1k
	}
	ownerByPlaylist := map[string]string{}
	for _, p := range in.Playlists {
		ownerByPlaylist[p.ID] = p.VendorID
	}

	thousand := decimal.NewFromInt(1000)
	spendByVendor := map[string]decimal.Decimal{}
	total := decimal.Zero
	for _, a := range in.Allocations {
		vendorID := a.VendorID
		if a.PlaylistID != nil {
			if owner, ok := ownerByPlaylist[*a.PlaylistID]; ok {
				vendorID = owner
			}
		}
		rate, ok := ratesByVendor[vendorID]
		if !ok {
			continue
		}
		cost := decimal.NewFromInt(a.Streams).Div(thousand).Mul(rate)
		spendByVendor[vendorID] = spendByVendor[vendorID].Add(cost)
		total = total.Add(cost)
	}

	summary := domain.CostSummary{
		EstimatedSpend: total,
		SpendByVendor:  spendByVendor,
	}
	if in.Budget != nil && in.Budget.IsPositive() {
		utilization, _ := total.Div(*in.Budget).Float64()
		summary.BudgetUtilization = util.FloatPointer(utilization)
	}
	return summary
}

func totalSpend(in InsightsInput) decimal.Decimal {
	return costSummary(in).EstimatedSpend
}
