package l2_service

import (
	"fmt"
	"math"
	"sort"

	"streamalloc/internal/domain"
	"streamalloc/internal/util"
)

// PredictorService turns a feature vector into a stream forecast. This is a
// deterministic scoring pipeline shaped like a model: each stage multiplies
// the running estimate and records its net effect, so the output is fully
// explainable after the fact.
type PredictorService interface {
	Predict(fv domain.FeatureVector) domain.Prediction
}

type predictorServiceHandler struct{}

func NewPredictorService() PredictorService {
	return predictorServiceHandler{}
}

func (h predictorServiceHandler) Predict(fv domain.FeatureVector) domain.Prediction {
	factors := []domain.PredictionFactor{}

	// stage order matters: every stage multiplies the total so far, and the
	// recorded impact is the stream delta that stage introduced
	estimate := math.Max(100, float64(fv.AvgDailyStreams)*math.Pow(fv.Relevance+0.5, 2))
	factors = append(factors, domain.PredictionFactor{
		Name:        "base_volume",
		Impact:      estimate - float64(fv.AvgDailyStreams),
		Explanation: fmt.Sprintf("baseline from %d daily streams weighted by %.2f genre relevance", fv.AvgDailyStreams, fv.Relevance),
	})

	estimate = applyStage(&factors, estimate, 1+fv.Relevance*0.3,
		"genre_boost", fmt.Sprintf("genre relevance of %.2f", fv.Relevance))
	estimate = applyStage(&factors, estimate, 1+(fv.VendorReliability-0.5)*0.4,
		"vendor_reliability", fmt.Sprintf("vendor reliability of %.2f", fv.VendorReliability))
	estimate = applyStage(&factors, estimate, 1+(fv.HistoricalPerformance-0.5)*0.25,
		"historical_performance", fmt.Sprintf("past campaign score of %.2f", fv.HistoricalPerformance))
	estimate = applyStage(&factors, estimate, fv.SeasonalFactor,
		"seasonal_adjustment", fmt.Sprintf("seasonal multiplier of %.2f", fv.SeasonalFactor))

	predicted := int64(math.Round(estimate))
	if predicted < 0 {
		predicted = 0
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return math.Abs(factors[i].Impact) > math.Abs(factors[j].Impact)
	})

	return domain.Prediction{
		PredictedStreams: predicted,
		Confidence:       confidence(fv),
		Risk:             risk(fv, predicted),
		Category:         category(predicted, fv.StreamGoal),
		Factors:          factors,
	}
}

func applyStage(factors *[]domain.PredictionFactor, estimate, multiplier float64, name, reason string) float64 {
	next := estimate * multiplier
	*factors = append(*factors, domain.PredictionFactor{
		Name:        name,
		Impact:      next - estimate,
		Explanation: fmt.Sprintf("%+.0f streams from %s", next-estimate, reason),
	})
	return next
}

func confidence(fv domain.FeatureVector) float64 {
	c := 0.7
	if fv.HistoricalPerformance > 0.5 {
		c += 0.1
	}
	if fv.VendorReliability > 0.8 {
		c += 0.1
	}
	if fv.Relevance > 0.7 {
		c += 0.05
	}
	c -= fv.Competitiveness * 0.1
	return util.Clamp(c, 0.4, 0.95)
}

func risk(fv domain.FeatureVector, predicted int64) float64 {
	r := 0.2
	if fv.VendorReliability < 0.6 {
		r += 0.3
	}
	if fv.HistoricalPerformance < 0.4 {
		r += 0.2
	}
	r += fv.Competitiveness * 0.2
	// forecasts far above observed volume are suspect
	baseline := fv.AvgDailyStreams
	if baseline < 1 {
		baseline = 1
	}
	if float64(predicted)/float64(baseline) > 2 {
		r += 0.15
	}
	return util.Clamp(r, 0, 1)
}

func category(predicted, goal int64) domain.PerformanceCategory {
	if goal < 1 {
		goal = 1
	}
	ratio := float64(predicted) / float64(goal)
	switch {
	case ratio >= 1.2:
		return domain.PerformanceCategory_Excellent
	case ratio >= 0.9:
		return domain.PerformanceCategory_Good
	case ratio >= 0.6:
		return domain.PerformanceCategory_Average
	default:
		return domain.PerformanceCategory_Poor
	}
}
