package domain

import "github.com/shopspring/decimal"

// FeatureVector is the fixed set of inputs the predictor consumes for one
// (playlist, vendor, campaign) triple. Every field is computed at extraction
// time and never mutated afterwards.
type FeatureVector struct {
	PlaylistID      string
	Relevance       float64
	AvgDailyStreams int64
	VolumeScore     float64
	FollowerCount   int64

	VendorReliability  float64
	VendorAccuracy     float64
	VendorUtilization  float64
	VendorResponseTime float64

	HistoricalPerformance float64
	SeasonalFactor        float64
	PlaylistAgeDays       int

	// campaign context
	Budget          *decimal.Decimal
	DurationDays    int
	StreamGoal      int64
	CampaignGenres  []string
	Competitiveness float64
}

type PerformanceCategory string

const (
	PerformanceCategory_Excellent PerformanceCategory = "excellent"
	PerformanceCategory_Good      PerformanceCategory = "good"
	PerformanceCategory_Average   PerformanceCategory = "average"
	PerformanceCategory_Poor      PerformanceCategory = "poor"
)

// PredictionFactor records the net effect one pipeline step had on the
// predicted stream count, so a flat "here's why" list can be shown next to
// the number.
type PredictionFactor struct {
	Name        string
	Impact      float64
	Explanation string
}

type Prediction struct {
	PredictedStreams int64
	Confidence       float64
	Risk             float64
	Category         PerformanceCategory
	// sorted by |Impact| descending
	Factors []PredictionFactor
}
