package l2_service

import (
	"testing"

	"streamalloc/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestEvaluateScoreExpression(t *testing.T) {
	fv := domain.FeatureVector{
		Relevance:             0.7,
		VolumeScore:           0.5,
		VendorReliability:     0.8,
		HistoricalPerformance: 0.6,
		SeasonalFactor:        1.2,
		Competitiveness:       0.4,
		FollowerCount:         20000,
		AvgDailyStreams:       10000,
	}

	t.Run("evaluates arithmetic over feature variables", func(t *testing.T) {
		got, err := EvaluateScoreExpression("relevance * 2 + volumeScore", fv)
		require.NoError(t, err)
		require.InDelta(t, 1.9, got, 1e-9)
	})

	t.Run("helper functions work", func(t *testing.T) {
		got, err := EvaluateScoreExpression("max(relevance, volumeScore)", fv)
		require.NoError(t, err)
		require.InDelta(t, 0.7, got, 1e-9)

		got, err = EvaluateScoreExpression("clamp(avgDailyStreams / 1000, 0, 5)", fv)
		require.NoError(t, err)
		require.InDelta(t, 5.0, got, 1e-9)
	})

	t.Run("malformed expression errors", func(t *testing.T) {
		_, err := EvaluateScoreExpression("relevance +", fv)
		require.Error(t, err)
	})

	t.Run("unknown variable errors", func(t *testing.T) {
		_, err := EvaluateScoreExpression("tempo * 2", fv)
		require.Error(t, err)
	})

	t.Run("non-numeric result errors", func(t *testing.T) {
		_, err := EvaluateScoreExpression(`"high"`, fv)
		require.Error(t, err)
	})
}
