package l2_service

import (
	"fmt"
	"math"

	"streamalloc/internal/domain"

	"github.com/maja42/goval"
)

// EvaluateScoreExpression runs a caller-supplied ranking expression against
// one playlist's feature vector. Operators use these to override the built-in
// optimization score ("relevance * 2 + volumeScore", that kind of thing) when
// dry-running a campaign. Only ranking is affected; capacity bookkeeping
// never consults the expression.
func EvaluateScoreExpression(expression string, fv domain.FeatureVector) (float64, error) {
	eval := goval.NewEvaluator()
	variables := map[string]interface{}{
		"relevance":             fv.Relevance,
		"volumeScore":           fv.VolumeScore,
		"reliability":           fv.VendorReliability,
		"historicalPerformance": fv.HistoricalPerformance,
		"seasonalFactor":        fv.SeasonalFactor,
		"competitiveness":       fv.Competitiveness,
		"followerCount":         float64(fv.FollowerCount),
		"avgDailyStreams":       float64(fv.AvgDailyStreams),
	}

	result, err := eval.Evaluate(expression, variables, scoreExpressionFunctions())
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate score expression: %w", err)
	}

	score, err := toFloat(result)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) {
		return 0, fmt.Errorf("calculated NaN as expression result")
	}
	if math.IsInf(score, 0) {
		return 0, fmt.Errorf("calculated infinity as expression result")
	}

	return score, nil
}

func scoreExpressionFunctions() map[string]goval.ExpressionFunction {
	return map[string]goval.ExpressionFunction{
		"min": func(args ...interface{}) (interface{}, error) {
			if len(args) < 2 {
				return 0, fmt.Errorf("min needs 2 args, got %d", len(args))
			}
			a, err := toFloat(args[0])
			if err != nil {
				return 0, err
			}
			b, err := toFloat(args[1])
			if err != nil {
				return 0, err
			}
			return math.Min(a, b), nil
		},
		"max": func(args ...interface{}) (interface{}, error) {
			if len(args) < 2 {
				return 0, fmt.Errorf("max needs 2 args, got %d", len(args))
			}
			a, err := toFloat(args[0])
			if err != nil {
				return 0, err
			}
			b, err := toFloat(args[1])
			if err != nil {
				return 0, err
			}
			return math.Max(a, b), nil
		},
		"clamp": func(args ...interface{}) (interface{}, error) {
			if len(args) < 3 {
				return 0, fmt.Errorf("clamp needs 3 args, got %d", len(args))
			}
			v, err := toFloat(args[0])
			if err != nil {
				return 0, err
			}
			lo, err := toFloat(args[1])
			if err != nil {
				return 0, err
			}
			hi, err := toFloat(args[2])
			if err != nil {
				return 0, err
			}
			return math.Max(lo, math.Min(hi, v)), nil
		},
	}
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("failed to convert %T to float", v)
	}
}
