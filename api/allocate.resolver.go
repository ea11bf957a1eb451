package api

import (
	"encoding/json"
	"fmt"

	"streamalloc/internal/domain"
	l3_service "streamalloc/internal/service/l3"
	"streamalloc/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type allocateRequest struct {
	Playlists       []playlistJson         `json:"playlists"`
	Goal            int64                  `json:"goal"`
	VendorCaps      map[string]int64       `json:"vendorCaps"`
	TargetGenre     string                 `json:"targetGenre"`
	DurationDays    int                    `json:"durationDays"`
	Vendors         []vendorJson           `json:"vendors,omitempty"`
	Budget          *float64               `json:"budget,omitempty"`
	CampaignGenres  []string               `json:"campaignGenres,omitempty"`
	History         []historicalRecordJson `json:"history,omitempty"`
	ScoreExpression string                 `json:"scoreExpression,omitempty"`
}

type genreMatchJson struct {
	PlaylistID string `json:"playlistId"`
	Score      int    `json:"score"`
	Strength   string `json:"strength"`
}

type streamProjectionJson struct {
	Optimistic   int64 `json:"optimistic"`
	Realistic    int64 `json:"realistic"`
	Conservative int64 `json:"conservative"`
}

type costSummaryJson struct {
	EstimatedSpend    float64            `json:"estimatedSpend"`
	SpendByVendor     map[string]float64 `json:"spendByVendor"`
	BudgetUtilization *float64           `json:"budgetUtilization,omitempty"`
}

type insightsJson struct {
	ConfidenceScore float64              `json:"confidenceScore"`
	Projection      streamProjectionJson `json:"projection"`
	Recommendations []string             `json:"recommendations"`
	RiskFactors     []string             `json:"riskFactors"`
	Cost            costSummaryJson      `json:"cost"`
}

type predictionFactorJson struct {
	Name        string  `json:"name"`
	Impact      float64 `json:"impact"`
	Explanation string  `json:"explanation"`
}

type predictionJson struct {
	PredictedStreams int64                  `json:"predictedStreams"`
	Confidence       float64                `json:"confidence"`
	Risk             float64                `json:"risk"`
	Category         string                 `json:"category"`
	Factors          []predictionFactorJson `json:"factors"`
}

type allocateResponse struct {
	Allocations   []allocationItemJson      `json:"allocations"`
	GenreMatches  []genreMatchJson          `json:"genreMatches"`
	Insights      insightsJson              `json:"insights"`
	MLOptimized   bool                      `json:"mlOptimized"`
	MLPredictions map[string]predictionJson `json:"mlPredictions,omitempty"`
}

func (m ApiHandler) allocate(c *gin.Context) {
	var requestBody allocateRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse allocate request: %w", err), c, 400)
		return
	}

	result, err := m.AllocationHandler.AllocateStreams(allocateInputFromRequest(requestBody))
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to allocate streams: %w", err), c)
		return
	}

	c.JSON(200, allocateResponseFromDomain(result))
}

func allocateInputFromRequest(requestBody allocateRequest) l3_service.AllocateStreamsInput {
	var budget *decimal.Decimal
	if requestBody.Budget != nil {
		budget = util.DecimalPointer(decimal.NewFromFloat(*requestBody.Budget))
	}

	return l3_service.AllocateStreamsInput{
		Playlists:       playlistsFromJson(requestBody.Playlists),
		Goal:            requestBody.Goal,
		VendorCaps:      vendorCapsFromJson(requestBody.VendorCaps),
		TargetGenre:     requestBody.TargetGenre,
		DurationDays:    requestBody.DurationDays,
		Vendors:         vendorsFromJson(requestBody.Vendors),
		Budget:          budget,
		CampaignGenres:  requestBody.CampaignGenres,
		History:         historyFromJson(requestBody.History),
		ScoreExpression: requestBody.ScoreExpression,
	}
}

// AllocateInputFromJSON parses the same request shape the /allocate route
// accepts. The CLI uses this for operator dry-runs against a request file.
func AllocateInputFromJSON(data []byte) (*l3_service.AllocateStreamsInput, error) {
	var requestBody allocateRequest
	if err := json.Unmarshal(data, &requestBody); err != nil {
		return nil, fmt.Errorf("failed to parse allocate request: %w", err)
	}
	in := allocateInputFromRequest(requestBody)
	return &in, nil
}

// AllocateResultToJSON renders an allocation result in the same envelope the
// /allocate route returns.
func AllocateResultToJSON(result *domain.AllocationResult) ([]byte, error) {
	return json.MarshalIndent(allocateResponseFromDomain(result), "", "  ")
}

func allocateResponseFromDomain(result *domain.AllocationResult) allocateResponse {
	matches := make([]genreMatchJson, 0, len(result.GenreMatches))
	for _, match := range result.GenreMatches {
		matches = append(matches, genreMatchJson{
			PlaylistID: match.PlaylistID,
			Score:      match.Score,
			Strength:   string(match.Strength),
		})
	}

	var predictions map[string]predictionJson
	if len(result.MLPredictions) > 0 {
		predictions = map[string]predictionJson{}
		for playlistID, p := range result.MLPredictions {
			factors := make([]predictionFactorJson, 0, len(p.Factors))
			for _, f := range p.Factors {
				factors = append(factors, predictionFactorJson{
					Name:        f.Name,
					Impact:      f.Impact,
					Explanation: f.Explanation,
				})
			}
			predictions[playlistID] = predictionJson{
				PredictedStreams: p.PredictedStreams,
				Confidence:       p.Confidence,
				Risk:             p.Risk,
				Category:         string(p.Category),
				Factors:          factors,
			}
		}
	}

	spendByVendor := map[string]float64{}
	for vendorID, spend := range result.Insights.Cost.SpendByVendor {
		spendByVendor[vendorID] = spend.InexactFloat64()
	}

	return allocateResponse{
		Allocations:  allocationsToJson(result.Allocations),
		GenreMatches: matches,
		Insights: insightsJson{
			ConfidenceScore: result.Insights.ConfidenceScore,
			Projection: streamProjectionJson{
				Optimistic:   result.Insights.Projection.Optimistic,
				Realistic:    result.Insights.Projection.Realistic,
				Conservative: result.Insights.Projection.Conservative,
			},
			Recommendations: result.Insights.Recommendations,
			RiskFactors:     result.Insights.RiskFactors,
			Cost: costSummaryJson{
				EstimatedSpend:    result.Insights.Cost.EstimatedSpend.InexactFloat64(),
				SpendByVendor:     spendByVendor,
				BudgetUtilization: result.Insights.Cost.BudgetUtilization,
			},
		},
		MLOptimized:   result.MLOptimized,
		MLPredictions: predictions,
	}
}
