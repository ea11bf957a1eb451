package l3_service

import (
	"math"
	"sort"
	"time"

	"streamalloc/internal/calculator"
	"streamalloc/internal/domain"
	l1_service "streamalloc/internal/service/l1"
	l2_service "streamalloc/internal/service/l2"
	"streamalloc/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// the scored path is only worth running for campaigns with enough
	// candidates and volume for ranking to matter
	mlMinPlaylists  = 5
	mlMinStreamGoal = 10000
)

type AllocateStreamsInput struct {
	Playlists    []domain.Playlist
	Goal         int64
	VendorCaps   map[string]domain.Capacity
	TargetGenre  string
	DurationDays int
	// optional - without vendor data the scored path is ineligible
	Vendors        []domain.Vendor
	Budget         *decimal.Decimal
	CampaignGenres []string
	History        []domain.HistoricalRecord
	// optional goval ranking override, see l2_service.EvaluateScoreExpression
	ScoreExpression string
	// drives seasonal month lookup; tests pin this
	Now time.Time
}

type OptimizerService interface {
	AllocateStreams(in AllocateStreamsInput) (*domain.AllocationResult, error)
}

type optimizerServiceHandler struct {
	Genres    l1_service.GenreService
	Features  l1_service.FeatureService
	Predictor l2_service.PredictorService
	Log       *zap.SugaredLogger
}

func NewOptimizerService(
	genres l1_service.GenreService,
	features l1_service.FeatureService,
	predictor l2_service.PredictorService,
	log *zap.SugaredLogger,
) OptimizerService {
	return optimizerServiceHandler{
		Genres:    genres,
		Features:  features,
		Predictor: predictor,
		Log:       log,
	}
}

// AllocateStreams decides how many streams to route through which
// playlist/vendor. It tries the scored path first when eligible and falls
// back to the greedy heuristic otherwise - the fallback is a designed
// degradation, reported via MLOptimized, never an error.
func (h optimizerServiceHandler) AllocateStreams(in AllocateStreamsInput) (*domain.AllocationResult, error) {
	campaign := h.campaignFromInput(in)
	profile, endProfile := domain.NewProfile()
	defer func() {
		endProfile()
		if spans, err := profile.ToJsonBytes(); err == nil {
			h.Log.Debugw("allocation run", "playlists", len(in.Playlists), "spans", string(spans))
		}
	}()

	if h.mlEligible(in) {
		_, endSpan := profile.StartNewSpan("scored_allocation")
		result, err := h.allocateScored(in, campaign)
		endSpan()
		if err == nil && len(result.Allocations) > 0 {
			result.GenreMatches = h.genreMatches(in.Playlists, campaign.TargetGenres)
			return result, nil
		}
		if err != nil {
			h.Log.Infow("scored allocation failed, falling back to heuristic", "error", err)
		} else {
			h.Log.Infow("scored allocation produced no allocations, falling back to heuristic")
		}
	}

	_, endSpan := profile.StartNewSpan("heuristic_allocation")
	result := h.allocateHeuristic(in, campaign)
	endSpan()
	result.GenreMatches = h.genreMatches(in.Playlists, campaign.TargetGenres)
	return result, nil
}

func (h optimizerServiceHandler) campaignFromInput(in AllocateStreamsInput) domain.Campaign {
	genres := in.CampaignGenres
	if len(genres) == 0 && in.TargetGenre != "" {
		genres = []string{in.TargetGenre}
	}
	return domain.Campaign{
		TargetGenres: genres,
		Budget:       in.Budget,
		DurationDays: in.DurationDays,
		StreamGoal:   in.Goal,
	}
}

func (h optimizerServiceHandler) mlEligible(in AllocateStreamsInput) bool {
	return len(in.Playlists) > mlMinPlaylists &&
		in.Goal > mlMinStreamGoal &&
		len(in.Vendors) > 0
}

type scoredCandidate struct {
	playlist   domain.Playlist
	features   domain.FeatureVector
	prediction domain.Prediction
	score      float64
}

// allocateScored is the "ML" path: predict per-playlist performance, rank by
// a blended optimization score, then walk the ranking spending vendor and
// playlist capacity until the goal is covered.
func (h optimizerServiceHandler) allocateScored(in AllocateStreamsInput, campaign domain.Campaign) (*domain.AllocationResult, error) {
	vendorsByID := map[string]domain.Vendor{}
	for _, v := range in.Vendors {
		vendorsByID[v.ID] = v
	}

	useExpression := in.ScoreExpression != ""
	candidates := make([]scoredCandidate, 0, len(in.Playlists))
	for _, playlist := range in.Playlists {
		var vendor *domain.Vendor
		if v, ok := vendorsByID[playlist.VendorID]; ok {
			vendor = &v
		}

		fv := h.Features.ExtractFeatures(l1_service.ExtractFeaturesInput{
			Playlist: playlist,
			Campaign: campaign,
			Vendor:   vendor,
			History:  in.History,
			Now:      in.Now,
		})
		prediction := h.Predictor.Predict(fv)

		score := optimizationScore(fv, prediction)
		if useExpression {
			custom, err := l2_service.EvaluateScoreExpression(in.ScoreExpression, fv)
			if err != nil {
				// bad expression degrades to the builtin score for the
				// whole run rather than mixing scales mid-ranking
				h.Log.Infow("score expression rejected, using builtin score", "error", err)
				useExpression = false
			} else {
				score = custom
			}
		}

		candidates = append(candidates, scoredCandidate{
			playlist:   playlist,
			features:   fv,
			prediction: prediction,
			score:      score,
		})
	}

	if !useExpression && in.ScoreExpression != "" {
		// expression got rejected partway; recompute earlier candidates
		for i := range candidates {
			candidates[i].score = optimizationScore(candidates[i].features, candidates[i].prediction)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	vendorRemaining := map[string]int64{}
	for _, v := range in.Vendors {
		vendorRemaining[v.ID] = v.MaxDailyStreams * int64(in.DurationDays)
	}

	remainingGoal := in.Goal
	allocations := []domain.AllocationItem{}
	predictions := map[string]domain.Prediction{}
	confidences := []float64{}
	risks := []float64{}

	for _, c := range candidates {
		predictions[c.playlist.ID] = c.prediction

		if remainingGoal <= 0 {
			break
		}
		vendorCap, ok := vendorRemaining[c.playlist.VendorID]
		if !ok {
			// playlist references a vendor we weren't given; skip rather
			// than guess at capacity
			continue
		}
		playlistCap := c.playlist.AvgDailyStreams * int64(in.DurationDays)
		expected := int64(math.Round(float64(c.prediction.PredictedStreams) * c.prediction.Confidence))

		amount := util.MinInt64(remainingGoal, vendorCap, playlistCap, expected)
		if amount <= 0 {
			continue
		}

		allocations = append(allocations, domain.AllocationItem{
			PlaylistID: util.StringPointer(c.playlist.ID),
			VendorID:   c.playlist.VendorID,
			Streams:    amount,
		})
		confidences = append(confidences, c.prediction.Confidence)
		risks = append(risks, c.prediction.Risk)
		remainingGoal -= amount
		vendorRemaining[c.playlist.VendorID] -= amount
	}

	if len(allocations) == 0 {
		return &domain.AllocationResult{}, nil
	}

	insights := calculator.BuildInsights(calculator.InsightsInput{
		Goal:         in.Goal,
		Allocations:  allocations,
		Confidences:  confidences,
		Risks:        risks,
		MLOptimized:  true,
		NoCandidates: len(in.Playlists) == 0,
		Budget:       in.Budget,
		Vendors:      in.Vendors,
		Playlists:    in.Playlists,
	})

	return &domain.AllocationResult{
		Allocations:   allocations,
		Insights:      insights,
		MLOptimized:   true,
		MLPredictions: predictions,
	}, nil
}

func optimizationScore(fv domain.FeatureVector, p domain.Prediction) float64 {
	baseline := fv.AvgDailyStreams
	if baseline < 1 {
		baseline = 1
	}
	efficiency := float64(p.PredictedStreams) / float64(baseline)
	score := efficiency*0.4 + p.Confidence*0.3 + fv.Relevance*0.2
	return score * (1 - p.Risk*0.3)
}

type heuristicCandidate struct {
	playlist  domain.Playlist
	relevance float64
}

// allocateHeuristic is the always-available baseline: rank by a simple
// relevance blend, then greedily spend caller-supplied vendor caps.
func (h optimizerServiceHandler) allocateHeuristic(in AllocateStreamsInput, campaign domain.Campaign) *domain.AllocationResult {
	candidates := make([]heuristicCandidate, 0, len(in.Playlists))
	for _, playlist := range in.Playlists {
		candidates = append(candidates, heuristicCandidate{
			playlist:  playlist,
			relevance: h.heuristicRelevance(playlist, in.TargetGenre, campaign.TargetGenres),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].relevance != candidates[j].relevance {
			return candidates[i].relevance > candidates[j].relevance
		}
		return candidates[i].playlist.AvgDailyStreams > candidates[j].playlist.AvgDailyStreams
	})

	vendorUsed := map[string]int64{}
	remainingGoal := in.Goal
	allocations := []domain.AllocationItem{}

	for _, c := range candidates {
		if remainingGoal <= 0 {
			break
		}

		playlistCap := c.playlist.PlaylistCapacity(in.DurationDays)
		if playlistCap <= 0 {
			continue
		}

		vendorCap, hasCap := in.VendorCaps[c.playlist.VendorID]
		if !hasCap {
			vendorCap = domain.UnlimitedCapacity()
		}
		headroom := vendorCap.Headroom(vendorUsed[c.playlist.VendorID], remainingGoal)
		if headroom <= 0 {
			continue
		}

		amount := util.MinInt64(remainingGoal, headroom, playlistCap)
		if amount <= 0 {
			continue
		}

		allocations = append(allocations, domain.AllocationItem{
			PlaylistID: util.StringPointer(c.playlist.ID),
			VendorID:   c.playlist.VendorID,
			Streams:    amount,
		})
		remainingGoal -= amount
		vendorUsed[c.playlist.VendorID] += amount
	}

	insights := calculator.BuildInsights(calculator.InsightsInput{
		Goal:         in.Goal,
		Allocations:  allocations,
		MLOptimized:  false,
		NoCandidates: len(in.Playlists) == 0,
		Budget:       in.Budget,
		Vendors:      in.Vendors,
		Playlists:    in.Playlists,
	})

	return &domain.AllocationResult{
		Allocations: allocations,
		Insights:    insights,
		MLOptimized: false,
	}
}

// heuristicRelevance is the greedy path's own scoring formula. It is
// intentionally separate from the normalized relevance in the feature
// extractor; callers depend on both behaviors.
func (h optimizerServiceHandler) heuristicRelevance(playlist domain.Playlist, targetGenre string, campaignGenres []string) float64 {
	tags := map[string]bool{}
	for _, g := range playlist.Genres {
		tags[util.NormalizeGenre(g)] = true
	}

	exactMatch := 0.0
	if tags[util.NormalizeGenre(targetGenre)] {
		exactMatch = 1.0
	}

	overlap := 0.0
	if len(campaignGenres) > 0 {
		matched := 0
		for _, g := range campaignGenres {
			if tags[util.NormalizeGenre(g)] {
				matched++
			}
		}
		overlap = float64(matched) / float64(len(campaignGenres))
	}

	volume := float64(playlist.AvgDailyStreams) / 50000
	if volume > 1 {
		volume = 1
	}

	return 0.55*exactMatch + 0.25*overlap + 0.20*volume
}

func (h optimizerServiceHandler) genreMatches(playlists []domain.Playlist, campaignGenres []string) []domain.GenreMatch {
	matches := []domain.GenreMatch{}
	for _, playlist := range playlists {
		score := h.Genres.MatchScore(playlist.Genres, campaignGenres)
		if score <= 0 {
			continue
		}
		matches = append(matches, domain.GenreMatch{
			PlaylistID: playlist.ID,
			Score:      score,
			Strength:   h.Genres.MatchStrength(score),
		})
	}
	return matches
}
