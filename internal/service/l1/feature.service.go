package l1_service

import (
	"time"

	"streamalloc/internal/domain"
	"streamalloc/internal/util"

	"github.com/montanaflynn/stats"
)

const (
	// daily volume at which a playlist's volume score saturates
	volumeSaturation = 50000

	maxPlaylistAgeDays     = 1095
	defaultPlaylistAgeDays = 365
	maxSeasonalFactor      = 1.5
	neutralHistoricalScore = 0.5
)

type ExtractFeaturesInput struct {
	Playlist domain.Playlist
	Campaign domain.Campaign
	// nil when the caller couldn't resolve the owning vendor
	Vendor  *domain.Vendor
	History []domain.HistoricalRecord
	// drives the seasonal month lookup; tests pin this
	Now time.Time
}

type FeatureService interface {
	ExtractFeatures(in ExtractFeaturesInput) domain.FeatureVector
}

type featureServiceHandler struct {
	Tables *EngineTables
	Genres GenreService
}

func NewFeatureService(tables *EngineTables, genres GenreService) FeatureService {
	return featureServiceHandler{
		Tables: tables,
		Genres: genres,
	}
}

func (h featureServiceHandler) ExtractFeatures(in ExtractFeaturesInput) domain.FeatureVector {
	estimate := h.Tables.NeutralVendorEstimate()
	if in.Vendor != nil {
		estimate = h.Tables.VendorEstimate(in.Vendor.ID)
	}

	return domain.FeatureVector{
		PlaylistID:      in.Playlist.ID,
		Relevance:       h.Genres.Relevance(in.Playlist.Genres, in.Campaign.TargetGenres),
		AvgDailyStreams: in.Playlist.AvgDailyStreams,
		VolumeScore:     volumeScore(in.Playlist.AvgDailyStreams),
		FollowerCount:   in.Playlist.FollowerCount,

		VendorReliability:  estimate.Reliability,
		VendorAccuracy:     estimate.Accuracy,
		VendorUtilization:  estimate.Utilization,
		VendorResponseTime: estimate.ResponseTime,

		HistoricalPerformance: historicalPerformance(in.Playlist.ID, in.History),
		SeasonalFactor:        h.seasonalFactor(in.Campaign.TargetGenres, in.Playlist.Genres, in.Now.Month()),
		PlaylistAgeDays:       playlistAgeDays(in.Playlist.CreatedAt, in.Now),

		Budget:          in.Campaign.Budget,
		DurationDays:    in.Campaign.DurationDays,
		StreamGoal:      in.Campaign.StreamGoal,
		CampaignGenres:  in.Campaign.TargetGenres,
		Competitiveness: h.competitiveness(in.Campaign.TargetGenres),
	}
}

// volumeScore soft-caps daily volume: anything at or above the saturation
// point reads as 1.0. The raw figure stays available on the vector.
func volumeScore(avgDailyStreams int64) float64 {
	score := float64(avgDailyStreams) / volumeSaturation
	if score > 1 {
		return 1
	}
	return score
}

func historicalPerformance(playlistID string, history []domain.HistoricalRecord) float64 {
	scores := []float64{}
	for _, record := range history {
		if record.PlaylistID == playlistID {
			scores = append(scores, record.Score)
		}
	}
	if len(scores) == 0 {
		return neutralHistoricalScore
	}
	mean, err := stats.Mean(scores)
	if err != nil {
		return neutralHistoricalScore
	}
	return mean
}

// seasonalFactor multiplies in the month multiplier of every campaign or
// playlist genre that has a seasonal table, capped so one campaign can't
// compound its way to an absurd forecast.
func (h featureServiceHandler) seasonalFactor(campaignGenres, playlistGenres []string, month time.Month) float64 {
	factor := 1.0
	seen := map[string]bool{}
	for _, genre := range append(append([]string{}, campaignGenres...), playlistGenres...) {
		n := util.NormalizeGenre(genre)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		if m, ok := h.Tables.SeasonalMultiplier(n, month); ok {
			factor *= m
		}
	}
	if factor > maxSeasonalFactor {
		return maxSeasonalFactor
	}
	return factor
}

func playlistAgeDays(createdAt *time.Time, now time.Time) int {
	if createdAt == nil {
		return defaultPlaylistAgeDays
	}
	days := int(now.Sub(*createdAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if days > maxPlaylistAgeDays {
		return maxPlaylistAgeDays
	}
	return days
}

func (h featureServiceHandler) competitiveness(campaignGenres []string) float64 {
	if len(campaignGenres) == 0 {
		return 0.5
	}
	total := 0.0
	for _, genre := range campaignGenres {
		total += h.Tables.Competitiveness(genre)
	}
	return total / float64(len(campaignGenres))
}
