package api

import (
	"time"

	"streamalloc/internal/domain"
	"streamalloc/internal/util"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// wire representations shared by the three resolvers. Vendor caps keep the
// legacy "zero means unlimited" convention at the wire boundary; everything
// internal uses domain.Capacity.

type playlistJson struct {
	ID              string   `json:"id"`
	VendorID        string   `json:"vendorId"`
	Name            string   `json:"name"`
	Genres          []string `json:"genres"`
	AvgDailyStreams int64    `json:"avgDailyStreams"`
	FollowerCount   int64    `json:"followerCount"`
	CreatedAt       *string  `json:"createdAt,omitempty"`
}

type vendorJson struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	MaxDailyStreams int64   `json:"maxDailyStreams"`
	CostPer1k       float64 `json:"costPer1k"`
	Active          bool    `json:"active"`
}

type allocationItemJson struct {
	PlaylistID *string `json:"playlistId,omitempty"`
	VendorID   string  `json:"vendorId"`
	Streams    int64   `json:"streams"`
}

type historicalRecordJson struct {
	PlaylistID string  `json:"playlistId"`
	Score      float64 `json:"score"`
}

func playlistsFromJson(in []playlistJson) []domain.Playlist {
	out := make([]domain.Playlist, 0, len(in))
	for _, p := range in {
		playlist := domain.Playlist{
			ID:              p.ID,
			VendorID:        p.VendorID,
			Name:            p.Name,
			Genres:          p.Genres,
			AvgDailyStreams: p.AvgDailyStreams,
			FollowerCount:   p.FollowerCount,
		}
		if p.CreatedAt != nil {
			if t, err := time.Parse(dateLayout, *p.CreatedAt); err == nil {
				playlist.CreatedAt = util.TimePointer(t)
			}
		}
		out = append(out, playlist)
	}
	return out
}

func vendorsFromJson(in []vendorJson) []domain.Vendor {
	out := make([]domain.Vendor, 0, len(in))
	for _, v := range in {
		out = append(out, domain.Vendor{
			ID:              v.ID,
			Name:            v.Name,
			MaxDailyStreams: v.MaxDailyStreams,
			CostPer1k:       decimal.NewFromFloat(v.CostPer1k),
			Active:          v.Active,
		})
	}
	return out
}

func vendorCapsFromJson(in map[string]int64) map[string]domain.Capacity {
	out := make(map[string]domain.Capacity, len(in))
	for id, limit := range in {
		out[id] = domain.CapacityFromSentinel(limit)
	}
	return out
}

func allocationsFromJson(in []allocationItemJson) []domain.AllocationItem {
	out := make([]domain.AllocationItem, 0, len(in))
	for _, a := range in {
		out = append(out, domain.AllocationItem{
			PlaylistID: a.PlaylistID,
			VendorID:   a.VendorID,
			Streams:    a.Streams,
		})
	}
	return out
}

func allocationsToJson(in []domain.AllocationItem) []allocationItemJson {
	out := make([]allocationItemJson, 0, len(in))
	for _, a := range in {
		out = append(out, allocationItemJson{
			PlaylistID: a.PlaylistID,
			VendorID:   a.VendorID,
			Streams:    a.Streams,
		})
	}
	return out
}

func historyFromJson(in []historicalRecordJson) []domain.HistoricalRecord {
	out := make([]domain.HistoricalRecord, 0, len(in))
	for _, r := range in {
		out = append(out, domain.HistoricalRecord{
			PlaylistID: r.PlaylistID,
			Score:      r.Score,
		})
	}
	return out
}
