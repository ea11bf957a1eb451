package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Playlist is a read-only snapshot of a vendor-owned playlist. The engine
// never mutates these - all outputs are new value objects.
type Playlist struct {
	ID              string
	VendorID        string
	Name            string
	Genres          []string
	AvgDailyStreams int64
	FollowerCount   int64
	// nil when the source system never recorded one
	CreatedAt *time.Time
}

type Vendor struct {
	ID              string
	Name            string
	MaxDailyStreams int64
	CostPer1k       decimal.Decimal
	Active          bool
}

type Campaign struct {
	TargetGenres []string
	Budget       *decimal.Decimal
	DurationDays int
	StreamGoal   int64
}

// HistoricalRecord biases predictions toward past campaign outcomes.
// Score is in [0,1]; playlists with no records default to a neutral 0.5.
type HistoricalRecord struct {
	PlaylistID string
	Score      float64
}

// PlaylistCapacity is the number of streams a playlist can absorb over the
// campaign window. When a playlist has no recorded stream history we estimate
// from followers instead of starving it of allocation entirely.
func (p Playlist) PlaylistCapacity(durationDays int) int64 {
	if p.AvgDailyStreams > 0 {
		return p.AvgDailyStreams * int64(durationDays)
	}
	fallback := int64(float64(p.FollowerCount) * 0.01 * float64(durationDays))
	floor := int64(100 * durationDays)
	if fallback < floor {
		return floor
	}
	return fallback
}
