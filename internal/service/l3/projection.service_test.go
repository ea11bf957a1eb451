package l3_service

import (
	"testing"

	"streamalloc/internal/domain"
	"streamalloc/internal/util"

	"github.com/stretchr/testify/require"
)

func TestCalculateProjections(t *testing.T) {
	h := NewProjectionService()

	playlists := []domain.Playlist{
		{ID: "p1", VendorID: "v1"},
		{ID: "p2", VendorID: "v1"},
		{ID: "p3", VendorID: "v2"},
	}

	t.Run("sums by playlist and vendor", func(t *testing.T) {
		totals := h.CalculateProjections(CalculateProjectionsInput{
			Allocations: []domain.AllocationItem{
				{PlaylistID: util.StringPointer("p1"), VendorID: "v1", Streams: 10000},
				{PlaylistID: util.StringPointer("p2"), VendorID: "v1", Streams: 5000},
				{PlaylistID: util.StringPointer("p3"), VendorID: "v2", Streams: 2000},
			},
			Playlists: playlists,
		})
		require.Equal(t, int64(17000), totals.TotalStreams)
		require.Equal(t, int64(10000), totals.ByPlaylist["p1"])
		require.Equal(t, int64(5000), totals.ByPlaylist["p2"])
		require.Equal(t, int64(15000), totals.ByVendor["v1"])
		require.Equal(t, int64(2000), totals.ByVendor["v2"])
	})

	t.Run("direct vendor allocations fold into vendor totals only", func(t *testing.T) {
		totals := h.CalculateProjections(CalculateProjectionsInput{
			Allocations: []domain.AllocationItem{
				{PlaylistID: util.StringPointer("p1"), VendorID: "v1", Streams: 1000},
			},
			Playlists: playlists,
			DirectVendorAllocations: []domain.AllocationItem{
				{VendorID: "v2", Streams: 500},
			},
		})
		require.Equal(t, int64(1500), totals.TotalStreams)
		require.Equal(t, int64(500), totals.ByVendor["v2"])
		require.Empty(t, totals.ByPlaylist["p3"])
	})

	t.Run("vendor attribution follows the playlist owner", func(t *testing.T) {
		totals := h.CalculateProjections(CalculateProjectionsInput{
			Allocations: []domain.AllocationItem{
				// item claims v2 but p1 belongs to v1
				{PlaylistID: util.StringPointer("p1"), VendorID: "v2", Streams: 1000},
			},
			Playlists: playlists,
		})
		require.Equal(t, int64(1000), totals.ByVendor["v1"])
		require.Zero(t, totals.ByVendor["v2"])
	})

	t.Run("empty input yields zeroed totals", func(t *testing.T) {
		totals := h.CalculateProjections(CalculateProjectionsInput{})
		require.Zero(t, totals.TotalStreams)
		require.Empty(t, totals.ByPlaylist)
		require.Empty(t, totals.ByVendor)
	})
}
