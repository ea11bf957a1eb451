package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapacity(t *testing.T) {
	t.Run("sentinel conversion", func(t *testing.T) {
		require.True(t, CapacityFromSentinel(0).Unlimited())
		require.True(t, CapacityFromSentinel(-1).Unlimited())

		c := CapacityFromSentinel(500)
		limit, bounded := c.Limit()
		require.True(t, bounded)
		require.Equal(t, int64(500), limit)
	})

	t.Run("headroom under a limit", func(t *testing.T) {
		c := LimitedCapacity(1000)
		require.Equal(t, int64(600), c.Headroom(400, 5000))
		require.Equal(t, int64(300), c.Headroom(400, 300))
		require.Equal(t, int64(0), c.Headroom(1200, 5000))
	})

	t.Run("unlimited headroom passes the requested max through", func(t *testing.T) {
		require.Equal(t, int64(5000), UnlimitedCapacity().Headroom(999999, 5000))
	})
}

func TestPlaylistCapacity(t *testing.T) {
	t.Run("recorded volume times duration", func(t *testing.T) {
		p := Playlist{AvgDailyStreams: 10000}
		require.Equal(t, int64(70000), p.PlaylistCapacity(7))
	})

	t.Run("follower fallback when no stream history", func(t *testing.T) {
		p := Playlist{AvgDailyStreams: 0, FollowerCount: 200000}
		require.Equal(t, int64(20000), p.PlaylistCapacity(10))
	})

	t.Run("fallback floor of 100 per day", func(t *testing.T) {
		p := Playlist{AvgDailyStreams: 0, FollowerCount: 50}
		require.Equal(t, int64(1000), p.PlaylistCapacity(10))
	})
}
