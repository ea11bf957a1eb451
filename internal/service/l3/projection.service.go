package l3_service

import "streamalloc/internal/domain"

type CalculateProjectionsInput struct {
	Allocations             []domain.AllocationItem
	Playlists               []domain.Playlist
	DirectVendorAllocations []domain.AllocationItem
}

type ProjectionService interface {
	CalculateProjections(in CalculateProjectionsInput) domain.ProjectionTotals
}

type projectionServiceHandler struct{}

func NewProjectionService() ProjectionService {
	return projectionServiceHandler{}
}

// CalculateProjections sums allocation amounts by playlist and by vendor.
// Pure aggregation for UI summaries - no validation, no side effects.
func (h projectionServiceHandler) CalculateProjections(in CalculateProjectionsInput) domain.ProjectionTotals {
	ownerByPlaylist := map[string]string{}
	for _, p := range in.Playlists {
		ownerByPlaylist[p.ID] = p.VendorID
	}

	totals := domain.ProjectionTotals{
		ByPlaylist: map[string]int64{},
		ByVendor:   map[string]int64{},
	}

	for _, item := range in.Allocations {
		totals.TotalStreams += item.Streams

		vendorID := item.VendorID
		if item.PlaylistID != nil {
			totals.ByPlaylist[*item.PlaylistID] += item.Streams
			if owner, ok := ownerByPlaylist[*item.PlaylistID]; ok {
				vendorID = owner
			}
		}
		totals.ByVendor[vendorID] += item.Streams
	}

	for _, item := range in.DirectVendorAllocations {
		totals.TotalStreams += item.Streams
		totals.ByVendor[item.VendorID] += item.Streams
	}

	return totals
}
