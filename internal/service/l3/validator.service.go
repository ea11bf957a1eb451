package l3_service

import (
	"fmt"
	"sort"

	"streamalloc/internal/domain"
)

type ValidateAllocationsInput struct {
	Allocations  []domain.AllocationItem
	VendorCaps   map[string]domain.Capacity
	Playlists    []domain.Playlist
	DurationDays int
	// optional; when supplied, vendor references are checked against it
	Vendors                 []domain.Vendor
	DirectVendorAllocations []domain.AllocationItem
}

type ValidatorService interface {
	ValidateAllocations(in ValidateAllocationsInput) domain.ValidationResult
}

type validatorServiceHandler struct{}

func NewValidatorService() ValidatorService {
	return validatorServiceHandler{}
}

// ValidateAllocations checks a proposed allocation set against playlist and
// vendor capacity constraints. Every violation is accumulated - the caller
// sees the full list and decides whether to block submission. This never
// returns an error; bad references are violations, not crashes.
func (h validatorServiceHandler) ValidateAllocations(in ValidateAllocationsInput) domain.ValidationResult {
	errs := []string{}

	playlistsByID := map[string]domain.Playlist{}
	for _, p := range in.Playlists {
		playlistsByID[p.ID] = p
	}
	vendorsByID := map[string]domain.Vendor{}
	for _, v := range in.Vendors {
		vendorsByID[v.ID] = v
	}

	// vendor usage is charged to the playlist's actual owner, not whatever
	// vendor id the item happens to carry
	usedByVendor := map[string]int64{}

	for _, item := range in.Allocations {
		if item.Streams < 0 {
			errs = append(errs, fmt.Sprintf("allocation for vendor %s has negative amount %d", item.VendorID, item.Streams))
			continue
		}

		if item.PlaylistID == nil {
			usedByVendor[item.VendorID] += item.Streams
			continue
		}

		playlist, ok := playlistsByID[*item.PlaylistID]
		if !ok {
			errs = append(errs, fmt.Sprintf("allocation references unknown playlist %s", *item.PlaylistID))
			continue
		}

		capacity := playlist.PlaylistCapacity(in.DurationDays)
		if item.Streams > capacity {
			errs = append(errs, fmt.Sprintf(
				"allocation of %d streams to playlist %s exceeds its capacity of %d over %d days by %d",
				item.Streams, playlist.ID, capacity, in.DurationDays, item.Streams-capacity,
			))
		}

		if item.VendorID != playlist.VendorID {
			errs = append(errs, fmt.Sprintf(
				"allocation to playlist %s names vendor %s but the playlist belongs to %s",
				playlist.ID, item.VendorID, playlist.VendorID,
			))
		}

		usedByVendor[playlist.VendorID] += item.Streams
	}

	for _, item := range in.DirectVendorAllocations {
		if item.Streams < 0 {
			errs = append(errs, fmt.Sprintf("direct allocation for vendor %s has negative amount %d", item.VendorID, item.Streams))
			continue
		}
		usedByVendor[item.VendorID] += item.Streams
	}

	vendorIDs := make([]string, 0, len(usedByVendor))
	for vendorID := range usedByVendor {
		vendorIDs = append(vendorIDs, vendorID)
	}
	sort.Strings(vendorIDs)

	for _, vendorID := range vendorIDs {
		used := usedByVendor[vendorID]
		if len(vendorsByID) > 0 {
			if _, ok := vendorsByID[vendorID]; !ok {
				errs = append(errs, fmt.Sprintf("allocation references unknown vendor %s", vendorID))
				continue
			}
		}

		capacity, ok := in.VendorCaps[vendorID]
		if !ok {
			continue
		}
		if limit, bounded := capacity.Limit(); bounded && used > limit {
			errs = append(errs, fmt.Sprintf(
				"vendor %s is allocated %d streams against a cap of %d, %d over",
				vendorID, used, limit, used-limit,
			))
		}
	}

	return domain.ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
