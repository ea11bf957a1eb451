package api

import (
	"fmt"

	l3_service "streamalloc/internal/service/l3"

	"github.com/gin-gonic/gin"
)

type projectionsRequest struct {
	Allocations             []allocationItemJson `json:"allocations"`
	Playlists               []playlistJson       `json:"playlists"`
	DirectVendorAllocations []allocationItemJson `json:"directVendorAllocations,omitempty"`
}

type projectionsResponse struct {
	TotalStreams int64            `json:"totalStreams"`
	ByPlaylist   map[string]int64 `json:"byPlaylist"`
	ByVendor     map[string]int64 `json:"byVendor"`
}

func (m ApiHandler) projections(c *gin.Context) {
	var requestBody projectionsRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse projections request: %w", err), c, 400)
		return
	}

	totals := m.AllocationHandler.CalculateProjections(l3_service.CalculateProjectionsInput{
		Allocations:             allocationsFromJson(requestBody.Allocations),
		Playlists:               playlistsFromJson(requestBody.Playlists),
		DirectVendorAllocations: allocationsFromJson(requestBody.DirectVendorAllocations),
	})

	c.JSON(200, projectionsResponse{
		TotalStreams: totals.TotalStreams,
		ByPlaylist:   totals.ByPlaylist,
		ByVendor:     totals.ByVendor,
	})
}
