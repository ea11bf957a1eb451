package api

import (
	"fmt"

	l3_service "streamalloc/internal/service/l3"

	"github.com/gin-gonic/gin"
)

type validateRequest struct {
	Allocations             []allocationItemJson `json:"allocations"`
	VendorCaps              map[string]int64     `json:"vendorCaps"`
	Playlists               []playlistJson       `json:"playlists"`
	DurationDays            int                  `json:"durationDays"`
	Vendors                 []vendorJson         `json:"vendors,omitempty"`
	DirectVendorAllocations []allocationItemJson `json:"directVendorAllocations,omitempty"`
}

type validateResponse struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func (m ApiHandler) validate(c *gin.Context) {
	var requestBody validateRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to parse validate request: %w", err), c, 400)
		return
	}

	result := m.AllocationHandler.ValidateAllocations(l3_service.ValidateAllocationsInput{
		Allocations:             allocationsFromJson(requestBody.Allocations),
		VendorCaps:              vendorCapsFromJson(requestBody.VendorCaps),
		Playlists:               playlistsFromJson(requestBody.Playlists),
		DurationDays:            requestBody.DurationDays,
		Vendors:                 vendorsFromJson(requestBody.Vendors),
		DirectVendorAllocations: allocationsFromJson(requestBody.DirectVendorAllocations),
	})

	c.JSON(200, validateResponse{
		IsValid: result.IsValid,
		Errors:  result.Errors,
	})
}
