package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLocations serves provinces, districts per province and the full office
// tree. With ?province= it narrows to that province's districts, and with
// ?district= as well to offices.
func (h *Handler) ListLocations(c *gin.Context) {
	province := c.Query("province")
	district := c.Query("district")

	switch {
	case province == "":
		provinces := h.Locations.Provinces()
		districts := make(map[string][]string, len(provinces))
		for _, p := range provinces {
			districts[p] = h.Locations.Districts(p)
		}
		c.JSON(http.StatusOK, gin.H{
			"provinces": provinces,
			"districts": districts,
			"offices":   h.Locations.Snapshot(),
		})
	case district == "":
		districts := h.Locations.Districts(province)
		if districts == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "detail": "unknown province"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"province": province, "districts": districts})
	default:
		offices := h.Locations.Offices(province, district)
		if offices == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "detail": "unknown district"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"province": province, "district": district, "offices": offices})
	}
}
