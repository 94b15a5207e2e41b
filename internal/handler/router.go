package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter registers every API route on a new gin engine
func NewRouter(duplicates *DuplicateHandler, locations *CatalogHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	v1 := r.Group("/api/v1")
	v1.POST("/duplicates/check", duplicates.CheckDuplicates)
	v1.POST("/address-matches", duplicates.MatchAddress)
	v1.GET("/locations", locations.ListLocations)
	v1.GET("/locations/nearby", locations.NearbyLocations)
	v1.GET("/locations/:id", locations.GetLocation)
	v1.GET("/country-codes", ListCountryCodes)
	v1.GET("/country-codes/lookup", LookupCountryCode)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
