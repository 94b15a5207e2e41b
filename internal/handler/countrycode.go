package handler

import (
	"net/http"

	"location-dedup/internal/countrycode"

	"github.com/gin-gonic/gin"
)

// ListCountryCodes godoc
// @Summary  List vehicle registration codes
// @Tags     country-codes
// @Produce  json
// @Success  200  {array}  countrycode.Entry
// @Router   /api/v1/country-codes [get]
func ListCountryCodes(c *gin.Context) {
	c.JSON(http.StatusOK, countrycode.All())
}

// LookupCountryCode godoc
// @Summary  Find the vehicle registration code of a country
// @Tags     country-codes
// @Produce  json
// @Param    country  query     string  true  "Country name"
// @Success  200      {object}  countrycode.Entry
// @Failure  400      {object}  map[string]string
// @Failure  404      {object}  map[string]string
// @Router   /api/v1/country-codes/lookup [get]
func LookupCountryCode(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'country'"})
		return
	}

	code, ok := countrycode.Lookup(country)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no code found for the specified country"})
		return
	}

	c.JSON(http.StatusOK, countrycode.Entry{Country: country, Code: code})
}
