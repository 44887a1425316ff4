package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// Pagination reads page/per_page query parameters, clamping per_page to maxPerPage
func Pagination(c *gin.Context, defaultPerPage, maxPerPage int) (page, perPage int) {
	page = QueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage = QueryInt(c, "per_page", defaultPerPage)
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
