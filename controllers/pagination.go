package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxLimit caps the page size on every listing endpoint.
const MaxLimit = 100

// parsePaginationParams reads ?page= and ?limit= with sane defaults.
func parsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
