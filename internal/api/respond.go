package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/neonverse/wordboard/pkg/apperror"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// abortWithError maps a service error to an HTTP status and JSON body
func abortWithError(c *gin.Context, err error) {
	status := apperror.MapErrorToStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// pathID parses the :id route parameter
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// pagination reads page/limit query parameters into a limit and offset
func pagination(c *gin.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, (page - 1) * limit
}
