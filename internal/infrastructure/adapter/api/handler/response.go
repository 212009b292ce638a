package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerr "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/dto"
)

var classStatus = map[domainerr.Class]int{
	domainerr.ClassNotFound:     http.StatusNotFound,
	domainerr.ClassNotAllowed:   http.StatusForbidden,
	domainerr.ClassNotPossible:  http.StatusConflict,
	domainerr.ClassRetry:        http.StatusConflict,
	domainerr.ClassInvalidInput: http.StatusBadRequest,
	domainerr.ClassInternal:     http.StatusInternalServerError,
}

// StatusCode maps a domain error to its HTTP status
func StatusCode(err error) int {
	if status, ok := classStatus[domainerr.Classify(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes the error body. Internal details never leave the process.
func respondError(c *gin.Context, logger coreport.Logger, err error) {
	class := domainerr.Classify(err)
	status := StatusCode(err)

	message := err.Error()
	if class == domainerr.ClassInternal {
		message = "Internal server error"
		fields := domainerr.LogFieldsOf(err)
		fields["path"] = c.Request.URL.Path
		logger.Error("Request failed with internal error", fields)
	}
	if class == domainerr.ClassRetry {
		c.Header("Retry-After", "1")
	}

	_ = c.Error(err)
	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Class:   string(class),
		Message: message,
	})
}

// respondBindError reports a malformed request body
func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
		Class:   string(domainerr.ClassInvalidInput),
		Message: "Invalid request format: " + err.Error(),
	})
}
