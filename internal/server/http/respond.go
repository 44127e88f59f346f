package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/garagebuddy/garagebuddy/internal/errs"
)

// fail maps service errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrAccountLocked):
		status = http.StatusLocked
	case errors.Is(err, errs.ErrItemPurchased),
		errors.Is(err, errs.ErrBelowMinimumPrice),
		errors.Is(err, errs.ErrBidTooLow),
		errors.Is(err, errs.ErrSaleClosed),
		errors.Is(err, errs.ErrInvalidDateRange),
		errors.Is(err, errs.ErrTransactionNotEmpty),
		errors.Is(err, errs.ErrItemNotInSale),
		errors.Is(err, errs.ErrAccountInUse):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest rejects malformed input.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// pathInt parses a numeric path parameter; a false return means the response
// has already been written.
func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}
