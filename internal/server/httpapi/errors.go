package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/logging"
)

// respondError writes the status and message for err and aborts the chain.
// Causes behind ErrUnauthenticated and ErrInternal are never sent.
func respondError(c *gin.Context, logger logging.Logger, err error) {
	code, msg := http.StatusInternalServerError, common.ErrInternal.Error()

	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		code, msg = http.StatusUnauthorized, common.ErrUnauthenticated.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		code, msg = http.StatusUnauthorized, common.ErrInvalidCredentials.Error()
	case errors.Is(err, common.ErrDuplicateIdentity):
		code, msg = http.StatusConflict, common.ErrDuplicateIdentity.Error()
	case errors.Is(err, common.ErrNotFound):
		code, msg = http.StatusNotFound, common.ErrNotFound.Error()
	case errors.Is(err, common.ErrInvalidArgument), errors.Is(err, common.ErrEmptyPassword):
		code, msg = http.StatusBadRequest, err.Error()
	default:
		logger.Error(c.Request.Context(), "request failed", "error", err.Error())
	}

	c.AbortWithStatusJSON(code, api.ErrorResponse{Error: msg})
}
