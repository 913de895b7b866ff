package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidverse/jigcraft-backend/internal/http/response"
	errs "github.com/kidverse/jigcraft-backend/internal/pkg/errors"
)

// respondServiceError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with the supplied fallback code.
func respondServiceError(c *gin.Context, fallbackCode string, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, errs.ErrValidation):
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, errs.ErrConflict):
		response.RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, errs.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, fallbackCode, err)
	}
}
