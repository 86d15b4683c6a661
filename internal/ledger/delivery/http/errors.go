package http

import (
	"errors"
	"net/http"

	"golang-portfolio-ledger/internal/ledger/accounting"
	"golang-portfolio-ledger/internal/ledger/dto"
	"golang-portfolio-ledger/internal/ledger/service"
	"golang-portfolio-ledger/pkg/logger"

	"github.com/labstack/echo/v4"
)

const persistenceMessage = "The change could not be saved. Please try again."

// errorStatus maps a ledger error to its HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, accounting.ErrPersistence):
		return http.StatusServiceUnavailable
	case errors.Is(err, accounting.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, accounting.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, accounting.ErrValidation), errors.Is(err, accounting.ErrFormat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPriceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a dto.ErrorResponse. Causes of server-side
// failures are logged and not shown to the client.
func respondError(c echo.Context, log *logger.Logger, err error) error {
	status := errorStatus(err)
	message := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		message = persistenceMessage
	case http.StatusInternalServerError:
		log.ErrorContext(c.Request().Context(), "Unexpected ledger error", logger.ErrorField(err))
		message = "Internal server error"
	case http.StatusBadGateway:
		log.WarnContext(c.Request().Context(), "Price provider unavailable", logger.ErrorField(err))
	}
	return c.JSON(status, dto.ErrorResponse{Error: message})
}
