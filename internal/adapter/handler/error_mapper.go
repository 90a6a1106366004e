package handler

import (
	"errors"
	"net/http"

	"fedbridge/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")

	case errors.Is(err, domain.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")

	case errors.Is(err, domain.ErrAuthUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "directory temporarily unavailable")

	case errors.Is(err, domain.ErrInterrupted):
		// Usually the remote system answered slower than the caller's own
		// execution budget; the budget is the knob to turn.
		return echo.NewHTTPError(http.StatusGatewayTimeout, "directory call exceeded the execution budget")

	case errors.Is(err, domain.ErrRemoteProtocol):
		return echo.NewHTTPError(http.StatusBadGateway, "directory returned an unusable response")

	case errors.Is(err, domain.ErrMissingExternalID):
		return echo.NewHTTPError(http.StatusInternalServerError, "directory record failed integrity check")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
