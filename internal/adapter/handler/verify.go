package handler

import (
	"net/http"

	"fedbridge/internal/usecase"

	"github.com/labstack/echo/v4"
)

// VerifyHandler serves POST /federation/verify-credentials.
type VerifyHandler struct {
	uc *usecase.VerifyCredentials
}

// NewVerifyHandler creates a new verify handler.
func NewVerifyHandler(uc *usecase.VerifyCredentials) *VerifyHandler {
	return &VerifyHandler{uc: uc}
}

// verifyRequest is the request body for credential verification.
type verifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// verifyResponse is returned on successful verification.
type verifyResponse struct {
	OK        bool         `json:"ok"`
	User      userResponse `json:"user"`
	HostToken string       `json:"host_token,omitempty"`
}

// Handle verifies a username/password pair for the host platform.
func (h *VerifyHandler) Handle(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	result, err := h.uc.Execute(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, verifyResponse{
		OK:        true,
		User:      toUserResponse(result.User),
		HostToken: result.HostToken,
	})
}
