package handler

import (
	"net/http"
	"strconv"

	"fedbridge/internal/adapter/federation"
	"fedbridge/internal/usecase"

	"github.com/labstack/echo/v4"
)

// UsersHandler serves the federation lookup and listing endpoints consumed by
// the host platform.
type UsersHandler struct {
	byUsername *usecase.LookupByUsername
	byID       *usecase.LookupByID
	list       *usecase.ListUsers
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(byUsername *usecase.LookupByUsername, byID *usecase.LookupByID, list *usecase.ListUsers) *UsersHandler {
	return &UsersHandler{byUsername: byUsername, byID: byID, list: list}
}

// userResponse represents one federated user in a response body.
type userResponse struct {
	FederationID string `json:"federation_id"`
	ExternalID   string `json:"external_id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	FirstName    string `json:"firstname,omitempty"`
	LastName     string `json:"lastname,omitempty"`
	Tenant       string `json:"tenant"`
	Validated    bool   `json:"validated"`
}

func toUserResponse(user *federation.ReadOnlyUser) userResponse {
	return userResponse{
		FederationID: user.FederationID(),
		ExternalID:   user.ExternalID(),
		Username:     user.Username(),
		Email:        user.Email(),
		FirstName:    user.FirstName(),
		LastName:     user.LastName(),
		Tenant:       user.TenantTag(),
		Validated:    user.Validated(),
	}
}

// HandleByUsername processes GET /federation/users/username/:username.
func (h *UsersHandler) HandleByUsername(c echo.Context) error {
	username := c.Param("username")
	if username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username is required")
	}

	user, err := h.byUsername.Execute(c.Request().Context(), username)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// HandleByID processes GET /federation/users/id/:id.
func (h *UsersHandler) HandleByID(c echo.Context) error {
	externalID := c.Param("id")
	if externalID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}

	user, err := h.byID.Execute(c.Request().Context(), externalID)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// listResponse represents the listing response body.
type listResponse struct {
	Users []userResponse `json:"users"`
}

// HandleList processes GET /federation/users?offset=&limit=.
func (h *UsersHandler) HandleList(c echo.Context) error {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "offset must be an integer")
	}
	limit, err := queryInt(c, "limit", -1)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}

	users, err := h.list.Execute(c.Request().Context(), offset, limit)
	if err != nil {
		return mapDomainError(err)
	}

	resp := listResponse{Users: make([]userResponse, 0, len(users))}
	for _, user := range users {
		resp.Users = append(resp.Users, toUserResponse(user))
	}
	return c.JSON(http.StatusOK, resp)
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
