package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fedbridge/internal/domain"
	"fedbridge/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIssuer implements domain.HostTokenIssuer for handler tests.
type stubIssuer struct {
	token string
}

func (s *stubIssuer) IssueHostToken(domain.FederatedUser) (string, error) {
	return s.token, nil
}

func newVerifyHandler(directory domain.Directory, issuer domain.HostTokenIssuer) *VerifyHandler {
	uc := usecase.NewVerifyCredentials(directory, domain.TenantScope("T1"), issuer, slog.Default(), nil)
	return NewVerifyHandler(uc)
}

func postVerify(t *testing.T, h *VerifyHandler, payload string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/federation/verify-credentials", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.Handle(c)
}

func TestVerifyHandler_Success(t *testing.T) {
	h := newVerifyHandler(&stubDirectory{record: tenantUser("ext-1", "alice")}, &stubIssuer{token: "host-jwt"})

	rec, err := postVerify(t, h, `{"username":"alice","password":"hunter2"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "host-jwt", body["host_token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
}

func TestVerifyHandler_InvalidCredentials(t *testing.T) {
	h := newVerifyHandler(&stubDirectory{err: domain.ErrInvalidCredentials}, nil)

	_, err := postVerify(t, h, `{"username":"alice","password":"wrong"}`)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestVerifyHandler_OutOfTenantGetsSameAnswerAsWrongPassword(t *testing.T) {
	outOfScope := tenantUser("ext-1", "alice")
	outOfScope.TenantTag = "T2"
	h := newVerifyHandler(&stubDirectory{record: outOfScope}, nil)

	_, err := postVerify(t, h, `{"username":"alice","password":"hunter2"}`)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "invalid credentials", httpErr.Message)
}

func TestVerifyHandler_MissingFields(t *testing.T) {
	h := newVerifyHandler(&stubDirectory{}, nil)

	_, err := postVerify(t, h, `{"username":"alice"}`)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestVerifyHandler_MalformedBody(t *testing.T) {
	h := newVerifyHandler(&stubDirectory{}, nil)

	_, err := postVerify(t, h, `not json`)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
