package httpx_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nippo-cloud/nippo/internal/authz"
	"github.com/nippo-cloud/nippo/internal/platform/httpx"
	"github.com/nippo-cloud/nippo/internal/shared"
)

func decodeEnvelope(t *testing.T, res *httptest.ResponseRecorder) httpx.ErrorBody {
	t.Helper()
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body
}

func TestRespondError_PolicyDeny(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, authz.AuthorizeComment(&authz.Actor{EmployeeID: 1, Role: authz.RoleSales}))

	require.Equal(t, http.StatusForbidden, res.Code)
	body := decodeEnvelope(t, res)
	require.Equal(t, "FORBIDDEN", body.Error.Code)
	require.Equal(t, "コメントを投稿する権限がありません", body.Error.Message)
}

func TestRespondError_Unauthenticated(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, authz.RequireAuthenticated(nil))

	require.Equal(t, http.StatusUnauthorized, res.Code)
	body := decodeEnvelope(t, res)
	require.Equal(t, "UNAUTHORIZED", body.Error.Code)
	require.Equal(t, "認証が必要です", body.Error.Message)
}

func TestRespondError_WrappedSentinels(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, fmt.Errorf("get report: %w", shared.ErrNotFound))
	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, "NOT_FOUND", decodeEnvelope(t, res).Error.Code)

	res = httptest.NewRecorder()
	httpx.RespondError(res, fmt.Errorf("delete customer: %w", shared.ErrInUse))
	require.Equal(t, http.StatusConflict, res.Code)
	require.Equal(t, "CONFLICT", decodeEnvelope(t, res).Error.Code)

	res = httptest.NewRecorder()
	httpx.RespondError(res, fmt.Errorf("%w: manager not found", shared.ErrInvalidInput))
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, res).Error.Code)
}

func TestRespondError_UnknownErrorIsOpaque(t *testing.T) {
	res := httptest.NewRecorder()
	httpx.RespondError(res, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, res.Code)
	body := decodeEnvelope(t, res)
	require.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	require.NotContains(t, body.Error.Message, "pq:")
}
