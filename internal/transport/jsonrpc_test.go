package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusUnauthorized, 1, ErrUnauthorizedCode, "invalid bearer token", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2.0", resp.JSONRPC)
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrUnauthorizedCode, resp.Error.Code)
	require.Equal(t, "invalid bearer token", resp.Error.Message)
	require.Nil(t, resp.Result)
}
