package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func TestHealthHandler_Check(t *testing.T) {
	e := NewTestEcho()

	t.Run("DBが正常な場合は200", func(t *testing.T) {
		handler := NewHealthHandler(&stubPinger{})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Check(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
	})

	t.Run("DBに接続できない場合は503", func(t *testing.T) {
		handler := NewHealthHandler(&stubPinger{err: errors.New("接続エラー")})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Check(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "unhealthy", resp.Status)
	})
}
