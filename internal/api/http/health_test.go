package http

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthWithoutBackends(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHealthHandler("cipherstudio-api", "test", nil, nil).RegisterRoutes(r)

	for _, path := range []string{"/health", "/healthz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, path, nil))
		require.Equal(t, nethttp.StatusOK, w.Code, path)

		var res HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "healthy", res.Status)
		assert.Equal(t, "cipherstudio-api", res.Service)
		assert.Equal(t, "test", res.Version)
		assert.Equal(t, "disabled", res.DB)
		assert.Equal(t, "disabled", res.Cache)
	}
}
