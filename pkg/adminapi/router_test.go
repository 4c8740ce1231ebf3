package adminapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marmos91/notifyd/pkg/registry"
)

func TestHealthz_ReturnsHealthy(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	router := NewRouter(reg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "healthy", resp.Status)
}

func TestDebugNames_ReflectsRegisteredName(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	router := NewRouter(reg)

	ctx := context.Background()
	_, status := reg.RegisterPlain(ctx, "com.example.printer", "session-a", registry.NoSlot, 501, 20)
	require.Equal(t, registry.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/debug/names", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "ok", resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var views []nameView
	require.NoError(t, json.Unmarshal(raw, &views))
	require.Len(t, views, 1)
	require.Equal(t, "com.example.printer", views[0].Name)
	require.Equal(t, 1, views[0].Clients)
}

func TestStats_CountsNamesAndClients(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	router := NewRouter(reg)

	ctx := context.Background()
	_, status := reg.RegisterPlain(ctx, "com.example.printer", "session-a", registry.NoSlot, 501, 20)
	require.Equal(t, registry.StatusOK, status)
	_, status = reg.RegisterPlain(ctx, "com.example.scanner", "session-a", registry.NoSlot, 501, 20)
	require.Equal(t, registry.StatusOK, status)

	req := httptest.NewRequest(http.MethodGet, "/debug/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, "ok", resp.Status)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var stats statsResponse
	require.NoError(t, json.Unmarshal(raw, &stats))
	require.Equal(t, 2, stats.Names)
	require.Equal(t, 2, stats.Clients)
}

func TestMetrics_ServesPrometheusExposition(t *testing.T) {
	reg := registry.New(registry.DefaultOptions())
	router := NewRouter(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
