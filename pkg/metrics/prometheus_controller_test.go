package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestPrometheusController_ServesBuildInfo(t *testing.T) {
	controller := NewPrometheusController("")
	require.Equal(t, "/debug/prometheus", controller.Key())

	router := mux.NewRouter()
	controller.Register(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/prometheus", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "tanzim_build_info")
}

func TestPrometheusController_CustomPath(t *testing.T) {
	controller := NewPrometheusController("/metrics")
	require.Equal(t, "/metrics", controller.Key())
}
