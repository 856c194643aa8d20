package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tanzim-io/tanzim/pkg/application"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "tanzim_build_info",
	Help: "Build metadata. The value is always 1.",
}, []string{"version"})

type PrometheusController struct {
	path string
}

// NewPrometheusController exposes the default registry, which carries the
// hierarchy and content service counters, on the given path.
func NewPrometheusController(path string) application.Controller {
	if path == "" {
		path = "/debug/prometheus"
	}
	buildInfo.WithLabelValues(Version).Set(1)
	return &PrometheusController{path: path}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	handler := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
	r.Handle(c.path, handler).Methods(http.MethodGet)
}
