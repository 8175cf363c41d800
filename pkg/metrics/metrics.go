package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service collectors. It is separate from the global
// default registry so tests can create as many as they need.
type Registry struct {
	reg          *prometheus.Registry
	requests     *prometheus.CounterVec
	authzDenials *prometheus.CounterVec
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	authzDenials := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_denials_total",
		Help: "Requests refused by the authorization policy, by kind.",
	}, []string{"kind"})

	reg.MustRegister(requests, authzDenials)

	return &Registry{
		reg:          reg,
		requests:     requests,
		authzDenials: authzDenials,
	}
}

func (r *Registry) ObserveRequest(method, route string, status int) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (r *Registry) ObserveDenial(kind string) {
	if r == nil {
		return
	}
	r.authzDenials.WithLabelValues(kind).Inc()
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
