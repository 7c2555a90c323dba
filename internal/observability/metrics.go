package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JourneysStarted counts sessions created.
	JourneysStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oracle_journeys_started_total",
		Help: "Number of oracle journeys started.",
	})

	// JourneysCompleted counts successful final steps, including idempotent
	// re-completions.
	JourneysCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oracle_journeys_completed_total",
		Help: "Number of oracle journeys completed.",
	})

	// GenerationFallbacks counts generator calls that degraded to fixed
	// fallback content, by artifact kind.
	GenerationFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_generation_fallbacks_total",
		Help: "Number of generator calls that substituted fallback content.",
	}, []string{"artifact"})

	// HTTPRequests counts API requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_http_requests_total",
		Help: "Number of HTTP requests handled.",
	}, []string{"method", "path", "status"})
)
