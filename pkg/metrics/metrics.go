package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ApplicationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jobtrack", Name: "application_ops_total", Help: "Number of job-application store operations by op and outcome."},
		[]string{"op", "outcome"},
	)
	Generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jobtrack", Name: "ai_generations_total", Help: "Number of AI generation requests by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	Imports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jobtrack", Name: "url_imports_total", Help: "Number of URL import attempts by path (parse_api|reader)."},
		[]string{"path"},
	)
	DocumentUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jobtrack", Name: "document_uploads_total", Help: "Number of document uploads by outcome."},
		[]string{"outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jobtrack", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "jobtrack", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ApplicationOps)
	reg.MustRegister(Generations)
	reg.MustRegister(Imports)
	reg.MustRegister(DocumentUploads)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
