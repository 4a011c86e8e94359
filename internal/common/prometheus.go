package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal             = "http_requests_total"
	HTTPRequestDurationSeconds   = "http_request_duration_seconds"
	BlockchainTransactionFailure = "blockchain_transaction_failure"
	GiftsClaimedTotal            = "gifts_claimed_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		BlockchainTransactionFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: BlockchainTransactionFailure,
			Help: "Count of all blockchain transaction failure",
		}, []string{"method"}),
		GiftsClaimedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: GiftsClaimedTotal,
			Help: "Count of all successfully claimed gifts",
		}, []string{"tier"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)
