package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	EndpointLatency     *prometheus.HistogramVec
	WalletLogins        *prometheus.CounterVec
	LedgerCalls         *prometheus.CounterVec
	LedgerLatency       *prometheus.HistogramVec
	IssuerProfileCache  *prometheus.CounterVec
	ProfileCircuitState prometheus.Gauge
	BatchSize           prometheus.Histogram
	ShareAccesses       *prometheus.CounterVec
	DomainVerifications *prometheus.CounterVec
	ConfirmationLatency prometheus.Histogram
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EndpointLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillchain_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		WalletLogins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skillchain_wallet_logins_total",
			Help: "Wallet login attempts by outcome reason",
		}, []string{"outcome"}),
		LedgerCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skillchain_ledger_calls_total",
			Help: "Ledger RPC calls by method and outcome",
		}, []string{"method", "outcome"}),
		LedgerLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skillchain_ledger_call_latency_seconds",
			Help:    "Ledger RPC latency in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		IssuerProfileCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skillchain_issuer_profile_cache_total",
			Help: "Issuer profile cache lookups by result (hit, miss, skipped)",
		}, []string{"result"}),
		ProfileCircuitState: f.NewGauge(prometheus.GaugeOpts{
			Name: "skillchain_issuer_profile_circuit_open",
			Help: "1 when issuer profile reads are short-circuited",
		}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillchain_verify_batch_size",
			Help:    "Number of ids per batch verification",
			Buckets: []float64{1, 2, 3, 5, 8, 10},
		}),
		ShareAccesses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skillchain_share_accesses_total",
			Help: "Share link accesses by result code",
		}, []string{"result"}),
		DomainVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "skillchain_domain_verifications_total",
			Help: "Domain verification attempts by result code",
		}, []string{"result"}),
		ConfirmationLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillchain_tx_confirmation_seconds",
			Help:    "Time from submission to confirmed receipt",
			Buckets: []float64{1, 2, 5, 10, 15, 30, 60, 120},
		}),
	}
}

func (m *Metrics) ObserveEndpointLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
}

func (m *Metrics) IncWalletLogin(outcome string) {
	if m == nil {
		return
	}
	m.WalletLogins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLedgerCall(method string, seconds float64, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.LedgerCalls.WithLabelValues(method, outcome).Inc()
	m.LedgerLatency.WithLabelValues(method).Observe(seconds)
}

func (m *Metrics) IncProfileCache(result string) {
	if m == nil {
		return
	}
	m.IssuerProfileCache.WithLabelValues(result).Inc()
}

func (m *Metrics) SetProfileCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.ProfileCircuitState.Set(1)
	} else {
		m.ProfileCircuitState.Set(0)
	}
}

func (m *Metrics) ObserveBatchSize(n int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(n))
}

func (m *Metrics) IncShareAccess(result string) {
	if m == nil {
		return
	}
	m.ShareAccesses.WithLabelValues(result).Inc()
}

func (m *Metrics) IncDomainVerification(result string) {
	if m == nil {
		return
	}
	m.DomainVerifications.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveConfirmation(seconds float64) {
	if m == nil {
		return
	}
	m.ConfirmationLatency.Observe(seconds)
}
