package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/mrsa"
)

// Metrics manages the Prometheus metrics. It implements mrsa.Observer.
type Metrics struct {
	KeysGenerated      prometheus.Counter
	KeyGenDuration     prometheus.Histogram
	PrimeCandidates    *prometheus.CounterVec
	ModulusRestarts    prometheus.Counter
	ExponentCandidates *prometheus.CounterVec
	CipherOperations   *prometheus.CounterVec
}

var _ mrsa.Observer = (*Metrics)(nil)

// NewMetrics creates the metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		KeysGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mrsa_keys_generated_total",
			Help: "Total number of mini-RSA keys generated.",
		}),
		KeyGenDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mrsa_keygen_duration_seconds",
			Help:    "Wall time of a single key generation.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		PrimeCandidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mrsa_prime_candidates_total",
			Help: "Prime candidates drawn during key generation.",
		}, []string{"result"}),
		ModulusRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mrsa_modulus_restarts_total",
			Help: "Prime pairs discarded because the modulus was below 2^63.",
		}),
		ExponentCandidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mrsa_exponent_candidates_total",
			Help: "Public exponent candidates drawn during key generation.",
		}, []string{"result"}),
		CipherOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mrsa_cipher_operations_total",
			Help: "Cipher operations by direction and outcome.",
		}, []string{"op", "result"}),
	}

	reg.MustRegister(
		m.KeysGenerated,
		m.KeyGenDuration,
		m.PrimeCandidates,
		m.ModulusRestarts,
		m.ExponentCandidates,
		m.CipherOperations,
	)
	return m
}

func result(ok bool) string {
	if ok {
		return "accepted"
	}
	return "rejected"
}

// PrimeCandidate records one sampled prime candidate.
func (m *Metrics) PrimeCandidate(accepted bool) {
	m.PrimeCandidates.WithLabelValues(result(accepted)).Inc()
}

// ModulusRestart records a discarded prime pair.
func (m *Metrics) ModulusRestart() {
	m.ModulusRestarts.Inc()
}

// ExponentCandidate records one sampled public exponent.
func (m *Metrics) ExponentCandidate(accepted bool) {
	m.ExponentCandidates.WithLabelValues(result(accepted)).Inc()
}

// KeyGenerated records a completed key generation.
func (m *Metrics) KeyGenerated(elapsed time.Duration) {
	m.KeysGenerated.Inc()
	m.KeyGenDuration.Observe(elapsed.Seconds())
}

// RecordCipher records a cipher operation.
func (m *Metrics) RecordCipher(op constants.CipherOp, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CipherOperations.WithLabelValues(string(op), status).Inc()
}
