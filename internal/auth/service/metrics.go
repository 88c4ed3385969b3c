package service

import (
	"errors"

	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts session operations by outcome. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	issued     *prometheus.CounterVec
	cacheHits  *prometheus.CounterVec
	pruned     prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokenauth", Subsystem: "session", Name: "operations_total",
			Help: "Session operations by outcome",
		}, []string{"operation", "outcome"}),
		issued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokenauth", Subsystem: "session", Name: "tokens_issued_total",
			Help: "Access tokens issued by access type",
		}, []string{"access_type"}),
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokenauth", Subsystem: "pipeline", Name: "resolutions_total",
			Help: "How the authorization pipeline resolved a token",
		}, []string{"path"}),
		pruned: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tokenauth", Subsystem: "ledger", Name: "pruned_entries_total",
			Help: "Ledger entries removed by housekeeping",
		}),
	}
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func (m *Metrics) tokenIssued(kind jwtx.AccessType) {
	if m == nil {
		return
	}
	m.issued.WithLabelValues(string(kind)).Inc()
}

// resolved records whether a token came from the cache, was consumed as a
// single-use token, or needed signature verification.
func (m *Metrics) resolved(path string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(path).Inc()
}

func (m *Metrics) prunedEntries(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.pruned.Add(float64(n))
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	for _, sentinel := range outcomes {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "error"
}
