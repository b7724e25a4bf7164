package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(t *testing.T, m prometheus.Metric) *dto.Metric {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	return &out
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	return read(t, c).GetCounter().GetValue()
}

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	first := LedgerMutationsTotal

	assert.NotPanics(t, InitMetrics, "重复注册会panic")
	assert.Same(t, first, LedgerMutationsTotal)

	for name, m := range map[string]any{
		"http_requests_total":        HTTPRequestsTotal,
		"ledger_conflicts_total":     LedgerConflictsTotal,
		"expired_reservations_total": ExpiredReservationsTotal,
		"circuit_breaker_state":      CircuitBreakerState,
		"messages_consumed_total":    MessagesConsumedTotal,
	} {
		assert.NotNil(t, m, name)
	}
}

func TestCounters(t *testing.T) {
	InitMetrics()

	before := counterValue(t, ExpiredReservationsTotal)
	IncCounter(ExpiredReservationsTotal)
	AddCounter(ExpiredReservationsTotal, 4)
	assert.Equal(t, 5.0, counterValue(t, ExpiredReservationsTotal)-before)

	success := map[string]string{"type": "RESERVATION", "result": "success"}
	failure := map[string]string{"type": "RESERVATION", "result": "failure"}
	okBefore := counterValue(t, LedgerMutationsTotal.With(success))
	failBefore := counterValue(t, LedgerMutationsTotal.With(failure))

	IncCounterVec(LedgerMutationsTotal, success)
	IncCounterVec(LedgerMutationsTotal, success)
	IncCounterVec(LedgerMutationsTotal, failure)

	assert.Equal(t, 2.0, counterValue(t, LedgerMutationsTotal.With(success))-okBefore)
	assert.Equal(t, 1.0, counterValue(t, LedgerMutationsTotal.With(failure))-failBefore)
}

func TestGauges(t *testing.T) {
	InitMetrics()

	SetGauge(HTTPRequestsInProgress, 0)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, 1.0, read(t, HTTPRequestsInProgress).GetGauge().GetValue())
	SetGauge(HTTPRequestsInProgress, 0)

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "event-publisher"}, 1)
	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "other"}, 2)
	got := read(t, CircuitBreakerState.With(map[string]string{"name": "event-publisher"}))
	assert.Equal(t, 1.0, got.GetGauge().GetValue())
}

func TestHistograms(t *testing.T) {
	InitMetrics()

	before := read(t, ExpirySweepDuration).GetHistogram()
	for _, v := range []float64{0.05, 0.1, 0.5} {
		ObserveHistogram(ExpirySweepDuration, v)
	}
	after := read(t, ExpirySweepDuration).GetHistogram()
	assert.Equal(t, uint64(3), after.GetSampleCount()-before.GetSampleCount())
	assert.InDelta(t, 0.65, after.GetSampleSum()-before.GetSampleSum(), 1e-9)

	labels := map[string]string{"method": "GET", "path": "/api/v1/stock/:id"}
	ObserveHistogramVec(HTTPRequestDuration, labels, 0.02)
	h := HTTPRequestDuration.With(labels).(prometheus.Histogram)
	assert.Equal(t, uint64(1), read(t, h).GetHistogram().GetSampleCount())
}

func TestNilMetricsAreNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		IncCounter(nil)
		AddCounter(nil, 3)
		IncCounterVec(nil, map[string]string{"result": "success"})
		IncGauge(nil)
		DecGauge(nil)
		SetGauge(nil, 1)
		SetGaugeVec(nil, map[string]string{"name": "x"}, 1)
		ObserveHistogram(nil, 0.1)
		ObserveHistogramVec(nil, map[string]string{"method": "GET"}, 0.1)
	})
}
