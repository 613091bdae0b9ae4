package records

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opList   = "list"
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
	opRandom = "random"

	resultOK       = "ok"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
	resultCanceled = "canceled"
	resultError    = "error"
)

type metrics struct {
	operations *prometheus.CounterVec
	reloads    *prometheus.CounterVec
	stored     prometheus.Gauge
}

// newMetrics builds the store collectors and registers them on reg when it
// is non-nil. Collectors already registered by an earlier store are reused.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotes",
			Subsystem: "records",
			Name:      "operations_total",
			Help:      "Records store operations by operation and result.",
		}, []string{"operation", "result"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotes",
			Subsystem: "records",
			Name:      "reloads_total",
			Help:      "Reloads of the records file triggered by external edits.",
		}, []string{"result"}),
		stored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quotes",
			Name:      "records_stored",
			Help:      "Number of quotes currently held by the records store.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}

	if m.reloads, err = register(reg, m.reloads); err != nil {
		return nil, err
	}

	if m.stored, err = register(reg, m.stored); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}

func (m *metrics) observe(operation string, err error) {
	m.operations.WithLabelValues(operation, resultOf(err)).Inc()
}
