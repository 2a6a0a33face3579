package catalog

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opLoad = "load"
	opSave = "save"
	opPing = "ping"

	resultOK    = "ok"
	resultError = "error"
)

type StoreMetrics struct {
	Ops     *prometheus.CounterVec
	Latency *prometheus.HistogramVec
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_store_operations_total",
				Help: "Catalog store operations by result",
			},
			[]string{"op", "result"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_store_operation_duration_seconds",
				Help:    "Catalog store operation latency",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"op"},
		),
	}

	reg.MustRegister(m.Ops, m.Latency)
	return m
}

// InstrumentedStore counts and times every call to the wrapped Store.
type InstrumentedStore struct {
	next Store
	m    *StoreMetrics
}

// Instrument wraps next. With nil metrics it returns next unchanged.
func Instrument(next Store, m *StoreMetrics) Store {
	if m == nil {
		return next
	}
	return &InstrumentedStore{next: next, m: m}
}

func (s *InstrumentedStore) Load(ctx context.Context) (Catalog, error) {
	start := time.Now()
	c, err := s.next.Load(ctx)
	s.observe(opLoad, start, err)
	return c, err
}

func (s *InstrumentedStore) Save(ctx context.Context, c Catalog) error {
	start := time.Now()
	err := s.next.Save(ctx, c)
	s.observe(opSave, start, err)
	return err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe(opPing, start, err)
	return err
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	s.m.Latency.WithLabelValues(op).Observe(time.Since(start).Seconds())

	result := resultOK
	if err != nil {
		result = resultError
	}
	s.m.Ops.WithLabelValues(op, result).Inc()
}
