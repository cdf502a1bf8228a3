// Package monitor surfaces settlement windows that never closed. A pending
// transfer left open is not a protocol failure but a liveness risk: the
// item's transfer restriction stays relaxed until the buyer's side clears
// it, so operators need to see the ones that have gone stale.
package monitor

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opentradeorg/libopentrade-go/event"
	"github.com/opentradeorg/libopentrade-go/store"
)

// Monitor scans the settlement mirror for windows open longer than the
// threshold. One-shot: callers schedule repeated scans themselves.
type Monitor struct {
	store     *store.Store
	log       logrus.FieldLogger
	threshold time.Duration
	now       func() time.Time
}

// Option configures a monitor.
type Option func(*Monitor)

// WithClock overrides the scan clock.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New creates a monitor over the settlement mirror. Threshold must be positive.
func New(s *store.Store, log logrus.FieldLogger, threshold time.Duration, opts ...Option) (*Monitor, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("monitor: threshold must be positive, got %s", threshold)
	}
	m := &Monitor{
		store:     s,
		log:       log,
		threshold: threshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Stale returns every settlement open longer than the threshold, logging a
// warning per hit.
func (m *Monitor) Stale() ([]event.Settlement, error) {
	open, err := m.store.OpenSettlements()
	if err != nil {
		return nil, err
	}

	cutoff := m.now().Add(-m.threshold)
	var stale []event.Settlement
	for _, st := range open {
		if st.OpenedAt.After(cutoff) {
			continue
		}
		m.log.WithFields(logrus.Fields{
			"seller":    st.Seller,
			"class":     string(st.Class),
			"items":     len(st.IDs),
			"opened_at": st.OpenedAt.Format(time.RFC3339),
			"age":       m.now().Sub(st.OpenedAt).String(),
		}).Warn("settlement window still open")
		stale = append(stale, st)
	}
	return stale, nil
}
