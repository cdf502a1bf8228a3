package monitor

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/event"
	"github.com/opentradeorg/libopentrade-go/store"
)

func TestNew_RejectsBadThreshold(t *testing.T) {
	_, err := New(nil, logrus.New(), 0)
	assert.Error(t, err)
}

func TestStale(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.OpenSettlement(event.Settlement{
		Seller:   "fresh",
		Class:    "art",
		IDs:      []asset.ItemID{"1"},
		OpenedAt: now.Add(-time.Minute),
	}))
	require.NoError(t, s.OpenSettlement(event.Settlement{
		Seller:   "stuck",
		Class:    "art",
		IDs:      []asset.ItemID{"2", "3"},
		OpenedAt: now.Add(-2 * time.Hour),
	}))

	m, err := New(s, logrus.New(), time.Hour, WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	stale, err := m.Stale()
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "stuck", stale[0].Seller)
	assert.Len(t, stale[0].IDs, 2)
}
