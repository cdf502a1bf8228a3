package store

import (
	"github.com/sirupsen/logrus"

	"github.com/opentradeorg/libopentrade-go/event"
)

// Sink adapts a Store to the event.Sink contract so escrow accounts mirror
// their state here without knowing about persistence. Notification delivery
// is fire-and-forget, so write failures are logged and dropped rather than
// surfaced into settlement.
type Sink struct {
	store *Store
	log   logrus.FieldLogger
}

var _ event.Sink = (*Sink)(nil)

// NewSink creates a sink mirroring notifications into store.
func NewSink(store *Store, log logrus.FieldLogger) *Sink {
	return &Sink{store: store, log: log}
}

func (s *Sink) put(l event.Listing) {
	if err := s.store.PutListing(l); err != nil {
		s.log.WithError(err).WithField("item", l.Item.String()).Warn("mirror listing write failed")
	}
}

func (s *Sink) drop(l event.Listing) {
	if err := s.store.DeleteListing(l.Seller, l.Item); err != nil {
		s.log.WithError(err).WithField("item", l.Item.String()).Warn("mirror listing delete failed")
	}
}

func (s *Sink) ListingCreated(l event.Listing)   { s.put(l) }
func (s *Sink) ListingUpdated(l event.Listing)   { s.put(l) }
func (s *Sink) ListingCanceled(l event.Listing)  { s.drop(l) }
func (s *Sink) ListingPurchased(l event.Listing) { s.drop(l) }

func (s *Sink) SettlementOpened(st event.Settlement) {
	if err := s.store.OpenSettlement(st); err != nil {
		s.log.WithError(err).WithField("seller", st.Seller).Warn("mirror settlement write failed")
	}
}

func (s *Sink) SettlementClosed(st event.Settlement) {
	if err := s.store.CloseSettlement(st.Seller); err != nil {
		s.log.WithError(err).WithField("seller", st.Seller).Warn("mirror settlement delete failed")
	}
}
