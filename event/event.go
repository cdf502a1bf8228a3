// Package event delivers listing lifecycle notifications to front-ends.
// Emission is fire-and-forget: sinks never return errors and the settlement
// paths never block on them.
package event

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/opentradeorg/libopentrade-go/asset"
)

// Listing is the notification payload shared by all listing events.
type Listing struct {
	Seller   string
	Item     asset.ItemKey
	Currency asset.Currency
	Price    decimal.Decimal
}

// Settlement is the payload for the open/close of a two-phase settlement
// window. IDs are the item ids left in the relaxed-restriction state until
// the window closes.
type Settlement struct {
	Seller   string
	Class    asset.ItemClass
	IDs      []asset.ItemID
	OpenedAt time.Time
}

// Sink receives listing and settlement lifecycle notifications.
type Sink interface {
	ListingCreated(Listing)
	ListingUpdated(Listing)
	ListingCanceled(Listing)
	ListingPurchased(Listing)
	SettlementOpened(Settlement)
	SettlementClosed(Settlement)
}

// NopSink discards all notifications.
type NopSink struct{}

func (NopSink) ListingCreated(Listing)      {}
func (NopSink) ListingUpdated(Listing)      {}
func (NopSink) ListingCanceled(Listing)     {}
func (NopSink) ListingPurchased(Listing)    {}
func (NopSink) SettlementOpened(Settlement) {}
func (NopSink) SettlementClosed(Settlement) {}

// LogSink writes notifications as structured log lines.
type LogSink struct {
	log logrus.FieldLogger
}

// NewLogSink creates a sink logging through log.
func NewLogSink(log logrus.FieldLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) emit(kind string, l Listing) {
	s.log.WithFields(logrus.Fields{
		"event":    kind,
		"seller":   l.Seller,
		"item":     l.Item.String(),
		"currency": l.Currency.Code,
		"price":    l.Price.String(),
	}).Info("listing event")
}

func (s *LogSink) ListingCreated(l Listing)   { s.emit("listing_created", l) }
func (s *LogSink) ListingUpdated(l Listing)   { s.emit("listing_updated", l) }
func (s *LogSink) ListingCanceled(l Listing)  { s.emit("listing_canceled", l) }
func (s *LogSink) ListingPurchased(l Listing) { s.emit("listing_purchased", l) }

func (s *LogSink) settlement(kind string, st Settlement) {
	s.log.WithFields(logrus.Fields{
		"event":     kind,
		"seller":    st.Seller,
		"class":     string(st.Class),
		"items":     len(st.IDs),
		"opened_at": st.OpenedAt.Format(time.RFC3339),
	}).Info("settlement event")
}

func (s *LogSink) SettlementOpened(st Settlement) { s.settlement("settlement_opened", st) }
func (s *LogSink) SettlementClosed(st Settlement) { s.settlement("settlement_closed", st) }
