// Package store persists a queryable mirror of listings and open settlements
// in bbolt. The settlement core never reads it back; it exists for
// aggregators and the stale-settlement monitor.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"go.etcd.io/bbolt"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/event"
)

var (
	bucketListings    = []byte("listings")
	bucketSettlements = []byte("settlements")
)

// Store wraps a bbolt database holding the listing and settlement mirror.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt database at dbPath. The parent directory
// is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketListings, bucketSettlements} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("store: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

type listingRecord struct {
	Seller   string `json:"seller"`
	Class    string `json:"class"`
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Decimals int32  `json:"decimals"`
	Price    string `json:"price"`
}

type settlementRecord struct {
	Seller   string    `json:"seller"`
	Class    string    `json:"class"`
	IDs      []string  `json:"ids"`
	OpenedAt time.Time `json:"opened_at"`
}

// listingKey composes "seller/class:id" so one seller's listings share a
// prefix for scanning.
func listingKey(seller string, key asset.ItemKey) []byte {
	return []byte(seller + "/" + key.String())
}

// PutListing inserts or overwrites the mirror record of a listing.
func (s *Store) PutListing(l event.Listing) error {
	rec := listingRecord{
		Seller:   l.Seller,
		Class:    string(l.Item.Class),
		ID:       string(l.Item.ID),
		Currency: l.Currency.Code,
		Decimals: l.Currency.Decimals,
		Price:    l.Price.String(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode listing: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketListings).Put(listingKey(l.Seller, l.Item), data); err != nil {
			return fmt.Errorf("store: put listing: %w", err)
		}
		return nil
	})
}

// DeleteListing removes the mirror record of a listing.
func (s *Store) DeleteListing(seller string, key asset.ItemKey) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketListings)
		k := listingKey(seller, key)
		if b.Get(k) == nil {
			return fmt.Errorf("%w: %s", ErrListingNotFound, k)
		}
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("store: delete listing: %w", err)
		}
		return nil
	})
}

// Listings returns every mirrored listing of one seller.
func (s *Store) Listings(seller string) ([]event.Listing, error) {
	prefix := []byte(seller + "/")
	var out []event.Listing
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketListings).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			l, err := decodeListing(v)
			if err != nil {
				return err
			}
			out = append(out, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeListing(data []byte) (event.Listing, error) {
	var rec listingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return event.Listing{}, fmt.Errorf("store: decode listing: %w", err)
	}
	price, err := decimal.NewFromString(rec.Price)
	if err != nil {
		return event.Listing{}, fmt.Errorf("store: decode listing price: %w", err)
	}
	return event.Listing{
		Seller:   rec.Seller,
		Item:     asset.ItemKey{Class: asset.ItemClass(rec.Class), ID: asset.ItemID(rec.ID)},
		Currency: asset.Currency{Code: rec.Currency, Decimals: rec.Decimals},
		Price:    price,
	}, nil
}

// OpenSettlement records an open settlement window for a seller. At most one
// is outstanding per escrow account, so the seller id is the key.
func (s *Store) OpenSettlement(st event.Settlement) error {
	rec := settlementRecord{
		Seller:   st.Seller,
		Class:    string(st.Class),
		OpenedAt: st.OpenedAt,
	}
	for _, id := range st.IDs {
		rec.IDs = append(rec.IDs, string(id))
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode settlement: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSettlements).Put([]byte(st.Seller), data); err != nil {
			return fmt.Errorf("store: put settlement: %w", err)
		}
		return nil
	})
}

// CloseSettlement removes the open settlement record of a seller.
func (s *Store) CloseSettlement(seller string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSettlements)
		if b.Get([]byte(seller)) == nil {
			return fmt.Errorf("%w: %s", ErrSettlementNotFound, seller)
		}
		if err := b.Delete([]byte(seller)); err != nil {
			return fmt.Errorf("store: delete settlement: %w", err)
		}
		return nil
	})
}

// OpenSettlements returns every settlement window still open.
func (s *Store) OpenSettlements() ([]event.Settlement, error) {
	var out []event.Settlement
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSettlements).ForEach(func(k, v []byte) error {
			var rec settlementRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("store: decode settlement: %w", err)
			}
			st := event.Settlement{
				Seller:   rec.Seller,
				Class:    asset.ItemClass(rec.Class),
				OpenedAt: rec.OpenedAt,
			}
			for _, id := range rec.IDs {
				st.IDs = append(st.IDs, asset.ItemID(id))
			}
			out = append(out, st)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
