// Package asset defines the item and value types moved around by the
// settlement protocol: uniquely-identified collectibles and fixed-point
// funds buckets.
package asset

import "fmt"

// ItemClass identifies a collection of uniquely-identified items.
type ItemClass string

// ItemID is unique within an ItemClass.
type ItemID string

// ItemKey is the global identifier of a single item.
type ItemKey struct {
	Class ItemClass
	ID    ItemID
}

func (k ItemKey) String() string {
	return fmt.Sprintf("%s:%s", k.Class, k.ID)
}

// Item is a collectible. Custody is expressed by which vault or account
// currently holds the value; the struct itself carries no ownership.
type Item struct {
	Key  ItemKey
	Name string
}

// Currency identifies a payment currency and its fixed-point precision.
// Amounts in this currency carry at most Decimals fractional digits.
type Currency struct {
	Code     string
	Decimals int32
}

func (c Currency) String() string {
	return c.Code
}
