// Package ledger provides the platform primitives the settlement protocol
// runs against: holding accounts, per-collection transfer gates, and the
// pull-style revenue locker. Every external call executes as one serialized
// transaction, so none of these types carry locks.
package ledger

import (
	"fmt"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
)

// TxID identifies the enclosing transaction of an external call. It stands in
// for the platform's transaction hash and drives the same-transaction replay
// guard on royalty-enforced listings.
type TxID string

// Gate is the transfer-restriction rule of one item class: while restricted,
// only holders of an allowed credential class may receive items; while
// relaxed, anyone may. Only the gate admin credential can toggle it.
type Gate struct {
	admin   credential.Class
	allowed map[credential.Class]struct{}
	open    bool
}

// NewGate creates a restricted gate administered by admin. Holders of any
// class in allowed may receive items while the gate is restricted.
func NewGate(admin credential.Class, allowed ...credential.Class) *Gate {
	g := &Gate{
		admin:   admin,
		allowed: make(map[credential.Class]struct{}, len(allowed)),
	}
	for _, class := range allowed {
		g.allowed[class] = struct{}{}
	}
	return g
}

// Allows reports whether a holder of by may currently receive items.
func (g *Gate) Allows(by credential.Credential) bool {
	if g.open {
		return true
	}
	_, ok := g.allowed[by.Class()]
	return ok
}

// IsOpen reports whether the gate is currently relaxed.
func (g *Gate) IsOpen() bool {
	return g.open
}

// Relax opens the gate so any holder may receive items.
func (g *Gate) Relax(by credential.Credential) error {
	if by.Class() != g.admin {
		return fmt.Errorf("%w: relax", ErrNotGateAdmin)
	}
	g.open = true
	return nil
}

// Restore returns the gate to its restricted rule.
func (g *Gate) Restore(by credential.Credential) error {
	if by.Class() != g.admin {
		return fmt.Errorf("%w: restore", ErrNotGateAdmin)
	}
	g.open = false
	return nil
}

// GateRegistry maps item classes to their transfer gates. Classes without a
// gate are unrestricted plain collections.
type GateRegistry struct {
	gates map[asset.ItemClass]*Gate
}

// NewGateRegistry creates an empty registry.
func NewGateRegistry() *GateRegistry {
	return &GateRegistry{gates: make(map[asset.ItemClass]*Gate)}
}

// Register binds a gate to an item class.
func (r *GateRegistry) Register(class asset.ItemClass, gate *Gate) error {
	if _, ok := r.gates[class]; ok {
		return fmt.Errorf("%w: %s", ErrGateExists, class)
	}
	r.gates[class] = gate
	return nil
}

// Lookup returns the gate for an item class, or nil for plain collections.
func (r *GateRegistry) Lookup(class asset.ItemClass) *Gate {
	return r.gates[class]
}
