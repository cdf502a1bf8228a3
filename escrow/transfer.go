package escrow

import (
	"fmt"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
	"github.com/opentradeorg/libopentrade-go/ledger"
	"github.com/opentradeorg/libopentrade-go/royalty"
)

// SameOwnerTransfer moves an item between two accounts proven to share one
// owner. No sale happens, so no royalty is due; the gate authority deposits
// on the owner's behalf for restricted classes.
func (a *Account) SameOwnerTransfer(key asset.ItemKey, from, to *ledger.Account, by credential.Credential) error {
	if !from.OwnedBy(by) || !to.OwnedBy(by) {
		return fmt.Errorf("%w: accounts not owned by caller", ErrPermissionDenied)
	}
	item, err := from.WithdrawItem(key, by)
	if err != nil {
		return err
	}
	depositor := by
	if b := a.binding(key.Class); b != nil {
		depositor = b.gateAdmin
	}
	if err := to.Deposit(item, depositor); err != nil {
		// undo the withdrawal so the call leaves no partial state
		from.Mint(item)
		return err
	}
	return nil
}

// TransferToComponent forwards a seller's item to a typed external
// destination. Royalty-enforced classes route through the policy so its
// destination allow-list applies and the gate is relaxed only for the call.
func (a *Account) TransferToComponent(item asset.Item, dest royalty.ExternalDestination, by credential.Credential) ([]asset.Item, error) {
	if err := a.requireOwner(by); err != nil {
		return nil, err
	}
	if b := a.binding(item.Key.Class); b != nil {
		return b.policy.TransferToDapp(item, dest)
	}
	return dest.Receive(item)
}
