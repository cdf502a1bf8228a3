package royalty

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/opentradeorg/libopentrade-go/asset"
	"github.com/opentradeorg/libopentrade-go/credential"
	"github.com/opentradeorg/libopentrade-go/ledger"
)

// ExternalDestination is a non-account integration an item may be sent to:
// a staking pool, a game, a lending vault. Receive takes custody of the item
// and may hand back receipt items.
type ExternalDestination interface {
	ID() string
	Receive(item asset.Item) ([]asset.Item, error)
}

// TransferToDapp sends an item to an external destination, relaxing the
// collection's transfer restriction for exactly the duration of the call.
// If the destination allow-list is on, the destination must be on it.
func (p *Policy) TransferToDapp(item asset.Item, dest ExternalDestination) ([]asset.Item, error) {
	if item.Key.Class != p.class {
		return nil, fmt.Errorf("%w: %s", ErrPolicyMismatch, item.Key.Class)
	}
	if p.limitDapps {
		if _, ok := p.permissionedDapps[dest.ID()]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrDappNotPermitted, dest.ID())
		}
	}

	if err := p.gate.Relax(p.admin); err != nil {
		return nil, err
	}
	returned, err := dest.Receive(item)
	if err != nil {
		err = fmt.Errorf("royalty: destination %s: %w", dest.ID(), err)
	}
	if restoreErr := p.gate.Restore(p.admin); restoreErr != nil {
		return nil, errors.Join(err, restoreErr)
	}
	if err != nil {
		return nil, err
	}
	return returned, nil
}

// DepositViaRouter deposits an item to a holding account outside normal
// settlement, on behalf of an integration. When private trade is limited the
// integration must be permissioned and present its bound badge.
func (p *Policy) DepositViaRouter(item asset.Item, destination *ledger.Account, dapp string, permission credential.Credential) error {
	if item.Key.Class != p.class {
		return fmt.Errorf("%w: %s", ErrPolicyMismatch, item.Key.Class)
	}
	if p.limitPrivateTrade {
		badge, ok := p.permissionedDapps[dapp]
		if !ok {
			return fmt.Errorf("%w: %s", ErrDappNotPermitted, dapp)
		}
		if permission.Class() != badge {
			return fmt.Errorf("%w: %s badge required", ErrDappNotPermitted, dapp)
		}
	}
	return destination.Deposit(item, p.admin)
}

// RemoveRoyaltyConfig is the creator's exit: the rate drops to zero and the
// collection's transfer restriction opens permanently.
func (p *Policy) RemoveRoyaltyConfig(by credential.Credential) error {
	if err := p.requireCreator(by); err != nil {
		return err
	}
	p.rate = decimal.Zero
	return p.gate.Relax(p.admin)
}
