package ledger

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-bitfield"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"
	"golang.org/x/xerrors"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	. "github.com/boostmarket/go-boost-actors/actors/util"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

// The capacity ledger tracks decaying escrow locks, operator approvals and
// outstanding capacity leases. A lock's balance decays linearly from its
// deposited amount at Start down to zero at Unlock; leases carve a decaying
// slice out of that balance for a receiver.
type State struct {
	// Escrow lock for each account.
	Locks cid.Cid // Map, HAMT[ID-Address]Lock

	// Approved operator actor IDs for each account.
	Operators cid.Cid // Map, HAMT[ID-Address]BitField

	// All leases ever issued, by lease ID. Never deleted.
	Leases cid.Cid // Array, AMT[LeaseID]LeaseGrant

	// Uncancelled lease IDs of each lock owner.
	OwnerLeases cid.Cid // Map, HAMT[ID-Address]BitField

	// ID to assign to the next issued lease.
	NextLeaseID uint64

	// Sum of all lock deposits not yet withdrawn.
	TotalLocked abi.TokenAmount
}

type Lock struct {
	// Deposited amount.
	Amount abi.TokenAmount
	// Epoch the lock was created or last extended.
	Start abi.ChainEpoch
	// Epoch at which the decaying balance reaches zero and the deposit
	// becomes withdrawable.
	Unlock abi.ChainEpoch
}

// BalanceAt returns the decaying balance of the lock at epoch `cur`.
func (l *Lock) BalanceAt(cur abi.ChainEpoch) abi.TokenAmount {
	if cur >= l.Unlock || l.Unlock <= l.Start {
		return big.Zero()
	}
	if cur <= l.Start {
		return l.Amount
	}
	remaining := big.NewInt(int64(l.Unlock - cur))
	total := big.NewInt(int64(l.Unlock - l.Start))
	return big.Div(big.Mul(l.Amount, remaining), total)
}

type LeaseGrant struct {
	Owner    addr.Address
	Receiver addr.Address
	// Amount at issuance; the effective grant decays to zero at ExpireAt.
	Amount abi.TokenAmount
	Start  abi.ChainEpoch
	// Epoch from which the owner (or an operator) may cancel.
	CancelAt  abi.ChainEpoch
	ExpireAt  abi.ChainEpoch
	Cancelled bool
}

// ValueAt returns the decayed grant value at epoch `cur`, zero once
// cancelled or expired.
func (g *LeaseGrant) ValueAt(cur abi.ChainEpoch) abi.TokenAmount {
	if g.Cancelled || cur >= g.ExpireAt || g.ExpireAt <= g.Start {
		return big.Zero()
	}
	if cur <= g.Start {
		return g.Amount
	}
	remaining := big.NewInt(int64(g.ExpireAt - cur))
	total := big.NewInt(int64(g.ExpireAt - g.Start))
	return big.Div(big.Mul(g.Amount, remaining), total)
}

func (g *LeaseGrant) Expired(cur abi.ChainEpoch) bool {
	return cur >= g.ExpireAt
}

func ConstructState(store adt.Store) (*State, error) {
	emptyMapCid, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty map: %w", err)
	}
	emptyArrayCid, err := adt.StoreEmptyArray(store, LeasesAmtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty array: %w", err)
	}

	return &State{
		Locks:       emptyMapCid,
		Operators:   emptyMapCid,
		Leases:      emptyArrayCid,
		OwnerLeases: emptyMapCid,
		// Lease ID 0 is never issued, matching the market's sentinel
		// conventions for "no lease".
		NextLeaseID: 1,
		TotalLocked: abi.NewTokenAmount(0),
	}, nil
}

func (st *State) getLock(locks *adt.Map, owner addr.Address) (*Lock, bool, error) {
	var out Lock
	found, err := locks.Get(abi.AddrKey(owner), &out)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to get lock for %s", owner)
	}
	return &out, found, nil
}

// AddLock creates or extends the owner's escrow lock. Extending requires a
// horizon no earlier than the current one; deposits accumulate.
func (st *State) AddLock(locks *adt.Map, owner addr.Address, amount abi.TokenAmount, unlock, cur abi.ChainEpoch) error {
	lock, found, err := st.getLock(locks, owner)
	if err != nil {
		return err
	}
	if found && cur < lock.Unlock {
		if unlock < lock.Unlock {
			return errors.Errorf("new unlock epoch %d before current %d", unlock, lock.Unlock)
		}
		lock.Amount = big.Add(lock.BalanceAt(cur), amount)
	} else {
		lock.Amount = amount
	}
	lock.Start = cur
	lock.Unlock = unlock

	if err := locks.Put(abi.AddrKey(owner), lock); err != nil {
		return errors.Wrapf(err, "failed to put lock for %s", owner)
	}
	st.TotalLocked = big.Add(st.TotalLocked, amount)
	return nil
}

// SetOperator adds or removes an operator approval for the owner.
func (st *State) SetOperator(operators *adt.Map, owner, operator addr.Address, approve bool) error {
	operatorID, err := addr.IDFromAddress(operator)
	if err != nil {
		return errors.Wrapf(err, "operator %s not an ID address", operator)
	}

	var bf bitfield.BitField
	found, err := operators.Get(abi.AddrKey(owner), &bf)
	if err != nil {
		return errors.Wrapf(err, "failed to get operators of %s", owner)
	}
	if !found {
		if !approve {
			return nil
		}
		bf = bitfield.New()
	}

	if approve {
		bf.Set(operatorID)
	} else {
		bf.Unset(operatorID)
	}

	empty, err := bf.IsEmpty()
	if err != nil {
		return err
	}
	if empty {
		_, err = operators.TryDelete(abi.AddrKey(owner))
		return err
	}
	return operators.Put(abi.AddrKey(owner), bf)
}

// IsAuthorized checks whether operator is approved by owner.
func (st *State) IsAuthorized(operators *adt.Map, owner, operator addr.Address) (bool, error) {
	operatorID, err := addr.IDFromAddress(operator)
	if err != nil {
		return false, errors.Wrapf(err, "operator %s not an ID address", operator)
	}

	var bf bitfield.BitField
	found, err := operators.Get(abi.AddrKey(owner), &bf)
	if err != nil || !found {
		return false, err
	}
	return bf.IsSet(operatorID)
}

// DelegatedAt sums the decayed value of the owner's uncancelled, unexpired
// leases at epoch `cur`.
func (st *State) DelegatedAt(leases *adt.Array, ownerLeases *adt.Map, owner addr.Address, cur abi.ChainEpoch) (abi.TokenAmount, error) {
	total := big.Zero()

	var bf bitfield.BitField
	found, err := ownerLeases.Get(abi.AddrKey(owner), &bf)
	if err != nil || !found {
		return total, err
	}

	err = bf.ForEach(func(id uint64) error {
		grant, found, err := st.getLease(leases, id)
		if err != nil {
			return err
		}
		if !found {
			return errors.Errorf("lease %d missing for owner %s", id, owner)
		}
		total = big.Add(total, grant.ValueAt(cur))
		return nil
	})
	return total, err
}

// DelegableBalance returns the owner's remaining delegable amount and lock
// horizon at epoch `cur`.
func (st *State) DelegableBalance(store adt.Store, owner addr.Address, cur abi.ChainEpoch) (abi.TokenAmount, abi.ChainEpoch, error) {
	locks, err := adt.AsMap(store, st.Locks, builtin.DefaultHamtBitwidth)
	if err != nil {
		return big.Zero(), 0, xerrors.Errorf("failed to load locks: %w", err)
	}
	lock, found, err := st.getLock(locks, owner)
	if err != nil {
		return big.Zero(), 0, err
	}
	if !found {
		return big.Zero(), 0, nil
	}

	leases, err := adt.AsArray(store, st.Leases, LeasesAmtBitwidth)
	if err != nil {
		return big.Zero(), 0, xerrors.Errorf("failed to load leases: %w", err)
	}
	ownerLeases, err := adt.AsMap(store, st.OwnerLeases, builtin.DefaultHamtBitwidth)
	if err != nil {
		return big.Zero(), 0, xerrors.Errorf("failed to load owner leases: %w", err)
	}

	delegated, err := st.DelegatedAt(leases, ownerLeases, owner, cur)
	if err != nil {
		return big.Zero(), 0, err
	}

	balance := lock.BalanceAt(cur)
	if balance.LessThanEqual(delegated) {
		return big.Zero(), lock.Unlock, nil
	}
	return big.Sub(balance, delegated), lock.Unlock, nil
}

func (st *State) getLease(leases *adt.Array, id uint64) (*LeaseGrant, bool, error) {
	var out LeaseGrant
	found, err := leases.Get(id, &out)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to get lease %d", id)
	}
	return &out, found, nil
}

// FindBlockingLease returns the ID of an uncancelled lease between owner and
// receiver, if any. Expired-but-uncancelled leases still block new issuance.
func (st *State) FindBlockingLease(leases *adt.Array, ownerLeases *adt.Map, owner, receiver addr.Address) (uint64, bool, error) {
	var bf bitfield.BitField
	found, err := ownerLeases.Get(abi.AddrKey(owner), &bf)
	if err != nil || !found {
		return 0, false, err
	}

	blocking := uint64(0)
	foundBlocking := false
	err = bf.ForEach(func(id uint64) error {
		if foundBlocking {
			return nil
		}
		grant, found, err := st.getLease(leases, id)
		if err != nil {
			return err
		}
		if found && !grant.Cancelled && grant.Receiver == receiver {
			blocking = id
			foundBlocking = true
		}
		return nil
	})
	return blocking, foundBlocking, err
}

// IssueLease records a new lease grant and returns its ID and realized
// amount (the requested amount capped by the remaining delegable balance).
func (st *State) IssueLease(store adt.Store, leases *adt.Array, ownerLeases *adt.Map,
	params *builtin.IssueLeaseParams, cur abi.ChainEpoch) (uint64, abi.TokenAmount, error) {

	delegable, horizon, err := st.DelegableBalance(store, params.Owner, cur)
	if err != nil {
		return 0, big.Zero(), err
	}
	if delegable.IsZero() {
		return 0, big.Zero(), errors.Errorf("no delegable balance for %s", params.Owner)
	}
	if params.ExpireAt > horizon {
		return 0, big.Zero(), errors.Errorf("lease expiry %d beyond lock horizon %d", params.ExpireAt, horizon)
	}

	amount := params.Amount
	if amount.GreaterThan(delegable) {
		amount = delegable
	}

	_, blocked, err := st.FindBlockingLease(leases, ownerLeases, params.Owner, params.Receiver)
	if err != nil {
		return 0, big.Zero(), err
	}
	if blocked {
		return 0, big.Zero(), errors.Errorf("uncancelled lease between %s and %s", params.Owner, params.Receiver)
	}

	id := st.NextLeaseID
	grant := &LeaseGrant{
		Owner:    params.Owner,
		Receiver: params.Receiver,
		Amount:   amount,
		Start:    cur,
		CancelAt: params.CancelAt,
		ExpireAt: params.ExpireAt,
	}
	if err := leases.Set(id, grant); err != nil {
		return 0, big.Zero(), errors.Wrapf(err, "failed to put lease %d", id)
	}

	var bf bitfield.BitField
	found, err := ownerLeases.Get(abi.AddrKey(params.Owner), &bf)
	if err != nil {
		return 0, big.Zero(), err
	}
	if !found {
		bf = bitfield.New()
	}
	bf.Set(id)
	if err := ownerLeases.Put(abi.AddrKey(params.Owner), bf); err != nil {
		return 0, big.Zero(), err
	}

	st.NextLeaseID++
	return id, amount, nil
}

// CancelLease marks a lease cancelled and drops it from the owner's active
// set. The grant record itself is retained.
func (st *State) CancelLease(leases *adt.Array, ownerLeases *adt.Map, id uint64) (*LeaseGrant, error) {
	grant, found, err := st.getLease(leases, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Errorf("lease %d not found", id)
	}
	if grant.Cancelled {
		return nil, errors.Errorf("lease %d already cancelled", id)
	}

	grant.Cancelled = true
	if err := leases.Set(id, grant); err != nil {
		return nil, errors.Wrapf(err, "failed to update lease %d", id)
	}

	var bf bitfield.BitField
	found, err = ownerLeases.Get(abi.AddrKey(grant.Owner), &bf)
	if err != nil {
		return nil, err
	}
	Assert(found)
	bf.Unset(id)
	empty, err := bf.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		if _, err := ownerLeases.TryDelete(abi.AddrKey(grant.Owner)); err != nil {
			return nil, err
		}
	} else if err := ownerLeases.Put(abi.AddrKey(grant.Owner), bf); err != nil {
		return nil, err
	}
	return grant, nil
}
