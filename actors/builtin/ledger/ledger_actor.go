package ledger

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/ipfs/go-cid"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/runtime"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

type Runtime = runtime.Runtime

type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.Lock,
		3:                         a.Approve,
		4:                         a.Revoke,
		5:                         a.GetDelegableBalance,
		6:                         a.IsAuthorized,
		7:                         a.IssueLease,
		8:                         a.CancelLease,
		9:                         a.LeaseAmount,
		10:                        a.GetBlockingLease,
	}
}

func (a Actor) Code() cid.Cid {
	return builtin.LedgerActorCodeID
}

func (a Actor) IsSingleton() bool {
	return true
}

func (a Actor) State() cbor.Er {
	return new(State)
}

var _ runtime.VMActor = Actor{}

////////////////////////////////////////////////////////////////////////////////
// Actor methods
////////////////////////////////////////////////////////////////////////////////

func (a Actor) Constructor(rt Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.SystemActorAddr)

	st, err := ConstructState(adt.AsStore(rt))
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct state")

	rt.StateCreate(st)
	return nil
}

type LockParams struct {
	Unlock abi.ChainEpoch
}

// Lock deposits the received value into the caller's escrow lock, decaying
// linearly until the unlock epoch.
func (a Actor) Lock(rt Runtime, params *LockParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)

	amount := rt.ValueReceived()
	builtin.RequireParam(rt, amount.GreaterThan(big.Zero()), "non positive amount to lock")

	cur := rt.CurrEpoch()
	builtin.RequireParam(rt, params.Unlock >= cur+MinLockDuration, "unlock epoch %d less than %d from now", params.Unlock, MinLockDuration)
	builtin.RequireParam(rt, params.Unlock <= cur+MaxLockDuration, "unlock epoch %d more than %d from now", params.Unlock, MaxLockDuration)

	var st State
	rt.StateTransaction(&st, func() {
		locks, err := adt.AsMap(adt.AsStore(rt), st.Locks, builtin.DefaultHamtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load locks")

		err = st.AddLock(locks, rt.Caller(), amount, params.Unlock, cur)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed to lock")

		st.Locks, err = locks.Root()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush locks")
	})
	return nil
}

// Approve authorizes an operator to issue and cancel leases on the caller's
// balance.
func (a Actor) Approve(rt Runtime, params *builtin.AddressParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	setOperator(rt, params.Address, true)
	return nil
}

// Revoke withdraws an operator's authorization. Already-issued leases are
// unaffected.
func (a Actor) Revoke(rt Runtime, params *builtin.AddressParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	setOperator(rt, params.Address, false)
	return nil
}

func setOperator(rt Runtime, operator addr.Address, approve bool) {
	resolved, ok := rt.ResolveAddress(operator)
	builtin.RequireParam(rt, ok, "unable to resolve address %v", operator)

	var st State
	rt.StateTransaction(&st, func() {
		operators, err := adt.AsMap(adt.AsStore(rt), st.Operators, builtin.DefaultHamtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load operators")

		err = st.SetOperator(operators, rt.Caller(), resolved, approve)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to set operator")

		st.Operators, err = operators.Root()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush operators")
	})
}

// GetDelegableBalance returns the owner's remaining delegable balance (the
// decayed lock balance minus decayed outstanding leases) and lock horizon.
func (a Actor) GetDelegableBalance(rt Runtime, params *builtin.AddressParams) *builtin.GetDelegableBalanceReturn {
	rt.ValidateImmediateCallerAcceptAny()

	resolved, ok := rt.ResolveAddress(params.Address)
	builtin.RequireParam(rt, ok, "unable to resolve address %v", params.Address)

	var st State
	rt.StateReadonly(&st)

	balance, horizon, err := st.DelegableBalance(adt.AsStore(rt), resolved, rt.CurrEpoch())
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to compute delegable balance")

	return &builtin.GetDelegableBalanceReturn{
		Balance:     balance,
		LockHorizon: horizon,
	}
}

func (a Actor) IsAuthorized(rt Runtime, params *builtin.IsAuthorizedParams) *builtin.BoolValue {
	rt.ValidateImmediateCallerAcceptAny()

	owner, ok := rt.ResolveAddress(params.Owner)
	builtin.RequireParam(rt, ok, "unable to resolve address %v", params.Owner)
	operator, ok := rt.ResolveAddress(params.Operator)
	builtin.RequireParam(rt, ok, "unable to resolve address %v", params.Operator)

	var st State
	rt.StateReadonly(&st)

	operators, err := adt.AsMap(adt.AsStore(rt), st.Operators, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load operators")

	authorized, err := st.IsAuthorized(operators, owner, operator)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to check authorization")

	return &builtin.BoolValue{Bool: authorized}
}

// IssueLease grants a decaying slice of the owner's balance to a receiver
// until the expiry epoch. Only the owner or an approved operator may issue.
// At most one uncancelled lease may exist per (owner, receiver) pair.
func (a Actor) IssueLease(rt Runtime, params *builtin.IssueLeaseParams) *builtin.IssueLeaseReturn {
	rt.ValidateImmediateCallerAcceptAny()

	owner, ok := rt.ResolveAddress(params.Owner)
	builtin.RequireParam(rt, ok, "unable to resolve address %v", params.Owner)
	receiver, ok := rt.ResolveAddress(params.Receiver)
	builtin.RequireParam(rt, ok, "unable to resolve address %v", params.Receiver)
	builtin.RequireParam(rt, owner != receiver, "owner and receiver identical")
	builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "non positive amount")

	cur := rt.CurrEpoch()
	builtin.RequireParam(rt, params.ExpireAt > cur, "expiry %d not in the future", params.ExpireAt)
	builtin.RequireParam(rt, params.CancelAt <= params.ExpireAt, "cancel epoch %d after expiry %d", params.CancelAt, params.ExpireAt)

	var id uint64
	var amount abi.TokenAmount
	var st State
	rt.StateTransaction(&st, func() {
		store := adt.AsStore(rt)

		if rt.Caller() != owner {
			operators, err := adt.AsMap(store, st.Operators, builtin.DefaultHamtBitwidth)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load operators")
			authorized, err := st.IsAuthorized(operators, owner, rt.Caller())
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to check authorization")
			if !authorized {
				rt.Abortf(exitcode.ErrForbidden, "caller %s not authorized by %s", rt.Caller(), owner)
			}
		}

		leases, err := adt.AsArray(store, st.Leases, LeasesAmtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load leases")
		ownerLeases, err := adt.AsMap(store, st.OwnerLeases, builtin.DefaultHamtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load owner leases")

		resolvedParams := *params
		resolvedParams.Owner = owner
		resolvedParams.Receiver = receiver
		id, amount, err = st.IssueLease(store, leases, ownerLeases, &resolvedParams, cur)
		builtin.RequireNoErr(rt, err, exitcode.ErrForbidden, "failed to issue lease")

		st.Leases, err = leases.Root()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush leases")
		st.OwnerLeases, err = ownerLeases.Root()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush owner leases")
	})

	return &builtin.IssueLeaseReturn{ID: id, Amount: amount}
}

// CancelLease voids a lease grant. Permitted for the receiver and for the
// owner's operators at any time, for the owner from the lease's cancel epoch,
// and for anyone once expired.
func (a Actor) CancelLease(rt Runtime, params *builtin.LeaseIDParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()

	cur := rt.CurrEpoch()
	var st State
	rt.StateTransaction(&st, func() {
		store := adt.AsStore(rt)

		leases, err := adt.AsArray(store, st.Leases, LeasesAmtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load leases")
		ownerLeases, err := adt.AsMap(store, st.OwnerLeases, builtin.DefaultHamtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load owner leases")

		grant, found, err := st.getLease(leases, params.ID)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get lease %d", params.ID)
		builtin.RequireParam(rt, found, "lease %d not found", params.ID)

		caller := rt.Caller()
		allowed := caller == grant.Receiver || cur >= grant.ExpireAt
		if !allowed && caller == grant.Owner {
			allowed = cur >= grant.CancelAt
		}
		if !allowed {
			operators, err := adt.AsMap(store, st.Operators, builtin.DefaultHamtBitwidth)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load operators")
			allowed, err = st.IsAuthorized(operators, grant.Owner, caller)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to check authorization")
		}
		if !allowed {
			rt.Abortf(exitcode.ErrForbidden, "caller %s may not cancel lease %d", caller, params.ID)
		}

		_, err = st.CancelLease(leases, ownerLeases, params.ID)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to cancel lease %d", params.ID)

		st.Leases, err = leases.Root()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush leases")
		st.OwnerLeases, err = ownerLeases.Root()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush owner leases")
	})
	return nil
}

// GetBlockingLease returns the uncancelled lease between an owner and a
// receiver, if one exists. Such a lease blocks new issuance for the pair
// until cancelled, even after expiry.
func (a Actor) GetBlockingLease(rt Runtime, params *builtin.GetBlockingLeaseParams) *builtin.GetBlockingLeaseReturn {
	rt.ValidateImmediateCallerAcceptAny()

	owner, ok := rt.ResolveAddress(params.Owner)
	builtin.RequireParam(rt, ok, "unable to resolve address %v", params.Owner)
	receiver, ok := rt.ResolveAddress(params.Receiver)
	builtin.RequireParam(rt, ok, "unable to resolve address %v", params.Receiver)

	var st State
	rt.StateReadonly(&st)
	store := adt.AsStore(rt)

	leases, err := adt.AsArray(store, st.Leases, LeasesAmtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load leases")
	ownerLeases, err := adt.AsMap(store, st.OwnerLeases, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load owner leases")

	id, found, err := st.FindBlockingLease(leases, ownerLeases, owner, receiver)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to find blocking lease")

	ret := &builtin.GetBlockingLeaseReturn{Found: found, ID: id}
	if found {
		grant, _, err := st.getLease(leases, id)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get lease %d", id)
		ret.ExpireAt = grant.ExpireAt
	}
	return ret
}

// LeaseAmount returns the current decayed value of a lease, zero once
// cancelled or expired.
func (a Actor) LeaseAmount(rt Runtime, params *builtin.LeaseIDParams) *builtin.LeaseAmountReturn {
	rt.ValidateImmediateCallerAcceptAny()

	var st State
	rt.StateReadonly(&st)

	leases, err := adt.AsArray(adt.AsStore(rt), st.Leases, LeasesAmtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load leases")

	grant, found, err := st.getLease(leases, params.ID)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get lease %d", params.ID)
	builtin.RequireParam(rt, found, "lease %d not found", params.ID)

	return &builtin.LeaseAmountReturn{Amount: grant.ValueAt(rt.CurrEpoch())}
}
