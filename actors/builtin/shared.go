package builtin

import (
	"fmt"
	"io"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/boostmarket/go-boost-actors/actors/runtime"
)

///// Code shared by multiple built-in actors. /////

// Default log2 of branching factor for HAMTs.
const DefaultHamtBitwidth = 5

// Aborts with an ErrIllegalArgument if predicate is not true.
func RequireParam(rt runtime.Runtime, predicate bool, msg string, args ...interface{}) {
	if !predicate {
		rt.Abortf(exitcode.ErrIllegalArgument, msg, args...)
	}
}

// Propagates a failed send by aborting the current method with the same exit code.
func RequireSuccess(rt runtime.Runtime, e exitcode.ExitCode, msg string, args ...interface{}) {
	if !e.IsSuccess() {
		rt.Abortf(e, msg, args...)
	}
}

// Aborts with a formatted message if err is not nil.
// The provided message will be suffixed by ": %s" and the provided args suffixed by the err.
func RequireNoErr(rt runtime.Runtime, err error, defaultExitCode exitcode.ExitCode, msg string, args ...interface{}) {
	if err != nil {
		newMsg := msg + ": %s"
		newArgs := append(args, err)
		code := exitcode.Unwrap(err, defaultExitCode)
		rt.Abortf(code, newMsg, newArgs...)
	}
}

// Validates that the caller is granted the given method via the govern actor.
func ValidateCallerGranted(rt runtime.Runtime, caller addr.Address, method abi.MethodNum) {
	params := &ValidateGrantedParams{
		Caller: caller,
		Method: method,
	}
	code := rt.Send(GovernActorAddr, MethodsGovern.ValidateGranted, params, abi.NewTokenAmount(0), &Discard{})
	RequireSuccess(rt, code, "failed to validate caller granted")
}

// RequestDelegableBalance queries the capacity ledger for an owner's remaining
// delegable balance and lock horizon.
func RequestDelegableBalance(rt runtime.Runtime, owner addr.Address) GetDelegableBalanceReturn {
	var ret GetDelegableBalanceReturn
	params := &AddressParams{Address: owner}
	code := rt.Send(LedgerActorAddr, MethodsLedger.GetDelegableBalance, params, abi.NewTokenAmount(0), &ret)
	RequireSuccess(rt, code, "failed fetching delegable balance of %s", owner)
	return ret
}

// RequestLedgerAuthorized checks whether an operator is approved on the
// capacity ledger to delegate on behalf of owner.
func RequestLedgerAuthorized(rt runtime.Runtime, owner, operator addr.Address) bool {
	var ret BoolValue
	params := &IsAuthorizedParams{Owner: owner, Operator: operator}
	code := rt.Send(LedgerActorAddr, MethodsLedger.IsAuthorized, params, abi.NewTokenAmount(0), &ret)
	RequireSuccess(rt, code, "failed checking ledger authorization of %s for %s", operator, owner)
	return ret.Bool
}

// ResolveToIDAddr resolves the given address to its ID address form.
// If an ID address for the given address doesn't exist yet, it tries to create one by sending a zero balance to the given address.
func ResolveToIDAddr(rt runtime.Runtime, address addr.Address) (addr.Address, error) {
	// if we are able to resolve it to an ID address, return the resolved address
	idAddr, found := rt.ResolveAddress(address)
	if found {
		return idAddr, nil
	}

	// send 0 balance to the account so an ID address for it is created and then try to resolve
	code := rt.Send(address, MethodSend, nil, abi.NewTokenAmount(0), &Discard{})
	if !code.IsSuccess() {
		return address, code.Wrapf("failed to send zero balance to address %v", address)
	}

	// now try to resolve it to an ID address -> fail if not possible
	idAddr, found = rt.ResolveAddress(address)
	if !found {
		return address, fmt.Errorf("failed to resolve address %v to ID address even after sending zero balance", address)
	}

	return idAddr, nil
}

// Discard is a helper for ignoring send results.
type Discard struct{}

func (d *Discard) MarshalCBOR(_ io.Writer) error {
	// serialization is a noop
	return nil
}

func (d *Discard) UnmarshalCBOR(_ io.Reader) error {
	// deserialization is a noop
	return nil
}

type BoolValue struct {
	Bool bool
}

type AddressParams struct {
	Address addr.Address
}

type ValidateGrantedParams struct {
	Caller addr.Address
	Method abi.MethodNum
}

// Params and return types shared between the market and ledger actors,
// duplicated here to avoid a circular dependency between the packages.

type GetDelegableBalanceReturn struct {
	Balance     abi.TokenAmount
	LockHorizon abi.ChainEpoch
}

type IsAuthorizedParams struct {
	Owner    addr.Address
	Operator addr.Address
}

type IssueLeaseParams struct {
	Owner    addr.Address
	Receiver addr.Address
	Amount   abi.TokenAmount
	CancelAt abi.ChainEpoch
	ExpireAt abi.ChainEpoch
}

type IssueLeaseReturn struct {
	ID     uint64
	Amount abi.TokenAmount
}

type LeaseIDParams struct {
	ID uint64
}

type LeaseAmountReturn struct {
	Amount abi.TokenAmount
}

type GetBlockingLeaseParams struct {
	Owner    addr.Address
	Receiver addr.Address
}

type GetBlockingLeaseReturn struct {
	Found    bool
	ID       uint64
	ExpireAt abi.ChainEpoch
}
