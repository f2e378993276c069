package ledger_test

import (
	"context"
	"strings"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/builtin/ledger"
	"github.com/boostmarket/go-boost-actors/support/mock"
	tutil "github.com/boostmarket/go-boost-actors/support/testing"
)

func TestExports(t *testing.T) {
	mock.CheckActorExports(t, ledger.Actor{})
}

type lHarness struct {
	ledger.Actor
	t *testing.T
}

func setupLedger(t *testing.T) (*mock.Runtime, *lHarness) {
	builder := mock.NewBuilder(context.Background(), builtin.LedgerActorAddr).
		WithCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)
	rt := builder.Build(t)

	h := &lHarness{ledger.Actor{}, t}
	rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	rt.Call(h.Constructor, &abi.EmptyValue{})
	rt.Verify()
	return rt, h
}

func (h *lHarness) lock(rt *mock.Runtime, owner addr.Address, amount abi.TokenAmount, unlock abi.ChainEpoch) {
	rt.SetCaller(owner, builtin.AccountActorCodeID)
	rt.SetReceived(amount)
	rt.SetBalance(big.Add(rt.Balance(), amount))
	rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
	rt.Call(h.Lock, &ledger.LockParams{Unlock: unlock})
	rt.Verify()
	rt.SetReceived(big.Zero())
}

func (h *lHarness) approve(rt *mock.Runtime, owner, operator addr.Address) {
	rt.SetCaller(owner, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
	rt.Call(h.Approve, &builtin.AddressParams{Address: operator})
	rt.Verify()
}

func (h *lHarness) revoke(rt *mock.Runtime, owner, operator addr.Address) {
	rt.SetCaller(owner, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
	rt.Call(h.Revoke, &builtin.AddressParams{Address: operator})
	rt.Verify()
}

func (h *lHarness) delegableBalance(rt *mock.Runtime, owner addr.Address) *builtin.GetDelegableBalanceReturn {
	rt.ExpectValidateCallerAny()
	ret := rt.Call(h.GetDelegableBalance, &builtin.AddressParams{Address: owner}).(*builtin.GetDelegableBalanceReturn)
	rt.Verify()
	return ret
}

func (h *lHarness) isAuthorized(rt *mock.Runtime, owner, operator addr.Address) bool {
	rt.ExpectValidateCallerAny()
	ret := rt.Call(h.IsAuthorized, &builtin.IsAuthorizedParams{Owner: owner, Operator: operator}).(*builtin.BoolValue)
	rt.Verify()
	return ret.Bool
}

func (h *lHarness) issueLease(rt *mock.Runtime, caller addr.Address, params *builtin.IssueLeaseParams) *builtin.IssueLeaseReturn {
	rt.SetCaller(caller, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	ret := rt.Call(h.IssueLease, params).(*builtin.IssueLeaseReturn)
	rt.Verify()
	return ret
}

func (h *lHarness) cancelLease(rt *mock.Runtime, caller addr.Address, id uint64) {
	rt.SetCaller(caller, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerAny()
	rt.Call(h.CancelLease, &builtin.LeaseIDParams{ID: id})
	rt.Verify()
}

func (h *lHarness) checkState(rt *mock.Runtime) {
	var st ledger.State
	rt.GetState(&st)
	_, acc := ledger.CheckStateInvariants(&st, rt.AdtStore())
	assert.True(h.t, acc.IsEmpty(), strings.Join(acc.Messages(), "\n"))
}

const week = abi.ChainEpoch(builtin.EpochsInWeek)

func tokens(n int64) abi.TokenAmount {
	return big.Mul(big.NewInt(n), builtin.TokenPrecision)
}

func TestConstruction(t *testing.T) {
	rt, h := setupLedger(t)

	var st ledger.State
	rt.GetState(&st)
	require.Equal(t, uint64(1), st.NextLeaseID)
	require.Equal(t, big.Zero(), st.TotalLocked)
	h.checkState(rt)
}

func TestLock(t *testing.T) {
	owner := tutil.NewIDAddr(t, 100)

	t.Run("rejects zero value", func(t *testing.T) {
		rt, h := setupLedger(t)
		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.SetReceived(big.Zero())
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "non positive amount", func() {
			rt.Call(h.Lock, &ledger.LockParams{Unlock: week})
		})
	})

	t.Run("rejects unlock bounds", func(t *testing.T) {
		rt, h := setupLedger(t)
		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.SetReceived(tokens(1))

		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "less than", func() {
			rt.Call(h.Lock, &ledger.LockParams{Unlock: ledger.MinLockDuration - 1})
		})

		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "more than", func() {
			rt.Call(h.Lock, &ledger.LockParams{Unlock: ledger.MaxLockDuration + 1})
		})
	})

	t.Run("balance decays linearly to zero", func(t *testing.T) {
		rt, h := setupLedger(t)
		h.lock(rt, owner, tokens(100), 10*week)

		ret := h.delegableBalance(rt, owner)
		require.Equal(t, tokens(100), ret.Balance)
		require.Equal(t, 10*week, ret.LockHorizon)

		rt.SetEpoch(5 * week)
		require.Equal(t, tokens(50), h.delegableBalance(rt, owner).Balance)

		rt.SetEpoch(10 * week)
		require.Equal(t, big.Zero(), h.delegableBalance(rt, owner).Balance)
		h.checkState(rt)
	})

	t.Run("no lock means zero balance and horizon", func(t *testing.T) {
		rt, h := setupLedger(t)
		ret := h.delegableBalance(rt, owner)
		require.Equal(t, big.Zero(), ret.Balance)
		require.Equal(t, abi.ChainEpoch(0), ret.LockHorizon)
	})

	t.Run("extension accumulates remaining balance", func(t *testing.T) {
		rt, h := setupLedger(t)
		h.lock(rt, owner, tokens(100), 10*week)

		// Half decayed, then topped up with a longer horizon.
		rt.SetEpoch(5 * week)
		h.lock(rt, owner, tokens(30), 25*week)

		ret := h.delegableBalance(rt, owner)
		require.Equal(t, tokens(80), ret.Balance)
		require.Equal(t, 25*week, ret.LockHorizon)

		var st ledger.State
		rt.GetState(&st)
		require.Equal(t, tokens(130), st.TotalLocked)
		h.checkState(rt)
	})

	t.Run("cannot shorten horizon of live lock", func(t *testing.T) {
		rt, h := setupLedger(t)
		h.lock(rt, owner, tokens(100), 10*week)

		rt.SetEpoch(week)
		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.SetReceived(tokens(1))
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "before current", func() {
			rt.Call(h.Lock, &ledger.LockParams{Unlock: 5 * week})
		})
	})

	t.Run("expired lock restarts fresh", func(t *testing.T) {
		rt, h := setupLedger(t)
		h.lock(rt, owner, tokens(100), 10*week)

		rt.SetEpoch(10 * week)
		h.lock(rt, owner, tokens(20), 12*week)

		ret := h.delegableBalance(rt, owner)
		require.Equal(t, tokens(20), ret.Balance)
		require.Equal(t, 12*week, ret.LockHorizon)
		h.checkState(rt)
	})
}

func TestOperators(t *testing.T) {
	owner := tutil.NewIDAddr(t, 100)
	operator := tutil.NewIDAddr(t, 101)

	t.Run("approve and revoke", func(t *testing.T) {
		rt, h := setupLedger(t)

		require.False(t, h.isAuthorized(rt, owner, operator))

		h.approve(rt, owner, operator)
		require.True(t, h.isAuthorized(rt, owner, operator))

		h.revoke(rt, owner, operator)
		require.False(t, h.isAuthorized(rt, owner, operator))
		h.checkState(rt)
	})

	t.Run("approval is per owner", func(t *testing.T) {
		rt, h := setupLedger(t)
		other := tutil.NewIDAddr(t, 102)

		h.approve(rt, owner, operator)
		require.False(t, h.isAuthorized(rt, other, operator))
	})

	t.Run("resolves public key operator", func(t *testing.T) {
		rt, h := setupLedger(t)
		pubkey := tutil.NewSECP256K1Addr(t, "operator")
		rt.AddIDAddress(pubkey, operator)

		h.approve(rt, owner, pubkey)
		require.True(t, h.isAuthorized(rt, owner, operator))
	})
}

func TestIssueLease(t *testing.T) {
	owner := tutil.NewIDAddr(t, 100)
	receiver := tutil.NewIDAddr(t, 101)
	operator := tutil.NewIDAddr(t, 102)

	setup := func(t *testing.T) (*mock.Runtime, *lHarness) {
		rt, h := setupLedger(t)
		h.lock(rt, owner, tokens(100), 10*week)
		return rt, h
	}

	t.Run("owner issues lease", func(t *testing.T) {
		rt, h := setup(t)

		ret := h.issueLease(rt, owner, &builtin.IssueLeaseParams{
			Owner:    owner,
			Receiver: receiver,
			Amount:   tokens(40),
			CancelAt: 2 * week,
			ExpireAt: 4 * week,
		})
		require.Equal(t, uint64(1), ret.ID)
		require.Equal(t, tokens(40), ret.Amount)

		require.Equal(t, tokens(60), h.delegableBalance(rt, owner).Balance)
		h.checkState(rt)
	})

	t.Run("amount capped at delegable balance", func(t *testing.T) {
		rt, h := setup(t)

		ret := h.issueLease(rt, owner, &builtin.IssueLeaseParams{
			Owner:    owner,
			Receiver: receiver,
			Amount:   tokens(500),
			CancelAt: 2 * week,
			ExpireAt: 4 * week,
		})
		require.Equal(t, tokens(100), ret.Amount)
		require.Equal(t, big.Zero(), h.delegableBalance(rt, owner).Balance)
	})

	t.Run("expiry beyond lock horizon rejected", func(t *testing.T) {
		rt, h := setup(t)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "beyond lock horizon", func() {
			rt.Call(h.IssueLease, &builtin.IssueLeaseParams{
				Owner:    owner,
				Receiver: receiver,
				Amount:   tokens(10),
				CancelAt: 2 * week,
				ExpireAt: 11 * week,
			})
		})
	})

	t.Run("uncancelled pair lease blocks issuance", func(t *testing.T) {
		rt, h := setup(t)

		params := &builtin.IssueLeaseParams{
			Owner:    owner,
			Receiver: receiver,
			Amount:   tokens(10),
			CancelAt: week,
			ExpireAt: 2 * week,
		}
		h.issueLease(rt, owner, params)

		// Still blocked after expiry until cancelled.
		rt.SetEpoch(3 * week)
		params.ExpireAt = 5 * week
		params.CancelAt = 4 * week
		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "uncancelled lease", func() {
			rt.Call(h.IssueLease, params)
		})

		h.cancelLease(rt, owner, 1)
		ret := h.issueLease(rt, owner, params)
		require.Equal(t, uint64(2), ret.ID)
		h.checkState(rt)
	})

	t.Run("unauthorized caller rejected", func(t *testing.T) {
		rt, h := setup(t)

		rt.SetCaller(operator, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "not authorized", func() {
			rt.Call(h.IssueLease, &builtin.IssueLeaseParams{
				Owner:    owner,
				Receiver: receiver,
				Amount:   tokens(10),
				CancelAt: week,
				ExpireAt: 2 * week,
			})
		})
	})

	t.Run("approved operator issues on behalf of owner", func(t *testing.T) {
		rt, h := setup(t)
		h.approve(rt, owner, operator)

		ret := h.issueLease(rt, operator, &builtin.IssueLeaseParams{
			Owner:    owner,
			Receiver: receiver,
			Amount:   tokens(10),
			CancelAt: week,
			ExpireAt: 2 * week,
		})
		require.Equal(t, uint64(1), ret.ID)
		h.checkState(rt)
	})

	t.Run("owner as receiver rejected", func(t *testing.T) {
		rt, h := setup(t)

		rt.SetCaller(owner, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "identical", func() {
			rt.Call(h.IssueLease, &builtin.IssueLeaseParams{
				Owner:    owner,
				Receiver: owner,
				Amount:   tokens(10),
				CancelAt: week,
				ExpireAt: 2 * week,
			})
		})
	})
}

func TestCancelLease(t *testing.T) {
	owner := tutil.NewIDAddr(t, 100)
	receiver := tutil.NewIDAddr(t, 101)
	operator := tutil.NewIDAddr(t, 102)
	stranger := tutil.NewIDAddr(t, 103)

	setup := func(t *testing.T) (*mock.Runtime, *lHarness) {
		rt, h := setupLedger(t)
		h.lock(rt, owner, tokens(100), 10*week)
		h.issueLease(rt, owner, &builtin.IssueLeaseParams{
			Owner:    owner,
			Receiver: receiver,
			Amount:   tokens(40),
			CancelAt: 2 * week,
			ExpireAt: 4 * week,
		})
		return rt, h
	}

	expectForbidden := func(rt *mock.Runtime, h *lHarness, caller addr.Address) {
		rt.SetCaller(caller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "may not cancel", func() {
			rt.Call(h.CancelLease, &builtin.LeaseIDParams{ID: 1})
		})
	}

	t.Run("receiver cancels immediately", func(t *testing.T) {
		rt, h := setup(t)
		h.cancelLease(rt, receiver, 1)
		h.checkState(rt)
	})

	t.Run("owner must wait for cancel epoch", func(t *testing.T) {
		rt, h := setup(t)
		expectForbidden(rt, h, owner)

		rt.SetEpoch(2 * week)
		h.cancelLease(rt, owner, 1)
	})

	t.Run("stranger must wait for expiry", func(t *testing.T) {
		rt, h := setup(t)
		expectForbidden(rt, h, stranger)

		rt.SetEpoch(2 * week)
		expectForbidden(rt, h, stranger)

		rt.SetEpoch(4 * week)
		h.cancelLease(rt, stranger, 1)
	})

	t.Run("operator cancels immediately", func(t *testing.T) {
		rt, h := setup(t)
		h.approve(rt, owner, operator)
		h.cancelLease(rt, operator, 1)
	})

	t.Run("double cancel rejected", func(t *testing.T) {
		rt, h := setup(t)
		h.cancelLease(rt, receiver, 1)

		rt.SetCaller(receiver, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalState, "already cancelled", func() {
			rt.Call(h.CancelLease, &builtin.LeaseIDParams{ID: 1})
		})
	})

	t.Run("unknown lease rejected", func(t *testing.T) {
		rt, h := setup(t)
		rt.SetCaller(receiver, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "not found", func() {
			rt.Call(h.CancelLease, &builtin.LeaseIDParams{ID: 9})
		})
	})

	t.Run("cancellation frees delegable balance", func(t *testing.T) {
		rt, h := setup(t)
		require.Equal(t, tokens(60), h.delegableBalance(rt, owner).Balance)

		h.cancelLease(rt, receiver, 1)
		require.Equal(t, tokens(100), h.delegableBalance(rt, owner).Balance)
	})
}

func TestLeaseQueries(t *testing.T) {
	owner := tutil.NewIDAddr(t, 100)
	receiver := tutil.NewIDAddr(t, 101)

	setup := func(t *testing.T) (*mock.Runtime, *lHarness) {
		rt, h := setupLedger(t)
		h.lock(rt, owner, tokens(100), 10*week)
		h.issueLease(rt, owner, &builtin.IssueLeaseParams{
			Owner:    owner,
			Receiver: receiver,
			Amount:   tokens(40),
			CancelAt: 2 * week,
			ExpireAt: 4 * week,
		})
		return rt, h
	}

	t.Run("lease amount decays and zeroes at expiry", func(t *testing.T) {
		rt, h := setup(t)

		amountAt := func(epoch abi.ChainEpoch) abi.TokenAmount {
			rt.SetEpoch(epoch)
			rt.ExpectValidateCallerAny()
			ret := rt.Call(h.LeaseAmount, &builtin.LeaseIDParams{ID: 1}).(*builtin.LeaseAmountReturn)
			rt.Verify()
			return ret.Amount
		}

		require.Equal(t, tokens(40), amountAt(0))
		require.Equal(t, tokens(20), amountAt(2*week))
		require.Equal(t, big.Zero(), amountAt(4*week))
	})

	t.Run("blocking lease reported until cancelled", func(t *testing.T) {
		rt, h := setup(t)

		blocking := func() *builtin.GetBlockingLeaseReturn {
			rt.ExpectValidateCallerAny()
			ret := rt.Call(h.GetBlockingLease, &builtin.GetBlockingLeaseParams{
				Owner:    owner,
				Receiver: receiver,
			}).(*builtin.GetBlockingLeaseReturn)
			rt.Verify()
			return ret
		}

		ret := blocking()
		require.True(t, ret.Found)
		require.Equal(t, uint64(1), ret.ID)
		require.Equal(t, 4*week, ret.ExpireAt)

		// Expired but uncancelled still blocks.
		rt.SetEpoch(5 * week)
		require.True(t, blocking().Found)

		h.cancelLease(rt, receiver, 1)
		require.False(t, blocking().Found)
	})
}
