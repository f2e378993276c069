package boost_test

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
	"github.com/boostmarket/go-boost-actors/actors/builtin/boost"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
	"github.com/boostmarket/go-boost-actors/support/mock"
	tutil "github.com/boostmarket/go-boost-actors/support/testing"
)

func TestExports(t *testing.T) {
	mock.CheckActorExports(t, boost.Actor{})
}

type marketHarness struct {
	boost.Actor
	t *testing.T
}

func setupMarket(t *testing.T) (*mock.Runtime, *marketHarness) {
	builder := mock.NewBuilder(context.Background(), builtin.MarketActorAddr).
		WithCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)
	rt := builder.Build(t)

	h := &marketHarness{boost.Actor{}, t}
	rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	rt.Call(h.Constructor, &boost.ConstructorParams{
		FeeReserveRatio:    1000,
		MinPercentRequired: 100,
		AdvisedPrice:       abi.NewTokenAmount(2),
	})
	rt.Verify()
	return rt, h
}

func defaultOffer() *boost.OfferParams {
	return &boost.OfferParams{
		PricePerVote: abi.NewTokenAmount(1),
		MinPercent:   100,
		MaxPercent:   5000,
	}
}

// expectAuthorized queues the ledger authorization check the market performs
// before touching a seller's capacity.
func (h *marketHarness) expectAuthorized(rt *mock.Runtime, seller addr.Address, ok bool) {
	rt.ExpectSend(builtin.LedgerActorAddr, builtin.MethodsLedger.IsAuthorized,
		&builtin.IsAuthorizedParams{Owner: seller, Operator: builtin.MarketActorAddr},
		big.Zero(), &builtin.BoolValue{Bool: ok}, exitcode.Ok)
}

func (h *marketHarness) expectBalance(rt *mock.Runtime, seller addr.Address, balance abi.TokenAmount, horizon abi.ChainEpoch) {
	rt.ExpectSend(builtin.LedgerActorAddr, builtin.MethodsLedger.GetDelegableBalance,
		&builtin.AddressParams{Address: seller},
		big.Zero(), &builtin.GetDelegableBalanceReturn{Balance: balance, LockHorizon: horizon}, exitcode.Ok)
}

func (h *marketHarness) expectIssue(rt *mock.Runtime, seller, receiver addr.Address,
	amount abi.TokenAmount, cancelAt, end abi.ChainEpoch, id uint64, realized abi.TokenAmount) {
	rt.ExpectSend(builtin.LedgerActorAddr, builtin.MethodsLedger.IssueLease,
		&builtin.IssueLeaseParams{Owner: seller, Receiver: receiver, Amount: amount, CancelAt: cancelAt, ExpireAt: end},
		big.Zero(), &builtin.IssueLeaseReturn{ID: id, Amount: realized}, exitcode.Ok)
}

// expectGranted queues the govern check for an admin method invoked by caller.
func (h *marketHarness) expectGranted(rt *mock.Runtime, caller addr.Address, method abi.MethodNum) {
	rt.ExpectValidateCallerAny()
	rt.ExpectSend(builtin.GovernActorAddr, builtin.MethodsGovern.ValidateGranted,
		&builtin.ValidateGrantedParams{Caller: caller, Method: method},
		big.Zero(), nil, exitcode.Ok)
}

func (h *marketHarness) register(rt *mock.Runtime, seller addr.Address, params *boost.OfferParams) {
	rt.SetCaller(seller, builtin.AccountActorCodeID)
	rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
	h.expectAuthorized(rt, seller, true)
	rt.Call(h.Register, params)
	rt.Verify()
}

func (h *marketHarness) pause(rt *mock.Runtime, governor addr.Address) {
	rt.SetCaller(governor, builtin.AccountActorCodeID)
	h.expectGranted(rt, governor, builtin.MethodsMarket.Pause)
	rt.Call(h.Pause, &abi.EmptyValue{})
	rt.Verify()
}

func (h *marketHarness) startRewards(rt *mock.Runtime, governor addr.Address, params *boost.StartRewardParams) {
	rt.SetCaller(governor, builtin.AccountActorCodeID)
	h.expectGranted(rt, governor, builtin.MethodsMarket.StartRewardDistribution)
	rt.Call(h.StartRewardDistribution, params)
	rt.Verify()
}

// buy runs a full single-offer purchase against a seller with the given
// delegable balance, mocking the ledger round trips.
func (h *marketHarness) buy(rt *mock.Runtime, buyer addr.Address, params *boost.BuyParams,
	maxFee, balance abi.TokenAmount, horizon abi.ChainEpoch, id uint64) *boost.BuyReturn {

	now := rt.CurrEpoch()
	cancelAt := now + abi.ChainEpoch(params.Duration)*boost.RewardPeriod
	end := builtin.PeriodStart(cancelAt, boost.RewardPeriod)
	if end < cancelAt {
		end += boost.RewardPeriod
	}
	amount := big.Div(big.Mul(balance, big.NewIntUnsigned(params.Percent)), big.NewInt(builtin.BasisPoints))
	fee := big.Div(big.Mul(big.Mul(amount, abi.NewTokenAmount(1)), big.NewInt(int64(end-now))), builtin.TokenPrecision)

	rt.SetCaller(buyer, builtin.AccountActorCodeID)
	rt.SetReceived(maxFee)
	rt.SetBalance(big.Add(rt.Balance(), maxFee))
	rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
	h.expectAuthorized(rt, params.Seller, true)
	h.expectBalance(rt, params.Seller, balance, horizon)
	h.expectIssue(rt, params.Seller, params.Receiver, amount, cancelAt, end, id, amount)
	refund := big.Sub(maxFee, fee)
	if refund.GreaterThan(big.Zero()) {
		rt.ExpectSend(buyer, builtin.MethodSend, nil, refund, nil, exitcode.Ok)
	}
	ret := rt.Call(h.Buy, params).(*boost.BuyReturn)
	rt.Verify()
	rt.SetReceived(big.Zero())

	require.Equal(h.t, id, ret.ID)
	require.Equal(h.t, amount, ret.Amount)
	require.Equal(h.t, fee, ret.Fees)
	return ret
}

func (h *marketHarness) checkState(rt *mock.Runtime) {
	var st boost.State
	rt.GetState(&st)
	_, acc := boost.CheckStateInvariants(&st, rt.AdtStore())
	assert.True(h.t, acc.IsEmpty(), strings.Join(acc.Messages(), "\n"))
}

func (h *marketHarness) state(rt *mock.Runtime) *boost.State {
	var st boost.State
	rt.GetState(&st)
	return &st
}

func TestConstruction(t *testing.T) {
	t.Run("valid params", func(t *testing.T) {
		rt, h := setupMarket(t)
		st := h.state(rt)
		require.Equal(t, uint64(1), st.OffersCount)
		require.Equal(t, uint64(1000), st.FeeReserveRatio)
		require.Equal(t, abi.ChainEpoch(0), st.NextUpdatePeriod)
		h.checkState(rt)
	})

	t.Run("rejects bad params", func(t *testing.T) {
		for _, params := range []*boost.ConstructorParams{
			{FeeReserveRatio: boost.MaxFeeReserveRatio + 1, MinPercentRequired: 100, AdvisedPrice: abi.NewTokenAmount(2)},
			{FeeReserveRatio: 1000, MinPercentRequired: 0, AdvisedPrice: abi.NewTokenAmount(2)},
			{FeeReserveRatio: 1000, MinPercentRequired: builtin.BasisPoints + 1, AdvisedPrice: abi.NewTokenAmount(2)},
			{FeeReserveRatio: 1000, MinPercentRequired: 100, AdvisedPrice: big.Zero()},
		} {
			rt := mock.NewBuilder(context.Background(), builtin.MarketActorAddr).
				WithCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID).
				Build(t)
			actor := boost.Actor{}
			rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
			rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
				rt.Call(actor.Constructor, params)
			})
		}
	})
}

func TestRegister(t *testing.T) {
	seller := tutil.NewIDAddr(t, 100)
	governor := tutil.NewIDAddr(t, 103)

	t.Run("registers an offer", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		st := h.state(rt)
		require.Equal(t, uint64(2), st.OffersCount)
		h.checkState(rt)
	})

	t.Run("rejects duplicate registration", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		h.expectAuthorized(rt, seller, true)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "already registered", func() {
			rt.Call(h.Register, defaultOffer())
		})
		rt.Verify()
	})

	t.Run("requires ledger authorization", func(t *testing.T) {
		rt, h := setupMarket(t)

		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		h.expectAuthorized(rt, seller, false)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "not authorized", func() {
			rt.Call(h.Register, defaultOffer())
		})
		rt.Verify()
	})

	t.Run("rejects bad offer params", func(t *testing.T) {
		bad := []*boost.OfferParams{
			{PricePerVote: big.Zero(), MinPercent: 100, MaxPercent: 5000},
			{PricePerVote: abi.NewTokenAmount(1), MinPercent: 100, MaxPercent: builtin.BasisPoints + 1},
			{PricePerVote: abi.NewTokenAmount(1), MinPercent: 6000, MaxPercent: 5000},
			{PricePerVote: abi.NewTokenAmount(1), MinPercent: 1, MaxPercent: 5000}, // below protocol floor
			{PricePerVote: abi.NewTokenAmount(1), MinPercent: 100, MaxPercent: 5000, ExpireAt: boost.RewardPeriod + 1},
		}
		for _, params := range bad {
			rt, h := setupMarket(t)
			rt.SetCaller(seller, builtin.AccountActorCodeID)
			rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
			rt.ExpectAbort(exitcode.ErrIllegalArgument, func() {
				rt.Call(h.Register, params)
			})
		}
	})

	t.Run("advised price needs no own price", func(t *testing.T) {
		rt, h := setupMarket(t)
		params := defaultOffer()
		params.PricePerVote = big.Zero()
		params.UseAdvisedPrice = true
		h.register(rt, seller, params)
		h.checkState(rt)
	})

	t.Run("rejected while paused", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.pause(rt, governor)

		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "paused", func() {
			rt.Call(h.Register, defaultOffer())
		})
	})
}

func TestUpdateOffer(t *testing.T) {
	seller := tutil.NewIDAddr(t, 100)

	t.Run("unregistered seller rejected", func(t *testing.T) {
		rt, h := setupMarket(t)
		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "not registered", func() {
			rt.Call(h.UpdateOffer, defaultOffer())
		})
	})

	t.Run("replaces the standing offer", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		updated := defaultOffer()
		updated.PricePerVote = abi.NewTokenAmount(9)
		updated.MaxPercent = 8000
		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.Call(h.UpdateOffer, updated)
		rt.Verify()

		st := h.state(rt)
		offers, err := adt.AsArray(rt.AdtStore(), st.Offers, boost.OffersAmtBitwidth)
		require.NoError(t, err)
		var offer boost.Offer
		found, err := offers.Get(1, &offer)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, abi.NewTokenAmount(9), offer.PricePerVote)
		require.Equal(t, uint64(8000), offer.MaxPercent)
		h.checkState(rt)
	})

	t.Run("price-only update", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.Call(h.UpdateOfferPrice, &boost.OfferPriceParams{PricePerVote: big.Zero(), UseAdvisedPrice: true})
		rt.Verify()

		st := h.state(rt)
		offers, err := adt.AsArray(rt.AdtStore(), st.Offers, boost.OffersAmtBitwidth)
		require.NoError(t, err)
		var offer boost.Offer
		_, err = offers.Get(1, &offer)
		require.NoError(t, err)
		require.True(t, offer.UseAdvisedPrice)
		require.Equal(t, uint64(5000), offer.MaxPercent)
	})
}

func TestQuit(t *testing.T) {
	seller := tutil.NewIDAddr(t, 100)

	t.Run("removes the offer", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.Call(h.Quit, &abi.EmptyValue{})
		rt.Verify()

		require.Equal(t, uint64(1), h.state(rt).OffersCount)
		h.checkState(rt)
	})

	t.Run("unregistered seller rejected", func(t *testing.T) {
		rt, h := setupMarket(t)
		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "not registered", func() {
			rt.Call(h.Quit, &abi.EmptyValue{})
		})
	})
}

func TestBuy(t *testing.T) {
	seller := tutil.NewIDAddr(t, 100)
	buyer := tutil.NewIDAddr(t, 101)
	week := boost.RewardPeriod

	buyParams := func() *boost.BuyParams {
		return &boost.BuyParams{Seller: seller, Receiver: buyer, Percent: 5000, Duration: 1}
	}

	t.Run("purchases a lease and refunds spare fees", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		// Half of a 200 unit balance for one period at price 1.
		ret := h.buy(rt, buyer, buyParams(), abi.NewTokenAmount(3_000_000), tokens(200), 10*week, 1)
		require.Equal(t, tokens(100), ret.Amount)
		require.Equal(t, abi.NewTokenAmount(2_016_000), ret.Fees)

		st := h.state(rt)
		require.Equal(t, abi.NewTokenAmount(201_600), st.ReserveAmount)

		leases, err := adt.AsMap(rt.AdtStore(), st.Leases, builtin.DefaultHamtBitwidth)
		require.NoError(t, err)
		var lease boost.Lease
		found, err := leases.Get(abi.UIntKey(1), &lease)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, seller, lease.Seller)
		require.Equal(t, buyer, lease.Buyer)
		require.Equal(t, tokens(100), lease.Amount)
		require.Equal(t, week, lease.End)
		h.checkState(rt)
	})

	t.Run("partial realization shrinks the fee", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		maxFee := abi.NewTokenAmount(3_000_000)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.SetReceived(maxFee)
		rt.SetBalance(maxFee)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		h.expectAuthorized(rt, seller, true)
		h.expectBalance(rt, seller, tokens(200), 10*week)
		// The ledger realizes only half the requested amount.
		rt.ExpectSend(builtin.LedgerActorAddr, builtin.MethodsLedger.IssueLease,
			&builtin.IssueLeaseParams{Owner: seller, Receiver: buyer, Amount: tokens(100), CancelAt: week, ExpireAt: week},
			big.Zero(), &builtin.IssueLeaseReturn{ID: 1, Amount: tokens(50)}, exitcode.Ok)
		rt.ExpectSend(buyer, builtin.MethodSend, nil, abi.NewTokenAmount(1_992_000), nil, exitcode.Ok)

		ret := rt.Call(h.Buy, buyParams()).(*boost.BuyReturn)
		rt.Verify()
		require.Equal(t, tokens(50), ret.Amount)
		require.Equal(t, abi.NewTokenAmount(1_008_000), ret.Fees)
	})

	t.Run("insufficient fee allowance rejected", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.SetReceived(abi.NewTokenAmount(1000))
		rt.SetBalance(abi.NewTokenAmount(1000))
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		h.expectAuthorized(rt, seller, true)
		h.expectBalance(rt, seller, tokens(200), 10*week)
		rt.ExpectAbortContainsMessage(exitcode.ErrInsufficientFunds, "below estimated fees", func() {
			rt.Call(h.Buy, buyParams())
		})
		rt.Verify()
	})

	t.Run("lease end beyond lock horizon rejected", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.SetReceived(abi.NewTokenAmount(3_000_000))
		rt.SetBalance(abi.NewTokenAmount(3_000_000))
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		h.expectAuthorized(rt, seller, true)
		h.expectBalance(rt, seller, tokens(200), week-1)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "beyond available horizon", func() {
			rt.Call(h.Buy, buyParams())
		})
		rt.Verify()
	})

	t.Run("expired offer rejected", func(t *testing.T) {
		rt, h := setupMarket(t)
		params := defaultOffer()
		params.ExpireAt = week
		h.register(rt, seller, params)

		rt.SetEpoch(week)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.SetReceived(abi.NewTokenAmount(3_000_000))
		rt.SetBalance(abi.NewTokenAmount(3_000_000))
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "expired", func() {
			rt.Call(h.Buy, buyParams())
		})
	})

	t.Run("revoked authorization rejected", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.SetReceived(abi.NewTokenAmount(3_000_000))
		rt.SetBalance(abi.NewTokenAmount(3_000_000))
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		h.expectAuthorized(rt, seller, false)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "revoked", func() {
			rt.Call(h.Buy, buyParams())
		})
		rt.Verify()
	})

	t.Run("percent out of offer bounds rejected", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())

		params := buyParams()
		params.Percent = 6000
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.SetReceived(abi.NewTokenAmount(3_000_000))
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "above offer maximum", func() {
			rt.Call(h.Buy, params)
		})
	})
}

func TestCancel(t *testing.T) {
	seller := tutil.NewIDAddr(t, 100)
	buyer := tutil.NewIDAddr(t, 101)
	stranger := tutil.NewIDAddr(t, 102)
	week := boost.RewardPeriod

	// Buying off a period boundary splits the cancel epoch from the
	// period-aligned end.
	setup := func(t *testing.T) (*mock.Runtime, *marketHarness) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())
		rt.SetEpoch(100)
		h.buy(rt, buyer, &boost.BuyParams{Seller: seller, Receiver: buyer, Percent: 5000, Duration: 1},
			abi.NewTokenAmount(5_000_000), tokens(200), 10*week, 1)
		return rt, h
	}

	cancel := func(rt *mock.Runtime, h *marketHarness, caller addr.Address) {
		rt.SetCaller(caller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectSend(builtin.LedgerActorAddr, builtin.MethodsLedger.CancelLease,
			&builtin.LeaseIDParams{ID: 1}, big.Zero(), nil, exitcode.Ok)
		rt.Call(h.Cancel, &builtin.LeaseIDParams{ID: 1})
		rt.Verify()
	}

	expectForbidden := func(rt *mock.Runtime, h *marketHarness, caller addr.Address) {
		rt.SetCaller(caller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "cannot cancel", func() {
			rt.Call(h.Cancel, &builtin.LeaseIDParams{ID: 1})
		})
	}

	t.Run("buyer cancels immediately", func(t *testing.T) {
		rt, h := setup(t)
		cancel(rt, h, buyer)
		h.checkState(rt)
	})

	t.Run("seller must wait for cancel epoch", func(t *testing.T) {
		rt, h := setup(t)
		expectForbidden(rt, h, seller)

		rt.SetEpoch(100 + week)
		cancel(rt, h, seller)
	})

	t.Run("stranger must wait for lease end", func(t *testing.T) {
		rt, h := setup(t)

		rt.SetEpoch(100 + week)
		expectForbidden(rt, h, stranger)

		rt.SetEpoch(2 * week)
		cancel(rt, h, stranger)
	})

	t.Run("unknown lease rejected", func(t *testing.T) {
		rt, h := setup(t)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "no lease", func() {
			rt.Call(h.Cancel, &builtin.LeaseIDParams{ID: 9})
		})
	})
}

func TestClaimFees(t *testing.T) {
	seller := tutil.NewIDAddr(t, 100)
	buyer := tutil.NewIDAddr(t, 101)
	week := boost.RewardPeriod

	// One purchase leaves the seller 90% of a 2,016,000 fee.
	earned := abi.NewTokenAmount(1_814_400)

	setup := func(t *testing.T) (*mock.Runtime, *marketHarness) {
		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())
		h.buy(rt, buyer, &boost.BuyParams{Seller: seller, Receiver: buyer, Percent: 5000, Duration: 1},
			abi.NewTokenAmount(2_016_000), tokens(200), 10*week, 1)
		return rt, h
	}

	claim := func(rt *mock.Runtime, h *marketHarness, amount, payout abi.TokenAmount) {
		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectSend(seller, builtin.MethodSend, nil, payout, nil, exitcode.Ok)
		rt.Call(h.ClaimFees, &boost.ClaimFeesParams{Amount: amount})
		rt.Verify()
	}

	t.Run("zero amount claims everything", func(t *testing.T) {
		rt, h := setup(t)
		claim(rt, h, big.Zero(), earned)
		h.checkState(rt)
	})

	t.Run("partial claim leaves the rest", func(t *testing.T) {
		rt, h := setup(t)
		claim(rt, h, abi.NewTokenAmount(1_000_000), abi.NewTokenAmount(1_000_000))
		claim(rt, h, big.Zero(), abi.NewTokenAmount(814_400))
	})

	t.Run("overdraw rejected", func(t *testing.T) {
		rt, h := setup(t)
		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrInsufficientFunds, "exceeds earned fees", func() {
			rt.Call(h.ClaimFees, &boost.ClaimFeesParams{Amount: abi.NewTokenAmount(2_000_000)})
		})
	})

	t.Run("nothing to claim rejected", func(t *testing.T) {
		rt, h := setupMarket(t)
		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrInsufficientFunds, "no earned fees", func() {
			rt.Call(h.ClaimFees, &boost.ClaimFeesParams{Amount: big.Zero()})
		})
	})

	t.Run("quit pays out pending fees", func(t *testing.T) {
		rt, h := setup(t)
		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectSend(seller, builtin.MethodSend, nil, earned, nil, exitcode.Ok)
		rt.Call(h.Quit, &abi.EmptyValue{})
		rt.Verify()
		h.checkState(rt)
	})
}

func TestEstimateFees(t *testing.T) {
	seller := tutil.NewIDAddr(t, 100)
	week := boost.RewardPeriod

	rt, h := setupMarket(t)
	h.register(rt, seller, defaultOffer())

	rt.ExpectValidateCallerAny()
	h.expectBalance(rt, seller, tokens(200), 10*week)
	ret := rt.Call(h.EstimateFees, &boost.EstimateFeesParams{
		Seller:   seller,
		Percent:  5000,
		Duration: 1,
	}).(*boost.FeesReturn)
	rt.Verify()
	require.Equal(t, abi.NewTokenAmount(2_016_000), ret.Fees)
}

func TestAdmin(t *testing.T) {
	governor := tutil.NewIDAddr(t, 103)

	t.Run("setters require a grant", func(t *testing.T) {
		rt, h := setupMarket(t)

		rt.SetCaller(governor, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.ExpectSend(builtin.GovernActorAddr, builtin.MethodsGovern.ValidateGranted,
			&builtin.ValidateGrantedParams{Caller: governor, Method: builtin.MethodsMarket.SetAdvisedPrice},
			big.Zero(), nil, exitcode.ErrForbidden)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(h.SetAdvisedPrice, &boost.AmountParams{Amount: abi.NewTokenAmount(5)})
		})
		rt.Verify()
	})

	t.Run("set advised price", func(t *testing.T) {
		rt, h := setupMarket(t)
		rt.SetCaller(governor, builtin.AccountActorCodeID)
		h.expectGranted(rt, governor, builtin.MethodsMarket.SetAdvisedPrice)
		rt.Call(h.SetAdvisedPrice, &boost.AmountParams{Amount: abi.NewTokenAmount(5)})
		rt.Verify()
		require.Equal(t, abi.NewTokenAmount(5), h.state(rt).AdvisedPrice)
	})

	t.Run("set fee reserve ratio", func(t *testing.T) {
		rt, h := setupMarket(t)
		rt.SetCaller(governor, builtin.AccountActorCodeID)
		h.expectGranted(rt, governor, builtin.MethodsMarket.SetFeeReserveRatio)
		rt.Call(h.SetFeeReserveRatio, &boost.RatioParams{Ratio: 2000})
		rt.Verify()
		require.Equal(t, uint64(2000), h.state(rt).FeeReserveRatio)

		h.expectGranted(rt, governor, builtin.MethodsMarket.SetFeeReserveRatio)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "fee reserve ratio", func() {
			rt.Call(h.SetFeeReserveRatio, &boost.RatioParams{Ratio: boost.MaxFeeReserveRatio + 1})
		})
		rt.Verify()
	})

	t.Run("set min percent required", func(t *testing.T) {
		rt, h := setupMarket(t)
		rt.SetCaller(governor, builtin.AccountActorCodeID)
		h.expectGranted(rt, governor, builtin.MethodsMarket.SetMinPercentRequired)
		rt.Call(h.SetMinPercentRequired, &boost.RatioParams{Ratio: 500})
		rt.Verify()
		require.Equal(t, uint64(500), h.state(rt).MinPercentRequired)
	})

	t.Run("pause and unpause", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.pause(rt, governor)
		require.True(t, h.state(rt).Paused)

		rt.SetCaller(governor, builtin.AccountActorCodeID)
		h.expectGranted(rt, governor, builtin.MethodsMarket.Pause)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "already paused", func() {
			rt.Call(h.Pause, &abi.EmptyValue{})
		})
		rt.Verify()

		h.expectGranted(rt, governor, builtin.MethodsMarket.Unpause)
		rt.Call(h.Unpause, &abi.EmptyValue{})
		rt.Verify()
		require.False(t, h.state(rt).Paused)
	})

	t.Run("start reward distribution", func(t *testing.T) {
		rt, h := setupMarket(t)
		rt.SetEpoch(100)
		h.startRewards(rt, governor, &boost.StartRewardParams{
			BaseDropPerVote:      builtin.TokenPrecision,
			MinDropPerVote:       big.Div(builtin.TokenPrecision, big.NewInt(10)),
			TargetPurchaseAmount: tokens(1000),
		})

		// Distribution begins with the next full period.
		st := h.state(rt)
		require.Equal(t, 2*boost.RewardPeriod, st.NextUpdatePeriod)
		require.Equal(t, builtin.TokenPrecision, st.BaseDropPerVote)

		rt.SetCaller(governor, builtin.AccountActorCodeID)
		h.expectGranted(rt, governor, builtin.MethodsMarket.StartRewardDistribution)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "already started", func() {
			rt.Call(h.StartRewardDistribution, &boost.StartRewardParams{
				BaseDropPerVote:      builtin.TokenPrecision,
				MinDropPerVote:       big.Div(builtin.TokenPrecision, big.NewInt(10)),
				TargetPurchaseAmount: tokens(1000),
			})
		})
		rt.Verify()
		h.checkState(rt)
	})

	t.Run("update reward state is permissionless", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.startRewards(rt, governor, &boost.StartRewardParams{
			BaseDropPerVote:      builtin.TokenPrecision,
			MinDropPerVote:       big.Div(builtin.TokenPrecision, big.NewInt(10)),
			TargetPurchaseAmount: tokens(1000),
		})

		rt.SetEpoch(2 * boost.RewardPeriod)
		rt.SetCaller(tutil.NewIDAddr(t, 999), builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAny()
		rt.Call(h.UpdateRewardState, &abi.EmptyValue{})
		rt.Verify()

		require.Equal(t, 3*boost.RewardPeriod, h.state(rt).NextUpdatePeriod)
		h.checkState(rt)
	})

	t.Run("withdraw reserve", func(t *testing.T) {
		seller := tutil.NewIDAddr(t, 100)
		buyer := tutil.NewIDAddr(t, 101)
		recipient := tutil.NewIDAddr(t, 104)
		week := boost.RewardPeriod

		rt, h := setupMarket(t)
		h.register(rt, seller, defaultOffer())
		h.buy(rt, buyer, &boost.BuyParams{Seller: seller, Receiver: buyer, Percent: 5000, Duration: 1},
			abi.NewTokenAmount(2_016_000), tokens(200), 10*week, 1)
		require.Equal(t, abi.NewTokenAmount(201_600), h.state(rt).ReserveAmount)

		rt.SetCaller(governor, builtin.AccountActorCodeID)
		h.expectGranted(rt, governor, builtin.MethodsMarket.WithdrawReserve)
		rt.ExpectSend(recipient, builtin.MethodSend, nil, abi.NewTokenAmount(200_000), nil, exitcode.Ok)
		rt.Call(h.WithdrawReserve, &boost.WithdrawReserveParams{Recipient: recipient, Amount: abi.NewTokenAmount(200_000)})
		rt.Verify()
		require.Equal(t, abi.NewTokenAmount(1_600), h.state(rt).ReserveAmount)

		h.expectGranted(rt, governor, builtin.MethodsMarket.WithdrawReserve)
		rt.ExpectAbortContainsMessage(exitcode.ErrInsufficientFunds, "exceeds reserve", func() {
			rt.Call(h.WithdrawReserve, &boost.WithdrawReserveParams{Recipient: recipient, Amount: abi.NewTokenAmount(2_000)})
		})
		rt.Verify()
		h.checkState(rt)
	})
}

func TestClaimReward(t *testing.T) {
	seller := tutil.NewIDAddr(t, 100)
	seller2 := tutil.NewIDAddr(t, 105)
	buyer := tutil.NewIDAddr(t, 101)
	governor := tutil.NewIDAddr(t, 103)
	week := boost.RewardPeriod

	// Balance sized so the lease's decay step divides evenly.
	balance := big.Mul(big.NewInt(2*int64(week)), big.NewInt(1e15))
	amount := big.Mul(big.NewInt(int64(week)), big.NewInt(1e15))
	fee := big.Div(big.Mul(amount, big.NewInt(int64(week))), builtin.TokenPrecision)
	step := big.Div(amount, big.NewInt(int64(week)))
	reward := big.Div(big.Add(amount, step), big.NewInt(2))

	setup := func(t *testing.T) (*mock.Runtime, *marketHarness) {
		rt, h := setupMarket(t)
		h.startRewards(rt, governor, &boost.StartRewardParams{
			BaseDropPerVote:      builtin.TokenPrecision,
			MinDropPerVote:       big.Div(builtin.TokenPrecision, big.NewInt(10)),
			TargetPurchaseAmount: tokens(1000),
		})
		// Buy within the first distributed period; the remainder of the
		// activation period accrues nothing.
		rt.SetEpoch(week)
		h.register(rt, seller, defaultOffer())
		h.buy(rt, buyer, &boost.BuyParams{Seller: seller, Receiver: buyer, Percent: 5000, Duration: 1},
			fee, balance, 10*week, 1)
		rt.SetBalance(tokens(100))
		return rt, h
	}

	t.Run("pays after the lease ends", func(t *testing.T) {
		rt, h := setup(t)

		rt.SetEpoch(2 * week)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectSend(buyer, builtin.MethodSend, nil, reward, nil, exitcode.Ok)
		rt.Call(h.ClaimReward, &builtin.LeaseIDParams{ID: 1})
		rt.Verify()
		h.checkState(rt)
	})

	t.Run("cannot claim twice", func(t *testing.T) {
		rt, h := setup(t)

		rt.SetEpoch(2 * week)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectSend(buyer, builtin.MethodSend, nil, reward, nil, exitcode.Ok)
		rt.Call(h.ClaimReward, &builtin.LeaseIDParams{ID: 1})
		rt.Verify()

		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "already claimed", func() {
			rt.Call(h.ClaimReward, &builtin.LeaseIDParams{ID: 1})
		})
	})

	t.Run("no reward accrues during the activation period", func(t *testing.T) {
		rt, h := setupMarket(t)
		h.startRewards(rt, governor, &boost.StartRewardParams{
			BaseDropPerVote:      builtin.TokenPrecision,
			MinDropPerVote:       big.Div(builtin.TokenPrecision, big.NewInt(10)),
			TargetPurchaseAmount: tokens(1000),
		})
		h.register(rt, seller, defaultOffer())
		h.buy(rt, buyer, &boost.BuyParams{Seller: seller, Receiver: buyer, Percent: 5000, Duration: 1},
			fee, balance, 10*week, 1)
		rt.SetBalance(tokens(100))

		// The lease runs out inside the partial period before emission
		// begins, so there is nothing to claim even after the index settles.
		rt.SetEpoch(2 * week)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalState, "no reward", func() {
			rt.Call(h.ClaimReward, &builtin.LeaseIDParams{ID: 1})
		})
	})

	t.Run("nothing to pay before the lease ends", func(t *testing.T) {
		rt, h := setup(t)

		rt.SetEpoch(2*week - 1)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalState, "no reward", func() {
			rt.Call(h.ClaimReward, &builtin.LeaseIDParams{ID: 1})
		})
	})

	t.Run("only the buyer may claim", func(t *testing.T) {
		rt, h := setup(t)

		rt.SetEpoch(2 * week)
		rt.SetCaller(seller, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrForbidden, "not buyer", func() {
			rt.Call(h.ClaimReward, &builtin.LeaseIDParams{ID: 1})
		})
	})

	t.Run("claims several leases in one payout", func(t *testing.T) {
		rt, h := setup(t)
		h.register(rt, seller2, defaultOffer())
		h.buy(rt, buyer, &boost.BuyParams{Seller: seller2, Receiver: buyer, Percent: 5000, Duration: 1},
			fee, balance, 10*week, 2)
		rt.SetBalance(tokens(100))

		rt.SetEpoch(2 * week)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectSend(buyer, builtin.MethodSend, nil, big.Mul(big.NewInt(2), reward), nil, exitcode.Ok)
		rt.Call(h.ClaimRewardMultiple, &boost.ClaimRewardMultipleParams{IDs: []uint64{1, 2}})
		rt.Verify()
		h.checkState(rt)
	})

	t.Run("empty lease list rejected", func(t *testing.T) {
		rt, h := setup(t)
		rt.SetCaller(buyer, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerType(builtin.CallerTypesSignable...)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "empty lease list", func() {
			rt.Call(h.ClaimRewardMultiple, &boost.ClaimRewardMultipleParams{IDs: nil})
		})
	})
}
