package boost

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/ipfs/go-cid"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/runtime"
	. "github.com/boostmarket/go-boost-actors/actors/util"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

type Runtime = runtime.Runtime

type Actor struct{}

func (a Actor) Exports() []interface{} {
	return []interface{}{
		builtin.MethodConstructor: a.Constructor,
		2:                         a.Register,
		3:                         a.UpdateOffer,
		4:                         a.UpdateOfferPrice,
		5:                         a.Quit,
		6:                         a.EstimateFees,
		7:                         a.Buy,
		8:                         a.Cancel,
		9:                         a.ClaimFees,
		10:                        a.MultiBuy,
		11:                        a.StartRewardDistribution,
		12:                        a.UpdateRewardState,
		13:                        a.ClaimReward,
		14:                        a.ClaimRewardMultiple,
		15:                        a.WithdrawReserve,
		16:                        a.SetAdvisedPrice,
		17:                        a.SetFeeReserveRatio,
		18:                        a.SetMinPercentRequired,
		19:                        a.SetBaseDropPerVote,
		20:                        a.SetMinDropPerVote,
		21:                        a.SetTargetPurchaseAmount,
		22:                        a.Pause,
		23:                        a.Unpause,
	}
}

func (a Actor) Code() cid.Cid {
	return builtin.MarketActorCodeID
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

func (a Actor) Constructor(rt Runtime, params *ConstructorParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerIs(builtin.SystemActorAddr)

	builtin.RequireParam(rt, params.FeeReserveRatio <= MaxFeeReserveRatio, "fee reserve ratio exceeds %d", MaxFeeReserveRatio)
	builtin.RequireParam(rt, params.MinPercentRequired > 0 && params.MinPercentRequired <= builtin.BasisPoints,
		"min percent required out of range")
	builtin.RequireParam(rt, params.AdvisedPrice.GreaterThan(big.Zero()), "non positive advised price")

	st, err := ConstructState(adt.AsStore(rt), params)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to construct state")
	rt.StateCreate(st)
	return nil
}

type OfferParams struct {
	PricePerVote    abi.TokenAmount
	UseAdvisedPrice bool
	MaxDuration     uint64
	ExpireAt        abi.ChainEpoch
	MinPercent      uint64
	MaxPercent      uint64
}

func (a Actor) Register(rt Runtime, params *OfferParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	seller := rt.Caller()

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		requireNotPaused(rt, &st)
		lazyUpdateRewardState(rt, &st, store)
		validateOfferParams(rt, &st, params)
	})

	granted := builtin.RequestLedgerAuthorized(rt, seller, rt.Receiver())
	builtin.RequireParam(rt, granted, "market not authorized on ledger by %s", seller)

	offer := offerFromParams(seller, params)
	rt.StateTransaction(&st, func() {
		offers, sellerIndex, err := loadOfferBook(store, &st)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load offer book")

		idx, err := st.SellerOfferIndex(sellerIndex, seller)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to look up seller index")
		if idx != 0 {
			rt.Abortf(exitcode.ErrForbidden, "seller %s already registered", seller)
		}

		_, err = st.AddOffer(offers, sellerIndex, offer)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to add offer")

		err = flushOfferBook(&st, offers, sellerIndex)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush offer book")
	})
	return nil
}

func (a Actor) UpdateOffer(rt Runtime, params *OfferParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	seller := rt.Caller()

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		requireNotPaused(rt, &st)
		lazyUpdateRewardState(rt, &st, store)
		validateOfferParams(rt, &st, params)

		offers, sellerIndex, err := loadOfferBook(store, &st)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load offer book")

		idx := requireRegistered(rt, &st, sellerIndex, seller)

		err = st.UpdateOffer(offers, idx, offerFromParams(seller, params))
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to update offer")

		err = flushOfferBook(&st, offers, sellerIndex)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush offer book")
	})
	return nil
}

type OfferPriceParams struct {
	PricePerVote    abi.TokenAmount
	UseAdvisedPrice bool
}

func (a Actor) UpdateOfferPrice(rt Runtime, params *OfferPriceParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	seller := rt.Caller()

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		requireNotPaused(rt, &st)
		lazyUpdateRewardState(rt, &st, store)
		if params.UseAdvisedPrice {
			builtin.RequireParam(rt, st.AdvisedPrice.GreaterThan(big.Zero()), "no advised price set")
		} else {
			builtin.RequireParam(rt, params.PricePerVote.GreaterThan(big.Zero()), "non positive price")
		}

		offers, sellerIndex, err := loadOfferBook(store, &st)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load offer book")

		idx := requireRegistered(rt, &st, sellerIndex, seller)

		offer, found, err := st.getOffer(offers, idx)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get offer")
		AssertMsg(found, "registered seller %v has no offer at %d", seller, idx)

		offer.PricePerVote = params.PricePerVote
		offer.UseAdvisedPrice = params.UseAdvisedPrice
		err = st.UpdateOffer(offers, idx, offer)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to update offer")

		err = flushOfferBook(&st, offers, sellerIndex)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush offer book")
	})
	return nil
}

// Quit removes the caller's offer and pays out any claimable fees.
func (a Actor) Quit(rt Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	seller := rt.Caller()

	var st State
	var owed abi.TokenAmount
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		lazyUpdateRewardState(rt, &st, store)

		offers, sellerIndex, err := loadOfferBook(store, &st)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load offer book")

		idx := requireRegistered(rt, &st, sellerIndex, seller)

		err = st.RemoveOffer(offers, sellerIndex, seller, idx)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to remove offer")

		err = flushOfferBook(&st, offers, sellerIndex)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush offer book")

		earned, err := adt.AsMap(store, st.EarnedFees, builtin.DefaultHamtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load earned fees")

		owed, err = st.earnedFeesOf(earned, seller)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get earned fees")
		if owed.GreaterThan(big.Zero()) {
			_, err = st.ClaimEarnedFees(earned, seller, owed)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to settle earned fees")
			st.EarnedFees, err = earned.Root()
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush earned fees")
		}
	})

	if owed.GreaterThan(big.Zero()) {
		code := rt.Send(seller, builtin.MethodSend, nil, owed, &builtin.Discard{})
		builtin.RequireSuccess(rt, code, "failed to pay out fees to %s", seller)
	}
	return nil
}

type EstimateFeesParams struct {
	Seller   addr.Address
	Percent  uint64
	Duration uint64
}

type FeesReturn struct {
	Fees abi.TokenAmount
}

func (a Actor) EstimateFees(rt Runtime, params *EstimateFeesParams) *FeesReturn {
	rt.ValidateImmediateCallerAcceptAny()

	seller, found := rt.ResolveAddress(params.Seller)
	builtin.RequireParam(rt, found, "unable to resolve address %v", params.Seller)

	var st State
	rt.StateReadonly(&st)
	store := adt.AsStore(rt)

	offers, sellerIndex, err := loadOfferBook(store, &st)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load offer book")

	offer := requireOffer(rt, &st, offers, sellerIndex, seller)
	validatePurchaseBounds(rt, &st, offer, params.Percent, params.Duration)

	balance := builtin.RequestDelegableBalance(rt, seller)

	now := rt.CurrEpoch()
	_, end := leaseWindow(now, params.Duration)
	amount := big.Div(big.Mul(balance.Balance, big.NewIntUnsigned(params.Percent)), big.NewInt(builtin.BasisPoints))
	return &FeesReturn{Fees: computeFee(st.EffectivePrice(offer), amount, end-now)}
}

type BuyParams struct {
	Seller   addr.Address
	Receiver addr.Address
	Percent  uint64
	Duration uint64
}

type BuyReturn struct {
	ID     uint64
	Amount abi.TokenAmount
	Fees   abi.TokenAmount
}

// Buy purchases a capacity lease against a single offer. The message value is
// the fee allowance; the unspent part is refunded to the caller.
func (a Actor) Buy(rt Runtime, params *BuyParams) *BuyReturn {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)

	maxFee := rt.ValueReceived()
	builtin.RequireParam(rt, maxFee.GreaterThan(big.Zero()), "non positive fee allowance")

	seller, found := rt.ResolveAddress(params.Seller)
	builtin.RequireParam(rt, found, "unable to resolve address %v", params.Seller)
	builtin.RequireParam(rt, params.Receiver != addr.Undef, "empty receiver")
	receiver, err := builtin.ResolveToIDAddr(rt, params.Receiver)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed to resolve receiver %v", params.Receiver)

	var st State
	var offer *Offer
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		requireNotPaused(rt, &st)
		lazyUpdateRewardState(rt, &st, store)

		offers, sellerIndex, err := loadOfferBook(store, &st)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load offer book")

		offer = requireOffer(rt, &st, offers, sellerIndex, seller)
		validatePurchaseBounds(rt, &st, offer, params.Percent, params.Duration)
	})

	now := rt.CurrEpoch()
	if offer.ExpireAt != 0 && now >= offer.ExpireAt {
		rt.Abortf(exitcode.ErrForbidden, "offer of %s expired at %d", seller, offer.ExpireAt)
	}

	granted := builtin.RequestLedgerAuthorized(rt, seller, rt.Receiver())
	if !granted {
		rt.Abortf(exitcode.ErrForbidden, "seller %s revoked ledger authorization", seller)
	}

	delegable := builtin.RequestDelegableBalance(rt, seller)
	builtin.RequireParam(rt, delegable.Balance.GreaterThan(big.Zero()), "seller %s has no leasable capacity", seller)

	cancelAt, end := leaseWindow(now, params.Duration)
	horizon := delegable.LockHorizon
	if offer.ExpireAt != 0 && offer.ExpireAt < horizon {
		horizon = offer.ExpireAt
	}
	if end > horizon {
		rt.Abortf(exitcode.ErrForbidden, "lease end %d beyond available horizon %d", end, horizon)
	}

	price := st.EffectivePrice(offer)
	amount := big.Div(big.Mul(delegable.Balance, big.NewIntUnsigned(params.Percent)), big.NewInt(builtin.BasisPoints))
	builtin.RequireParam(rt, amount.GreaterThan(big.Zero()), "zero purchase amount")

	estimated := computeFee(price, amount, end-now)
	if maxFee.LessThan(estimated) {
		rt.Abortf(exitcode.ErrInsufficientFunds, "fee allowance %v below estimated fees %v", maxFee, estimated)
	}

	id, realized := issueLease(rt, seller, receiver, amount, cancelAt, end)
	fee := computeFee(price, realized, end-now)
	if fee.GreaterThan(maxFee) {
		rt.Abortf(exitcode.ErrInsufficientFunds, "fee %v exceeds allowance %v", fee, maxFee)
	}

	rt.StateTransaction(&st, func() {
		err := st.settlePurchase(store, &purchase{
			id:       id,
			seller:   seller,
			buyer:    receiver,
			amount:   realized,
			fee:      fee,
			start:    now,
			cancelAt: cancelAt,
			end:      end,
		})
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to record purchase")
	})

	refund := big.Sub(maxFee, fee)
	if refund.GreaterThan(big.Zero()) {
		code := rt.Send(rt.Caller(), builtin.MethodSend, nil, refund, &builtin.Discard{})
		builtin.RequireSuccess(rt, code, "failed to refund unused fees")
	}
	return &BuyReturn{ID: id, Amount: realized, Fees: fee}
}

// Cancel cancels the capacity grant behind a lease. The buyer may cancel any
// time, the seller from the lease's cancel epoch, anyone after expiry. The
// purchase record is retained for reward settlement.
func (a Actor) Cancel(rt Runtime, params *builtin.LeaseIDParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	caller := rt.Caller()

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		lazyUpdateRewardState(rt, &st, store)

		leases, err := adt.AsMap(store, st.Leases, builtin.DefaultHamtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load leases")

		lease, found, err := st.getLease(leases, params.ID)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get lease %d", params.ID)
		builtin.RequireParam(rt, found, "no lease %d", params.ID)

		now := rt.CurrEpoch()
		switch {
		case caller == lease.Buyer:
		case caller == lease.Seller && now >= lease.CancelAt:
		case now >= lease.End:
		default:
			rt.Abortf(exitcode.ErrForbidden, "caller %s cannot cancel lease %d at %d", caller, params.ID, now)
		}
	})

	code := rt.Send(builtin.LedgerActorAddr, builtin.MethodsLedger.CancelLease,
		&builtin.LeaseIDParams{ID: params.ID}, big.Zero(), &builtin.Discard{})
	builtin.RequireSuccess(rt, code, "failed to cancel lease %d on ledger", params.ID)
	return nil
}

type ClaimFeesParams struct {
	// Amount to withdraw, zero for the full claimable balance.
	Amount abi.TokenAmount
}

func (a Actor) ClaimFees(rt Runtime, params *ClaimFeesParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	seller := rt.Caller()
	builtin.RequireParam(rt, !params.Amount.LessThan(big.Zero()), "negative claim amount")

	var st State
	var claimed abi.TokenAmount
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		lazyUpdateRewardState(rt, &st, store)

		earned, err := adt.AsMap(store, st.EarnedFees, builtin.DefaultHamtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load earned fees")

		claimed, err = st.ClaimEarnedFees(earned, seller, params.Amount)
		builtin.RequireNoErr(rt, err, exitcode.ErrInsufficientFunds, "failed to claim fees of %s", seller)

		st.EarnedFees, err = earned.Root()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush earned fees")
	})

	code := rt.Send(seller, builtin.MethodSend, nil, claimed, &builtin.Discard{})
	builtin.RequireSuccess(rt, code, "failed to pay out fees to %s", seller)
	return nil
}

type StartRewardParams struct {
	BaseDropPerVote      abi.TokenAmount
	MinDropPerVote       abi.TokenAmount
	TargetPurchaseAmount abi.TokenAmount
}

// StartRewardDistribution configures the emission parameters and starts the
// reward stream from the current period. One-way.
func (a Actor) StartRewardDistribution(rt Runtime, params *StartRewardParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.StartRewardDistribution)

	builtin.RequireParam(rt, params.MinDropPerVote.GreaterThan(big.Zero()), "non positive min drop per vote")
	builtin.RequireParam(rt, !params.BaseDropPerVote.LessThan(params.MinDropPerVote), "base drop below min drop")
	builtin.RequireParam(rt, params.TargetPurchaseAmount.GreaterThan(big.Zero()), "non positive target purchase amount")

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		if st.NextUpdatePeriod != 0 {
			rt.Abortf(exitcode.ErrForbidden, "reward distribution already started")
		}
		st.BaseDropPerVote = params.BaseDropPerVote
		st.MinDropPerVote = params.MinDropPerVote
		st.TargetPurchaseAmount = params.TargetPurchaseAmount

		err := st.StartRewardDistribution(store, rt.CurrEpoch())
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to start reward distribution")
	})
	return nil
}

func (a Actor) UpdateRewardState(rt Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		err := st.UpdateRewardState(store, rt.CurrEpoch())
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to update reward state")
	})
	return nil
}

func (a Actor) ClaimReward(rt Runtime, params *builtin.LeaseIDParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)

	reward := a.claimRewards(rt, []uint64{params.ID})
	code := rt.Send(rt.Caller(), builtin.MethodSend, nil, reward, &builtin.Discard{})
	builtin.RequireSuccess(rt, code, "failed to send reward")
	return nil
}

type ClaimRewardMultipleParams struct {
	IDs []uint64
}

func (a Actor) ClaimRewardMultiple(rt Runtime, params *ClaimRewardMultipleParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)
	builtin.RequireParam(rt, len(params.IDs) > 0, "empty lease list")

	reward := a.claimRewards(rt, params.IDs)
	code := rt.Send(rt.Caller(), builtin.MethodSend, nil, reward, &builtin.Discard{})
	builtin.RequireSuccess(rt, code, "failed to send reward")
	return nil
}

// claimRewards settles the rewards of the given leases for the caller and
// returns the total payable amount.
func (a Actor) claimRewards(rt Runtime, ids []uint64) abi.TokenAmount {
	caller := rt.Caller()

	var st State
	total := big.Zero()
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		lazyUpdateRewardState(rt, &st, store)

		leases, err := adt.AsMap(store, st.Leases, builtin.DefaultHamtBitwidth)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load leases")

		now := rt.CurrEpoch()
		for _, id := range ids {
			lease, found, err := st.getLease(leases, id)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get lease %d", id)
			builtin.RequireParam(rt, found, "no lease %d", id)

			if lease.Buyer != caller {
				rt.Abortf(exitcode.ErrForbidden, "caller %s is not buyer of lease %d", caller, id)
			}
			if lease.Claimed {
				rt.Abortf(exitcode.ErrForbidden, "reward of lease %d already claimed", id)
			}

			reward, err := st.LeaseReward(store, lease, now)
			builtin.RequireNoErr(rt, err, exitcode.ErrForbidden, "failed to compute reward of lease %d", id)
			if reward.IsZero() {
				rt.Abortf(exitcode.ErrIllegalState, "no reward for lease %d", id)
			}

			lease.Claimed = true
			err = leases.Put(abi.UIntKey(id), lease)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to mark lease %d claimed", id)

			total = big.Add(total, reward)
		}

		st.Leases, err = leases.Root()
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush leases")
	})

	if rt.CurrentBalance().LessThan(total) {
		rt.Abortf(exitcode.ErrInsufficientFunds, "reward %v exceeds actor balance", total)
	}
	return total
}

type WithdrawReserveParams struct {
	Recipient addr.Address
	Amount    abi.TokenAmount
}

func (a Actor) WithdrawReserve(rt Runtime, params *WithdrawReserveParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.WithdrawReserve)

	builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "non positive withdrawal")
	recipient, err := builtin.ResolveToIDAddr(rt, params.Recipient)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed to resolve recipient %v", params.Recipient)

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		lazyUpdateRewardState(rt, &st, store)

		if st.ReserveAmount.LessThan(params.Amount) {
			rt.Abortf(exitcode.ErrInsufficientFunds, "withdrawal %v exceeds reserve %v", params.Amount, st.ReserveAmount)
		}
		st.ReserveAmount = big.Sub(st.ReserveAmount, params.Amount)
	})

	code := rt.Send(recipient, builtin.MethodSend, nil, params.Amount, &builtin.Discard{})
	builtin.RequireSuccess(rt, code, "failed to withdraw reserve to %s", recipient)
	return nil
}

type AmountParams struct {
	Amount abi.TokenAmount
}

type RatioParams struct {
	Ratio uint64
}

func (a Actor) SetAdvisedPrice(rt Runtime, params *AmountParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.SetAdvisedPrice)

	builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "non positive advised price")

	var st State
	rt.StateTransaction(&st, func() {
		st.AdvisedPrice = params.Amount
	})
	return nil
}

func (a Actor) SetFeeReserveRatio(rt Runtime, params *RatioParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.SetFeeReserveRatio)

	builtin.RequireParam(rt, params.Ratio <= MaxFeeReserveRatio, "fee reserve ratio exceeds %d", MaxFeeReserveRatio)

	var st State
	rt.StateTransaction(&st, func() {
		st.FeeReserveRatio = params.Ratio
	})
	return nil
}

func (a Actor) SetMinPercentRequired(rt Runtime, params *RatioParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.SetMinPercentRequired)

	builtin.RequireParam(rt, params.Ratio > 0 && params.Ratio <= builtin.BasisPoints, "min percent required out of range")

	var st State
	rt.StateTransaction(&st, func() {
		st.MinPercentRequired = params.Ratio
	})
	return nil
}

func (a Actor) SetBaseDropPerVote(rt Runtime, params *AmountParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.SetBaseDropPerVote)

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		lazyUpdateRewardState(rt, &st, store)
		builtin.RequireParam(rt, !params.Amount.LessThan(st.MinDropPerVote), "base drop below min drop")
		builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "non positive base drop")
		st.BaseDropPerVote = params.Amount
	})
	return nil
}

func (a Actor) SetMinDropPerVote(rt Runtime, params *AmountParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.SetMinDropPerVote)

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		lazyUpdateRewardState(rt, &st, store)
		builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "non positive min drop")
		builtin.RequireParam(rt, !params.Amount.GreaterThan(st.BaseDropPerVote), "min drop above base drop")
		st.MinDropPerVote = params.Amount
	})
	return nil
}

func (a Actor) SetTargetPurchaseAmount(rt Runtime, params *AmountParams) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.SetTargetPurchaseAmount)

	builtin.RequireParam(rt, params.Amount.GreaterThan(big.Zero()), "non positive target purchase amount")

	var st State
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		lazyUpdateRewardState(rt, &st, store)
		st.TargetPurchaseAmount = params.Amount
	})
	return nil
}

func (a Actor) Pause(rt Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.Pause)

	var st State
	rt.StateTransaction(&st, func() {
		if st.Paused {
			rt.Abortf(exitcode.ErrForbidden, "already paused")
		}
		st.Paused = true
	})
	return nil
}

func (a Actor) Unpause(rt Runtime, _ *abi.EmptyValue) *abi.EmptyValue {
	rt.ValidateImmediateCallerAcceptAny()
	builtin.ValidateCallerGranted(rt, rt.Caller(), builtin.MethodsMarket.Unpause)

	var st State
	rt.StateTransaction(&st, func() {
		if !st.Paused {
			rt.Abortf(exitcode.ErrForbidden, "not paused")
		}
		st.Paused = false
	})
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////////////

// purchase carries the outcome of a lease issuance into state settlement.
type purchase struct {
	id       uint64
	seller   addr.Address
	buyer    addr.Address
	amount   abi.TokenAmount
	fee      abi.TokenAmount
	start    abi.ChainEpoch
	cancelAt abi.ChainEpoch
	end      abi.ChainEpoch
}

// settlePurchase books the fee split, the reward accounting and the lease
// record for one executed purchase.
func (st *State) settlePurchase(store adt.Store, p *purchase) error {
	reserveCut := big.Div(big.Mul(p.fee, big.NewIntUnsigned(st.FeeReserveRatio)), big.NewInt(builtin.BasisPoints))
	st.ReserveAmount = big.Add(st.ReserveAmount, reserveCut)

	earned, err := adt.AsMap(store, st.EarnedFees, builtin.DefaultHamtBitwidth)
	if err != nil {
		return err
	}
	if err := st.AddEarnedFees(earned, p.seller, big.Sub(p.fee, reserveCut)); err != nil {
		return err
	}
	if st.EarnedFees, err = earned.Root(); err != nil {
		return err
	}

	startIndex := big.Zero()
	if st.NextUpdatePeriod != 0 {
		if startIndex, err = st.RecordPurchase(store, p.amount, p.start, p.end); err != nil {
			return err
		}
	}

	leases, err := adt.AsMap(store, st.Leases, builtin.DefaultHamtBitwidth)
	if err != nil {
		return err
	}
	buyerLeases, err := adt.AsMap(store, st.BuyerLeases, builtin.DefaultHamtBitwidth)
	if err != nil {
		return err
	}
	err = st.PutLease(leases, buyerLeases, p.id, &Lease{
		Seller:     p.seller,
		Buyer:      p.buyer,
		Amount:     p.amount,
		Start:      p.start,
		CancelAt:   p.cancelAt,
		End:        p.end,
		StartIndex: startIndex,
	})
	if err != nil {
		return err
	}
	if st.Leases, err = leases.Root(); err != nil {
		return err
	}
	st.BuyerLeases, err = buyerLeases.Root()
	return err
}

func loadOfferBook(store adt.Store, st *State) (*adt.Array, *adt.Map, error) {
	offers, err := adt.AsArray(store, st.Offers, OffersAmtBitwidth)
	if err != nil {
		return nil, nil, err
	}
	sellerIndex, err := adt.AsMap(store, st.SellerIndex, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, nil, err
	}
	return offers, sellerIndex, nil
}

func flushOfferBook(st *State, offers *adt.Array, sellerIndex *adt.Map) error {
	var err error
	if st.Offers, err = offers.Root(); err != nil {
		return err
	}
	st.SellerIndex, err = sellerIndex.Root()
	return err
}

func offerFromParams(seller addr.Address, params *OfferParams) *Offer {
	return &Offer{
		Seller:          seller,
		PricePerVote:    params.PricePerVote,
		UseAdvisedPrice: params.UseAdvisedPrice,
		MaxDuration:     params.MaxDuration,
		ExpireAt:        params.ExpireAt,
		MinPercent:      params.MinPercent,
		MaxPercent:      params.MaxPercent,
	}
}

func validateOfferParams(rt Runtime, st *State, params *OfferParams) {
	if params.UseAdvisedPrice {
		builtin.RequireParam(rt, st.AdvisedPrice.GreaterThan(big.Zero()), "no advised price set")
	} else {
		builtin.RequireParam(rt, params.PricePerVote.GreaterThan(big.Zero()), "non positive price")
	}
	builtin.RequireParam(rt, params.MaxPercent <= builtin.BasisPoints, "max percent exceeds %d", builtin.BasisPoints)
	builtin.RequireParam(rt, params.MinPercent <= params.MaxPercent, "min percent above max percent")
	builtin.RequireParam(rt, params.MinPercent >= st.MinPercentRequired, "min percent below required %d", st.MinPercentRequired)
	if params.ExpireAt != 0 {
		builtin.RequireParam(rt, params.ExpireAt > rt.CurrEpoch(), "expiration %d already passed", params.ExpireAt)
		builtin.RequireParam(rt, params.ExpireAt%RewardPeriod == 0, "expiration %d not period aligned", params.ExpireAt)
	}
}

// validatePurchaseBounds checks percent and duration against an offer.
func validatePurchaseBounds(rt Runtime, st *State, offer *Offer, percent, duration uint64) {
	minPercent := offer.MinPercent
	if st.MinPercentRequired > minPercent {
		minPercent = st.MinPercentRequired
	}
	builtin.RequireParam(rt, percent <= builtin.BasisPoints, "percent exceeds %d", builtin.BasisPoints)
	builtin.RequireParam(rt, percent >= minPercent, "percent below offer minimum %d", minPercent)
	builtin.RequireParam(rt, percent <= offer.MaxPercent, "percent above offer maximum %d", offer.MaxPercent)
	builtin.RequireParam(rt, duration >= MinLeaseDuration, "duration below minimum %d", MinLeaseDuration)
	if offer.MaxDuration != 0 {
		builtin.RequireParam(rt, duration <= offer.MaxDuration, "duration above offer maximum %d", offer.MaxDuration)
	}
}

func requireRegistered(rt Runtime, st *State, sellerIndex *adt.Map, seller addr.Address) uint64 {
	idx, err := st.SellerOfferIndex(sellerIndex, seller)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to look up seller index")
	if idx == 0 {
		rt.Abortf(exitcode.ErrForbidden, "seller %s not registered", seller)
	}
	return idx
}

func requireOffer(rt Runtime, st *State, offers *adt.Array, sellerIndex *adt.Map, seller addr.Address) *Offer {
	idx := requireRegistered(rt, st, sellerIndex, seller)
	offer, found, err := st.getOffer(offers, idx)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to get offer")
	AssertMsg(found, "registered seller %v has no offer at %d", seller, idx)
	return offer
}

func requireNotPaused(rt Runtime, st *State) {
	if st.Paused {
		rt.Abortf(exitcode.ErrForbidden, "market paused")
	}
}

func lazyUpdateRewardState(rt Runtime, st *State, store adt.Store) {
	err := st.UpdateRewardState(store, rt.CurrEpoch())
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to update reward state")
}

// leaseWindow computes the cancel-eligibility epoch and the period-aligned
// end epoch for a lease starting now with the given duration in periods.
func leaseWindow(now abi.ChainEpoch, duration uint64) (cancelAt, end abi.ChainEpoch) {
	cancelAt = now + abi.ChainEpoch(duration)*RewardPeriod
	end = builtin.PeriodStart(cancelAt, RewardPeriod)
	if end < cancelAt {
		end += RewardPeriod
	}
	return
}

// computeFee prices a capacity amount over a time span.
func computeFee(price, amount abi.TokenAmount, span abi.ChainEpoch) abi.TokenAmount {
	return big.Div(big.Mul(big.Mul(amount, price), big.NewInt(int64(span))), builtin.TokenPrecision)
}

// issueLease asks the capacity ledger to create the lease and returns the id
// and realized amount.
func issueLease(rt Runtime, seller, receiver addr.Address, amount abi.TokenAmount, cancelAt, end abi.ChainEpoch) (uint64, abi.TokenAmount) {
	var ret builtin.IssueLeaseReturn
	code := rt.Send(builtin.LedgerActorAddr, builtin.MethodsLedger.IssueLease, &builtin.IssueLeaseParams{
		Owner:    seller,
		Receiver: receiver,
		Amount:   amount,
		CancelAt: cancelAt,
		ExpireAt: end,
	}, big.Zero(), &ret)
	builtin.RequireSuccess(rt, code, "failed to issue lease from %s", seller)
	builtin.RequireParam(rt, ret.Amount.GreaterThan(big.Zero()), "zero realized amount from %s", seller)
	return ret.ID, ret.Amount
}
