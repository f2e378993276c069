package boost

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/pkg/errors"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

type MultiBuyParams struct {
	Receiver       addr.Address
	Duration       uint64
	TargetAmount   abi.TokenAmount
	MaxPrice       abi.TokenAmount
	MinChunkAmount abi.TokenAmount
	// Acceptable shortfall below TargetAmount, in basis points.
	SlippageBps uint64
	// Opportunistically cancel expired leases blocking an offer instead of
	// skipping it.
	ClearExpiredFirst bool
	// Explicit offer indices to fill from, in order. Empty means all active
	// offers sorted by ascending price.
	OfferOrder []uint64
}

type MultiBuyReturn struct {
	LeaseIDs    []uint64
	TotalAmount abi.TokenAmount
	TotalFees   abi.TokenAmount
}

// MultiBuy fills a target capacity amount across several offers, walking a
// price-sorted or caller-supplied offer order and skipping offers that cannot
// serve the request. Fails entirely when the accumulated amount falls short
// of the slippage-adjusted target. The message value is the fee allowance for
// the whole fill; the unspent part is refunded.
func (a Actor) MultiBuy(rt Runtime, params *MultiBuyParams) *MultiBuyReturn {
	rt.ValidateImmediateCallerType(builtin.CallerTypesSignable...)

	maxFee := rt.ValueReceived()
	builtin.RequireParam(rt, maxFee.GreaterThan(big.Zero()), "non positive fee allowance")
	builtin.RequireParam(rt, params.TargetAmount.GreaterThan(big.Zero()), "non positive target amount")
	builtin.RequireParam(rt, params.MaxPrice.GreaterThan(big.Zero()), "non positive max price")
	builtin.RequireParam(rt, params.SlippageBps <= builtin.BasisPoints, "slippage exceeds %d", builtin.BasisPoints)
	builtin.RequireParam(rt, params.Duration >= MinLeaseDuration, "duration below minimum %d", MinLeaseDuration)
	builtin.RequireParam(rt, params.Receiver != addr.Undef, "empty receiver")
	receiver, err := builtin.ResolveToIDAddr(rt, params.Receiver)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed to resolve receiver %v", params.Receiver)

	var st State
	var candidates []*Offer
	store := adt.AsStore(rt)
	rt.StateTransaction(&st, func() {
		requireNotPaused(rt, &st)
		lazyUpdateRewardState(rt, &st, store)

		offers, _, err := loadOfferBook(store, &st)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load offer book")

		order := params.OfferOrder
		if len(order) == 0 {
			order, err = st.SortedOfferIndices(offers)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to sort offers")
		}
		candidates, err = st.offersAt(offers, order)
		builtin.RequireNoErr(rt, err, exitcode.ErrIllegalArgument, "failed to select offers")
	})

	now := rt.CurrEpoch()
	cancelAt, end := leaseWindow(now, params.Duration)

	remaining := params.TargetAmount
	totalFees := big.Zero()
	var fills []*purchase

	for _, offer := range candidates {
		if remaining.IsZero() {
			break
		}
		price := st.EffectivePrice(offer)
		if price.GreaterThan(params.MaxPrice) {
			continue
		}
		if offer.ExpireAt != 0 && now >= offer.ExpireAt {
			continue
		}
		if offer.MaxDuration != 0 && params.Duration > offer.MaxDuration {
			continue
		}
		if !builtin.RequestLedgerAuthorized(rt, offer.Seller, rt.Receiver()) {
			continue
		}

		delegable := builtin.RequestDelegableBalance(rt, offer.Seller)
		horizon := delegable.LockHorizon
		if offer.ExpireAt != 0 && offer.ExpireAt < horizon {
			horizon = offer.ExpireAt
		}
		if end > horizon {
			continue
		}

		available := big.Div(big.Mul(delegable.Balance, big.NewIntUnsigned(offer.MaxPercent)), big.NewInt(builtin.BasisPoints))
		if available.LessThan(params.MinChunkAmount) {
			continue
		}

		take := available
		if take.GreaterThan(remaining) {
			take = remaining
		}
		minPercent := offer.MinPercent
		if st.MinPercentRequired > minPercent {
			minPercent = st.MinPercentRequired
		}
		minAmount := big.Div(big.Mul(delegable.Balance, big.NewIntUnsigned(minPercent)), big.NewInt(builtin.BasisPoints))
		if take.LessThan(minAmount) {
			continue
		}

		if !clearBlockingLease(rt, offer.Seller, receiver, now, params.ClearExpiredFirst) {
			continue
		}

		fee := computeFee(price, take, end-now)
		if big.Add(totalFees, fee).GreaterThan(maxFee) {
			break
		}

		id, realized := issueLease(rt, offer.Seller, receiver, take, cancelAt, end)
		fee = computeFee(price, realized, end-now)

		fills = append(fills, &purchase{
			id:       id,
			seller:   offer.Seller,
			buyer:    receiver,
			amount:   realized,
			fee:      fee,
			start:    now,
			cancelAt: cancelAt,
			end:      end,
		})
		totalFees = big.Add(totalFees, fee)
		remaining = big.Sub(remaining, realized)
		if remaining.LessThan(big.Zero()) {
			remaining = big.Zero()
		}
	}

	bought := big.Sub(params.TargetAmount, remaining)
	floor := big.Div(
		big.Mul(params.TargetAmount, big.NewInt(builtin.BasisPoints-int64(params.SlippageBps))),
		big.NewInt(builtin.BasisPoints),
	)
	if bought.LessThan(floor) {
		rt.Abortf(exitcode.ErrForbidden, "matched amount %v below slippage floor %v", bought, floor)
	}

	ids := make([]uint64, 0, len(fills))
	rt.StateTransaction(&st, func() {
		for _, p := range fills {
			err := st.settlePurchase(store, p)
			builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to record purchase from %s", p.seller)
			ids = append(ids, p.id)
		}
	})

	refund := big.Sub(maxFee, totalFees)
	if refund.GreaterThan(big.Zero()) {
		code := rt.Send(rt.Caller(), builtin.MethodSend, nil, refund, &builtin.Discard{})
		builtin.RequireSuccess(rt, code, "failed to refund unused fees")
	}
	return &MultiBuyReturn{LeaseIDs: ids, TotalAmount: bought, TotalFees: totalFees}
}

// clearBlockingLease reports whether the seller can issue a new lease to the
// receiver, cancelling an expired blocking lease first when allowed.
func clearBlockingLease(rt Runtime, seller, receiver addr.Address, now abi.ChainEpoch, clearExpired bool) bool {
	var ret builtin.GetBlockingLeaseReturn
	code := rt.Send(builtin.LedgerActorAddr, builtin.MethodsLedger.GetBlockingLease,
		&builtin.GetBlockingLeaseParams{Owner: seller, Receiver: receiver}, big.Zero(), &ret)
	builtin.RequireSuccess(rt, code, "failed to query blocking lease of %s", seller)
	if !ret.Found {
		return true
	}
	if !clearExpired || now < ret.ExpireAt {
		return false
	}
	code = rt.Send(builtin.LedgerActorAddr, builtin.MethodsLedger.CancelLease,
		&builtin.LeaseIDParams{ID: ret.ID}, big.Zero(), &builtin.Discard{})
	builtin.RequireSuccess(rt, code, "failed to cancel expired lease %d", ret.ID)
	return true
}

// offersAt loads offers for an explicit index list, rejecting out-of-range
// or missing indices.
func (st *State) offersAt(offers *adt.Array, order []uint64) ([]*Offer, error) {
	out := make([]*Offer, 0, len(order))
	for _, idx := range order {
		if idx == 0 || idx >= st.OffersCount {
			return nil, errors.Errorf("no offer at index %d", idx)
		}
		offer, found, err := st.getOffer(offers, idx)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Errorf("no offer at index %d", idx)
		}
		out = append(out, offer)
	}
	return out, nil
}

// SortedOfferIndices returns the indices of all active offers ordered by
// ascending effective price. The sentinel slot is excluded. The result feeds
// the same fill path as a caller-supplied offer order.
func (st *State) SortedOfferIndices(offers *adt.Array) ([]uint64, error) {
	indices := make([]uint64, 0, st.OffersCount-1)
	prices := make([]abi.TokenAmount, 0, st.OffersCount-1)
	for idx := uint64(1); idx < st.OffersCount; idx++ {
		offer, found, err := st.getOffer(offers, idx)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errors.Errorf("no offer at index %d", idx)
		}
		indices = append(indices, idx)
		prices = append(prices, st.EffectivePrice(offer))
	}
	quicksortByPrice(indices, prices, 0, len(indices)-1)
	return indices, nil
}

// quicksortByPrice sorts offer indices in place by ascending price. Hoare
// partition scheme with the middle element as pivot.
func quicksortByPrice(indices []uint64, prices []abi.TokenAmount, lo, hi int) {
	if lo >= hi {
		return
	}
	p := hoarePartition(indices, prices, lo, hi)
	quicksortByPrice(indices, prices, lo, p)
	quicksortByPrice(indices, prices, p+1, hi)
}

func hoarePartition(indices []uint64, prices []abi.TokenAmount, lo, hi int) int {
	pivot := prices[lo+(hi-lo)/2]
	i := lo - 1
	j := hi + 1
	for {
		for {
			i++
			if !prices[i].LessThan(pivot) {
				break
			}
		}
		for {
			j--
			if !prices[j].GreaterThan(pivot) {
				break
			}
		}
		if i >= j {
			return j
		}
		indices[i], indices[j] = indices[j], indices[i]
		prices[i], prices[j] = prices[j], prices[i]
	}
}
