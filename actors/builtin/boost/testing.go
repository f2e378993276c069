package boost

import (
	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-bitfield"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

type StateSummary struct {
	OfferBySeller   map[address.Address]*Offer
	LeaseCount      int
	ClaimedLeases   int
	TotalEarnedFees abi.TokenAmount
	ReserveAmount   abi.TokenAmount
}

func CheckStateInvariants(st *State, store adt.Store) (*StateSummary, *builtin.MessageAccumulator) {
	acc := &builtin.MessageAccumulator{}
	sum := &StateSummary{
		OfferBySeller:   make(map[address.Address]*Offer),
		TotalEarnedFees: big.Zero(),
		ReserveAmount:   st.ReserveAmount,
	}

	acc.Require(st.OffersCount >= 1, "offer arena missing sentinel slot")
	acc.Require(st.FeeReserveRatio <= MaxFeeReserveRatio, "fee reserve ratio %d exceeds %d", st.FeeReserveRatio, MaxFeeReserveRatio)
	acc.Require(st.MinPercentRequired > 0 && st.MinPercentRequired <= builtin.BasisPoints, "min percent required %d out of range", st.MinPercentRequired)
	acc.Require(!st.ReserveAmount.LessThan(big.Zero()), "negative reserve amount %v", st.ReserveAmount)
	acc.Require(st.NextUpdatePeriod%RewardPeriod == 0, "next update period %d not period aligned", st.NextUpdatePeriod)

	// Offers
	offers, err := adt.AsArray(store, st.Offers, OffersAmtBitwidth)
	if err != nil {
		acc.Addf("error loading offers: %v", err)
	} else {
		for idx := uint64(1); idx < st.OffersCount; idx++ {
			var offer Offer
			found, err := offers.Get(idx, &offer)
			acc.RequireNoError(err, "error getting offer %d", idx)
			acc.Require(found, "offer arena has a hole at %d", idx)
			if !found {
				continue
			}

			acc.Require(offer.MinPercent <= offer.MaxPercent, "offer %d min percent above max", idx)
			acc.Require(offer.MaxPercent <= builtin.BasisPoints, "offer %d max percent exceeds %d", idx, builtin.BasisPoints)
			if !offer.UseAdvisedPrice {
				acc.Require(offer.PricePerVote.GreaterThan(big.Zero()), "offer %d non positive price", idx)
			}
			_, dup := sum.OfferBySeller[offer.Seller]
			acc.Require(!dup, "seller %s has multiple offers", offer.Seller)
			o := offer
			sum.OfferBySeller[offer.Seller] = &o
		}
	}

	// Seller back-references
	sellerIndex, err := adt.AsMap(store, st.SellerIndex, builtin.DefaultHamtBitwidth)
	if err != nil {
		acc.Addf("error loading seller index: %v", err)
	} else {
		indexed := 0
		var out cbg.CborInt
		err = sellerIndex.ForEach(&out, func(k string) error {
			indexed++
			seller, err := address.NewFromBytes([]byte(k))
			acc.RequireNoError(err, "error deserializing seller address: %s", k)

			idx := uint64(out)
			acc.Require(idx > 0 && idx < st.OffersCount, "seller %s index %d out of range", seller, idx)
			if offer, ok := sum.OfferBySeller[seller]; ok {
				acc.Require(offer.Seller == seller, "offer at %d does not belong to %s", idx, seller)
			} else {
				acc.Addf("indexed seller %s has no offer", seller)
			}
			return nil
		})
		acc.RequireNoError(err, "error iterating seller index")
		acc.Require(uint64(indexed) == st.OffersCount-1, "seller index size %d != offer count %d", indexed, st.OffersCount-1)
	}

	// Leases
	leaseBuyers := make(map[uint64]address.Address)
	leases, err := adt.AsMap(store, st.Leases, builtin.DefaultHamtBitwidth)
	if err != nil {
		acc.Addf("error loading leases: %v", err)
	} else {
		var lease Lease
		err = leases.ForEach(&lease, func(k string) error {
			sum.LeaseCount++
			id, err := abi.ParseUIntKey(k)
			acc.RequireNoError(err, "error parsing lease key %s", k)

			acc.Require(lease.Amount.GreaterThan(big.Zero()), "lease %d non positive amount", id)
			acc.Require(lease.Start < lease.End, "lease %d start %d not before end %d", id, lease.Start, lease.End)
			acc.Require(lease.End%RewardPeriod == 0, "lease %d end %d not period aligned", id, lease.End)
			acc.Require(lease.CancelAt <= lease.End, "lease %d cancel epoch %d after end %d", id, lease.CancelAt, lease.End)
			if lease.Claimed {
				sum.ClaimedLeases++
			}
			leaseBuyers[id] = lease.Buyer
			return nil
		})
		acc.RequireNoError(err, "error iterating leases")
	}

	buyerLeases, err := adt.AsMap(store, st.BuyerLeases, builtin.DefaultHamtBitwidth)
	if err != nil {
		acc.Addf("error loading buyer leases: %v", err)
	} else {
		var bf bitfield.BitField
		err = buyerLeases.ForEach(&bf, func(k string) error {
			buyer, err := address.NewFromBytes([]byte(k))
			acc.RequireNoError(err, "error deserializing buyer address: %s", k)

			return bf.ForEach(func(id uint64) error {
				owner, ok := leaseBuyers[id]
				acc.Require(ok, "buyer %s indexes unknown lease %d", buyer, id)
				if ok {
					acc.Require(owner == buyer, "lease %d indexed for %s but bought by %s", id, buyer, owner)
				}
				return nil
			})
		})
		acc.RequireNoError(err, "error iterating buyer leases")
	}

	// Earned fees
	earned, err := adt.AsMap(store, st.EarnedFees, builtin.DefaultHamtBitwidth)
	if err != nil {
		acc.Addf("error loading earned fees: %v", err)
	} else {
		var amt abi.TokenAmount
		err = earned.ForEach(&amt, func(k string) error {
			acc.Require(amt.GreaterThan(big.Zero()), "non positive earned fees entry: %s", k)
			sum.TotalEarnedFees = big.Add(sum.TotalEarnedFees, amt)
			return nil
		})
		acc.RequireNoError(err, "error iterating earned fees")
	}

	// Reward index must be monotonic over finalized periods.
	if st.NextUpdatePeriod != 0 {
		index, err := adt.AsMap(store, st.PeriodRewardIndex, builtin.DefaultHamtBitwidth)
		if err != nil {
			acc.Addf("error loading reward index: %v", err)
		} else {
			last := st.NextUpdatePeriod - RewardPeriod
			next, err := periodAmount(index, last)
			acc.RequireNoError(err, "error getting reward index of period %d", last)
			for p := last - RewardPeriod; p > last-MaxUpdatePeriods*RewardPeriod && p >= 0; p -= RewardPeriod {
				cur, err := periodAmount(index, p)
				acc.RequireNoError(err, "error getting reward index of period %d", p)
				acc.Require(!cur.GreaterThan(next), "reward index decreasing at period %d", p)
				next = cur
			}
		}
	}

	return sum, acc
}
