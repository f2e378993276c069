package boost

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-bitfield"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/ipfs/go-cid"
	"github.com/pkg/errors"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	. "github.com/boostmarket/go-boost-actors/actors/util"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

type State struct {
	// Sell-side offer arena. Dense, with index 0 permanently holding a zero
	// sentinel so a seller index of 0 unambiguously means "not registered".
	Offers      cid.Cid // Array, AMT[index]Offer
	OffersCount uint64  // number of slots in Offers, sentinel included
	SellerIndex cid.Cid // Map, HAMT[ID-Address]offer index

	// Purchase records, keyed by the ledger's lease ID. Never deleted.
	Leases      cid.Cid // Map, HAMT[lease ID]Lease
	BuyerLeases cid.Cid // Map, HAMT[ID-Address]BitField of lease IDs

	// Fees earned by sellers, claimable at will.
	EarnedFees cid.Cid // Map, HAMT[ID-Address]TokenAmount
	// Accumulated protocol cut, withdrawable by the reserve manager.
	ReserveAmount abi.TokenAmount
	// Protocol cut of each purchase fee, in basis points.
	FeeReserveRatio uint64

	// Protocol-wide floor on an offer's MinPercent, in basis points.
	MinPercentRequired uint64
	// Price applied to offers that opt in to the advised price.
	AdvisedPrice abi.TokenAmount

	Paused bool

	// Reward engine. NextUpdatePeriod is the first period not yet
	// finalized; zero means reward distribution has not been started.
	NextUpdatePeriod     abi.ChainEpoch
	BaseDropPerVote      abi.TokenAmount
	MinDropPerVote       abi.TokenAmount
	TargetPurchaseAmount abi.TokenAmount
	// Reward emitted beyond the weekly target in past periods, not yet
	// compensated by rate reductions.
	ExtraPaidPast abi.TokenAmount
	// Reward owed but not emitted in past periods, not yet compensated by
	// rate increases.
	RemainingRewardPastPeriod abi.TokenAmount

	// Period-keyed reward accounting (key = period start epoch).
	PeriodRewardIndex     cid.Cid // Map, HAMT[epoch]TokenAmount
	PeriodDropPerVote     cid.Cid // Map, HAMT[epoch]TokenAmount
	PeriodPurchasedAmount cid.Cid // Map, HAMT[epoch]TokenAmount
	// Scheduled total decrease of purchased amount within each period.
	PeriodEndPurchasedDecrease cid.Cid // Map, HAMT[epoch]TokenAmount
	// Decrease-schedule change events, keyed by the exact epoch a lease's
	// decay starts or ends.
	PeriodPurchasedDecreaseChanges cid.Cid // Map, HAMT[epoch]TokenAmount
}

// Offer is a seller's standing listing.
type Offer struct {
	Seller addr.Address
	// Fee per unit capacity per epoch, scaled by the token precision.
	PricePerVote abi.TokenAmount
	// Use the protocol advised price instead of PricePerVote.
	UseAdvisedPrice bool
	// Maximum lease duration in periods, 0 for no limit.
	MaxDuration uint64
	// Listing expiry epoch; 0 means the seller's lock horizon applies.
	ExpireAt abi.ChainEpoch
	// Bounds on the percentage of the seller's capacity sold per lease,
	// in basis points.
	MinPercent uint64
	MaxPercent uint64
}

// Lease records an executed purchase. The record is immutable except for the
// Claimed flag, and is retained after cancellation for reward settlement.
type Lease struct {
	Seller addr.Address
	Buyer  addr.Address
	// Capacity amount fixed at purchase time.
	Amount abi.TokenAmount
	Start  abi.ChainEpoch
	// Epoch from which the seller may cancel.
	CancelAt abi.ChainEpoch
	// Period-aligned expiry.
	End abi.ChainEpoch
	// Reward index at Start, pro-rated within the start period.
	StartIndex abi.TokenAmount
	Claimed    bool
}

func (l *Lease) Expired(cur abi.ChainEpoch) bool {
	return cur >= l.End
}

type ConstructorParams struct {
	FeeReserveRatio    uint64
	MinPercentRequired uint64
	AdvisedPrice       abi.TokenAmount
}

func ConstructState(store adt.Store, params *ConstructorParams) (*State, error) {
	emptyMapCid, err := adt.StoreEmptyMap(store, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create empty map: %w", err)
	}

	offers, err := adt.MakeEmptyArray(store, OffersAmtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to create offers array: %w", err)
	}
	// Sentinel at index 0.
	if err := offers.Set(0, &Offer{
		Seller:       addr.Undef,
		PricePerVote: abi.NewTokenAmount(0),
	}); err != nil {
		return nil, xerrors.Errorf("failed to set sentinel offer: %w", err)
	}
	offersCid, err := offers.Root()
	if err != nil {
		return nil, xerrors.Errorf("failed to flush offers: %w", err)
	}

	return &State{
		Offers:      offersCid,
		OffersCount: 1,
		SellerIndex: emptyMapCid,

		Leases:      emptyMapCid,
		BuyerLeases: emptyMapCid,

		EarnedFees:      emptyMapCid,
		ReserveAmount:   abi.NewTokenAmount(0),
		FeeReserveRatio: params.FeeReserveRatio,

		MinPercentRequired: params.MinPercentRequired,
		AdvisedPrice:       params.AdvisedPrice,

		BaseDropPerVote:           abi.NewTokenAmount(0),
		MinDropPerVote:            abi.NewTokenAmount(0),
		TargetPurchaseAmount:      abi.NewTokenAmount(0),
		ExtraPaidPast:             abi.NewTokenAmount(0),
		RemainingRewardPastPeriod: abi.NewTokenAmount(0),

		PeriodRewardIndex:              emptyMapCid,
		PeriodDropPerVote:              emptyMapCid,
		PeriodPurchasedAmount:          emptyMapCid,
		PeriodEndPurchasedDecrease:     emptyMapCid,
		PeriodPurchasedDecreaseChanges: emptyMapCid,
	}, nil
}

// EffectivePrice returns the price a purchase against this offer pays.
func (st *State) EffectivePrice(offer *Offer) abi.TokenAmount {
	if offer.UseAdvisedPrice {
		return st.AdvisedPrice
	}
	return offer.PricePerVote
}

//
// Offer book
//

// SellerOfferIndex returns the seller's offer index, 0 if unregistered.
func (st *State) SellerOfferIndex(sellerIndex *adt.Map, seller addr.Address) (uint64, error) {
	var out cbg.CborInt
	found, err := sellerIndex.Get(abi.AddrKey(seller), &out)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get index of %s", seller)
	}
	if !found {
		return 0, nil
	}
	return uint64(out), nil
}

func (st *State) getOffer(offers *adt.Array, idx uint64) (*Offer, bool, error) {
	var out Offer
	found, err := offers.Get(idx, &out)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to get offer %d", idx)
	}
	return &out, found, nil
}

// AddOffer appends a new offer and records the seller's back-reference.
func (st *State) AddOffer(offers *adt.Array, sellerIndex *adt.Map, offer *Offer) (uint64, error) {
	idx := st.OffersCount
	if err := offers.Set(idx, offer); err != nil {
		return 0, errors.Wrapf(err, "failed to put offer %d", idx)
	}
	idxVal := cbg.CborInt(idx)
	if err := sellerIndex.Put(abi.AddrKey(offer.Seller), &idxVal); err != nil {
		return 0, errors.Wrapf(err, "failed to put index of %s", offer.Seller)
	}
	st.OffersCount++
	return idx, nil
}

// UpdateOffer replaces the offer at the seller's existing index.
func (st *State) UpdateOffer(offers *adt.Array, idx uint64, offer *Offer) error {
	return errors.Wrapf(offers.Set(idx, offer), "failed to update offer %d", idx)
}

// RemoveOffer removes an offer in O(1) by swapping the last entry into its
// slot and fixing up the moved seller's back-reference.
func (st *State) RemoveOffer(offers *adt.Array, sellerIndex *adt.Map, seller addr.Address, idx uint64) error {
	Assert(idx > 0 && idx < st.OffersCount)

	last := st.OffersCount - 1
	if idx != last {
		moved, found, err := st.getOffer(offers, last)
		if err != nil {
			return err
		}
		if !found {
			return errors.Errorf("offer %d not found", last)
		}
		if err := offers.Set(idx, moved); err != nil {
			return errors.Wrapf(err, "failed to move offer %d to %d", last, idx)
		}
		idxVal := cbg.CborInt(idx)
		if err := sellerIndex.Put(abi.AddrKey(moved.Seller), &idxVal); err != nil {
			return errors.Wrapf(err, "failed to update index of %s", moved.Seller)
		}
	}
	if err := offers.Delete(last); err != nil {
		return errors.Wrapf(err, "failed to delete offer %d", last)
	}
	if err := sellerIndex.Delete(abi.AddrKey(seller)); err != nil {
		return errors.Wrapf(err, "failed to delete index of %s", seller)
	}
	st.OffersCount = last
	return nil
}

//
// Fee bookkeeping
//

func (st *State) earnedFeesOf(earned *adt.Map, seller addr.Address) (abi.TokenAmount, error) {
	var out abi.TokenAmount
	found, err := earned.Get(abi.AddrKey(seller), &out)
	if err != nil {
		return big.Zero(), errors.Wrapf(err, "failed to get earned fees of %s", seller)
	}
	if !found {
		return big.Zero(), nil
	}
	return out, nil
}

// AddEarnedFees credits a seller's claimable fee balance.
func (st *State) AddEarnedFees(earned *adt.Map, seller addr.Address, amount abi.TokenAmount) error {
	prev, err := st.earnedFeesOf(earned, seller)
	if err != nil {
		return err
	}
	sum := big.Add(prev, amount)
	return errors.Wrapf(earned.Put(abi.AddrKey(seller), &sum), "failed to put earned fees of %s", seller)
}

// ClaimEarnedFees debits up to `amount` from the seller's claimable balance,
// the full balance if `amount` is zero. Fails on overdraw or empty balance.
func (st *State) ClaimEarnedFees(earned *adt.Map, seller addr.Address, amount abi.TokenAmount) (abi.TokenAmount, error) {
	balance, err := st.earnedFeesOf(earned, seller)
	if err != nil {
		return big.Zero(), err
	}
	if balance.IsZero() {
		return big.Zero(), errors.Errorf("no earned fees for %s", seller)
	}
	if amount.IsZero() {
		amount = balance
	} else if amount.GreaterThan(balance) {
		return big.Zero(), errors.Errorf("claim %v exceeds earned fees %v", amount, balance)
	}

	rest := big.Sub(balance, amount)
	if rest.IsZero() {
		if _, err := earned.TryDelete(abi.AddrKey(seller)); err != nil {
			return big.Zero(), err
		}
	} else if err := earned.Put(abi.AddrKey(seller), &rest); err != nil {
		return big.Zero(), errors.Wrapf(err, "failed to put earned fees of %s", seller)
	}
	return amount, nil
}

//
// Purchase records
//

func (st *State) getLease(leases *adt.Map, id uint64) (*Lease, bool, error) {
	var out Lease
	found, err := leases.Get(abi.UIntKey(id), &out)
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to get lease %d", id)
	}
	return &out, found, nil
}

// PutLease records a purchase and indexes it for the buyer.
func (st *State) PutLease(leases *adt.Map, buyerLeases *adt.Map, id uint64, lease *Lease) error {
	if err := leases.Put(abi.UIntKey(id), lease); err != nil {
		return errors.Wrapf(err, "failed to put lease %d", id)
	}

	var bf bitfield.BitField
	found, err := buyerLeases.Get(abi.AddrKey(lease.Buyer), &bf)
	if err != nil {
		return errors.Wrapf(err, "failed to get leases of %s", lease.Buyer)
	}
	if !found {
		bf = bitfield.New()
	}
	bf.Set(id)
	return errors.Wrapf(buyerLeases.Put(abi.AddrKey(lease.Buyer), bf), "failed to put leases of %s", lease.Buyer)
}

// BuyerLeaseIDs lists the lease IDs ever purchased by a buyer.
func (st *State) BuyerLeaseIDs(buyerLeases *adt.Map, buyer addr.Address) ([]uint64, error) {
	var bf bitfield.BitField
	found, err := buyerLeases.Get(abi.AddrKey(buyer), &bf)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get leases of %s", buyer)
	}
	if !found {
		return nil, nil
	}
	return bf.All(cbg.MaxLength)
}
