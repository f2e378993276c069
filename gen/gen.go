package main

import (
	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/builtin/boost"
	"github.com/boostmarket/go-boost-actors/actors/builtin/govern"
	"github.com/boostmarket/go-boost-actors/actors/builtin/ledger"
	"github.com/boostmarket/go-boost-actors/actors/builtin/system"
	gen "github.com/whyrusleeping/cbor-gen"
)

func main() {
	// Common types
	if err := gen.WriteTupleEncodersToFile("./actors/builtin/cbor_gen.go", "builtin",
		builtin.BoolValue{},
		builtin.AddressParams{},
		builtin.ValidateGrantedParams{},
		builtin.GetDelegableBalanceReturn{},
		builtin.IsAuthorizedParams{},
		builtin.IssueLeaseParams{},
		builtin.IssueLeaseReturn{},
		builtin.LeaseIDParams{},
		builtin.LeaseAmountReturn{},
		builtin.GetBlockingLeaseParams{},
		builtin.GetBlockingLeaseReturn{},
	); err != nil {
		panic(err)
	}

	// Actors
	if err := gen.WriteTupleEncodersToFile("./actors/builtin/system/cbor_gen.go", "system",
		// actor state
		system.State{},
	); err != nil {
		panic(err)
	}

	if err := gen.WriteTupleEncodersToFile("./actors/builtin/govern/cbor_gen.go", "govern",
		// actor state
		govern.State{},
		govern.GrantedAuthorities{},
		// method params and returns
		govern.GrantOrRevokeParams{},
		// other types
		govern.Authority{},
	); err != nil {
		panic(err)
	}

	if err := gen.WriteTupleEncodersToFile("./actors/builtin/ledger/cbor_gen.go", "ledger",
		// actor state
		ledger.State{},
		ledger.Lock{},
		ledger.LeaseGrant{},
		// method params and returns
		ledger.LockParams{},
	); err != nil {
		panic(err)
	}

	if err := gen.WriteTupleEncodersToFile("./actors/builtin/boost/cbor_gen.go", "boost",
		// actor state
		boost.State{},
		boost.Offer{},
		boost.Lease{},
		// method params and returns
		boost.ConstructorParams{},
		boost.OfferParams{},
		boost.OfferPriceParams{},
		boost.EstimateFeesParams{},
		boost.FeesReturn{},
		boost.BuyParams{},
		boost.BuyReturn{},
		boost.ClaimFeesParams{},
		boost.MultiBuyParams{},
		boost.MultiBuyReturn{},
		boost.StartRewardParams{},
		boost.ClaimRewardMultipleParams{},
		boost.WithdrawReserveParams{},
		boost.AmountParams{},
		boost.RatioParams{},
	); err != nil {
		panic(err)
	}
}
