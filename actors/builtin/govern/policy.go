package govern

import (
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/ipfs/go-cid"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
)

// Governed methods of each actor code
var GovernedActors = map[cid.Cid]map[abi.MethodNum]struct{}{
	builtin.MarketActorCodeID: {
		builtin.MethodsMarket.StartRewardDistribution: struct{}{},
		builtin.MethodsMarket.WithdrawReserve:         struct{}{},
		builtin.MethodsMarket.SetAdvisedPrice:         struct{}{},
		builtin.MethodsMarket.SetFeeReserveRatio:      struct{}{},
		builtin.MethodsMarket.SetMinPercentRequired:   struct{}{},
		builtin.MethodsMarket.SetBaseDropPerVote:      struct{}{},
		builtin.MethodsMarket.SetMinDropPerVote:       struct{}{},
		builtin.MethodsMarket.SetTargetPurchaseAmount: struct{}{},
		builtin.MethodsMarket.Pause:                   struct{}{},
		builtin.MethodsMarket.Unpause:                 struct{}{},
	},
}

var GovernedCallerTypes = func() []cid.Cid {
	ret := make([]cid.Cid, 0, len(GovernedActors))
	for code := range GovernedActors {
		ret = append(ret, code)
	}
	return ret
}()
