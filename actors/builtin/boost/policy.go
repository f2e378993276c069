package boost

import (
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
)

// Length of one reward accounting period. Lease expiries and reward-rate
// adjustments are aligned to period boundaries.
const RewardPeriod = abi.ChainEpoch(builtin.EpochsInWeek)

// Maximum number of periods finalized by a single reward-state update. When
// further behind, repeated calls continue the catch-up.
const MaxUpdatePeriods = 100

// Minimum lease duration, in periods.
const MinLeaseDuration = uint64(1)

// Upper bound on the protocol's cut of purchase fees, in basis points.
const MaxFeeReserveRatio = uint64(5000)

// Bitwidth of the offers AMT; the arena is dense so favour a wide fanout.
const OffersAmtBitwidth = 3
