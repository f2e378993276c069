package ledger

import (
	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/filecoin-project/go-state-types/abi"
)

// Minimum lifetime of a new escrow lock.
const MinLockDuration = abi.ChainEpoch(builtin.EpochsInWeek)

// Maximum lifetime of a new escrow lock.
const MaxLockDuration = abi.ChainEpoch(4 * 52 * builtin.EpochsInWeek)

// Bitwidth of the leases AMT; dense sequential IDs favour a wide fanout.
const LeasesAmtBitwidth = 3
