package builtin

import (
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
)

// The duration of a chain epoch.
const EpochDurationSeconds = 30
const SecondsInHour = 60 * 60
const SecondsInDay = 24 * SecondsInHour
const EpochsInHour = SecondsInHour / EpochDurationSeconds
const EpochsInDay = 24 * EpochsInHour
const EpochsInWeek = 7 * EpochsInDay
const EpochsInYear = 365 * EpochsInDay

// The scale factor for fixed-point rates and per-unit amounts: one full token.
var TokenPrecision = big.NewIntUnsigned(1_000_000_000_000_000_000)

// Basis points denominator for all percentage parameters.
const BasisPoints = 10000

// PeriodStart rounds an epoch down to the start of its accounting period.
func PeriodStart(e abi.ChainEpoch, period abi.ChainEpoch) abi.ChainEpoch {
	return e - (e % period)
}
