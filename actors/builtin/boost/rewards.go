package boost

import (
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/pkg/errors"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

// ErrRewardIndexBehind signals that the reward index has not been settled
// through a lease's end period yet, usually because a catch-up was capped.
var ErrRewardIndexBehind = errors.New("reward index not settled through lease end")

// CurrentPeriod rounds an epoch down to its reward period start.
func CurrentPeriod(e abi.ChainEpoch) abi.ChainEpoch {
	return builtin.PeriodStart(e, RewardPeriod)
}

func periodKey(p abi.ChainEpoch) abi.Keyer {
	return abi.IntKey(int64(p))
}

func periodAmount(m *adt.Map, p abi.ChainEpoch) (abi.TokenAmount, error) {
	var out abi.TokenAmount
	found, err := m.Get(periodKey(p), &out)
	if err != nil {
		return big.Zero(), errors.Wrapf(err, "failed to get amount of period %d", p)
	}
	if !found {
		return big.Zero(), nil
	}
	return out, nil
}

func setPeriodAmount(m *adt.Map, p abi.ChainEpoch, v abi.TokenAmount) error {
	return errors.Wrapf(m.Put(periodKey(p), &v), "failed to put amount of period %d", p)
}

func addPeriodAmount(m *adt.Map, p abi.ChainEpoch, delta abi.TokenAmount) error {
	prev, err := periodAmount(m, p)
	if err != nil {
		return err
	}
	return setPeriodAmount(m, p, big.Add(prev, delta))
}

type rewardMaps struct {
	index           *adt.Map
	drop            *adt.Map
	purchased       *adt.Map
	endDecrease     *adt.Map
	decreaseChanges *adt.Map
}

func (st *State) loadRewardMaps(store adt.Store) (*rewardMaps, error) {
	index, err := adt.AsMap(store, st.PeriodRewardIndex, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reward index map")
	}
	drop, err := adt.AsMap(store, st.PeriodDropPerVote, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load drop map")
	}
	purchased, err := adt.AsMap(store, st.PeriodPurchasedAmount, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load purchased amount map")
	}
	endDecrease, err := adt.AsMap(store, st.PeriodEndPurchasedDecrease, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load end decrease map")
	}
	decreaseChanges, err := adt.AsMap(store, st.PeriodPurchasedDecreaseChanges, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load decrease changes map")
	}
	return &rewardMaps{index, drop, purchased, endDecrease, decreaseChanges}, nil
}

func (st *State) flushRewardMaps(maps *rewardMaps) error {
	var err error
	if st.PeriodRewardIndex, err = maps.index.Root(); err != nil {
		return errors.Wrap(err, "failed to flush reward index map")
	}
	if st.PeriodDropPerVote, err = maps.drop.Root(); err != nil {
		return errors.Wrap(err, "failed to flush drop map")
	}
	if st.PeriodPurchasedAmount, err = maps.purchased.Root(); err != nil {
		return errors.Wrap(err, "failed to flush purchased amount map")
	}
	if st.PeriodEndPurchasedDecrease, err = maps.endDecrease.Root(); err != nil {
		return errors.Wrap(err, "failed to flush end decrease map")
	}
	if st.PeriodPurchasedDecreaseChanges, err = maps.decreaseChanges.Root(); err != nil {
		return errors.Wrap(err, "failed to flush decrease changes map")
	}
	return nil
}

// StartRewardDistribution begins reward emission from the next full period.
// The remainder of the current period distributes nothing. Irreversible.
// The drop rate and target must have been configured.
func (st *State) StartRewardDistribution(store adt.Store, cur abi.ChainEpoch) error {
	if st.NextUpdatePeriod != 0 {
		return errors.New("reward distribution already started")
	}
	if st.BaseDropPerVote.IsZero() || st.MinDropPerVote.IsZero() || st.TargetPurchaseAmount.IsZero() {
		return errors.New("reward parameters not configured")
	}

	maps, err := st.loadRewardMaps(store)
	if err != nil {
		return err
	}
	startPeriod := CurrentPeriod(cur) + RewardPeriod
	if err := setPeriodAmount(maps.drop, startPeriod, st.BaseDropPerVote); err != nil {
		return err
	}
	if err := st.flushRewardMaps(maps); err != nil {
		return err
	}
	st.NextUpdatePeriod = startPeriod + RewardPeriod
	return nil
}

// UpdateRewardState finalizes elapsed periods up to and including the current
// one, at most MaxUpdatePeriods at a time. For each finalized period it
// advances the reward index by the period's drop, carries the purchased
// amount and its decay schedule forward, and retunes the next period's drop
// so that emission tracks the weekly budget of BaseDropPerVote over
// TargetPurchaseAmount.
func (st *State) UpdateRewardState(store adt.Store, cur abi.ChainEpoch) error {
	if st.NextUpdatePeriod == 0 {
		return nil
	}
	currentPeriod := CurrentPeriod(cur)
	if currentPeriod < st.NextUpdatePeriod {
		return nil
	}

	maps, err := st.loadRewardMaps(store)
	if err != nil {
		return err
	}

	unit := builtin.TokenPrecision
	weeklyDropAmount := big.Div(big.Mul(st.BaseDropPerVote, st.TargetPurchaseAmount), unit)

	for i := 0; i < MaxUpdatePeriods && st.NextUpdatePeriod <= currentPeriod; i++ {
		next := st.NextUpdatePeriod
		prev := next - RewardPeriod

		prevDrop, err := periodAmount(maps.drop, prev)
		if err != nil {
			return err
		}
		prevPurchased, err := periodAmount(maps.purchased, prev)
		if err != nil {
			return err
		}
		prevIndex, err := periodAmount(maps.index, prev)
		if err != nil {
			return err
		}
		prevEndDecrease, err := periodAmount(maps.endDecrease, prev)
		if err != nil {
			return err
		}

		if err := setPeriodAmount(maps.index, next, big.Add(prevIndex, prevDrop)); err != nil {
			return err
		}

		// Carry the decaying purchased amount into the new period.
		if err := addPeriodAmount(maps.purchased, next, big.Sub(prevPurchased, prevEndDecrease)); err != nil {
			return err
		}
		changes, err := periodAmount(maps.decreaseChanges, next)
		if err != nil {
			return err
		}
		if err := addPeriodAmount(maps.endDecrease, next, big.Sub(prevEndDecrease, changes)); err != nil {
			return err
		}

		// Net the finished period's actual emission against the weekly
		// budget, then retune the drop for the new period.
		distributed := big.Div(big.Mul(prevPurchased, prevDrop), unit)
		if distributed.GreaterThan(weeklyDropAmount) {
			over := big.Sub(distributed, weeklyDropAmount)
			if st.RemainingRewardPastPeriod.GreaterThanEqual(over) {
				st.RemainingRewardPastPeriod = big.Sub(st.RemainingRewardPastPeriod, over)
			} else {
				st.ExtraPaidPast = big.Add(st.ExtraPaidPast, big.Sub(over, st.RemainingRewardPastPeriod))
				st.RemainingRewardPastPeriod = big.Zero()
			}
		} else {
			under := big.Sub(weeklyDropAmount, distributed)
			if st.ExtraPaidPast.GreaterThanEqual(under) {
				st.ExtraPaidPast = big.Sub(st.ExtraPaidPast, under)
			} else {
				st.RemainingRewardPastPeriod = big.Add(st.RemainingRewardPastPeriod, big.Sub(under, st.ExtraPaidPast))
				st.ExtraPaidPast = big.Zero()
			}
		}

		nextDropAmount := big.Max(big.Sub(big.Add(weeklyDropAmount, st.RemainingRewardPastPeriod), st.ExtraPaidPast), big.Zero())
		nextDrop := big.Max(big.Div(big.Mul(nextDropAmount, unit), st.TargetPurchaseAmount), st.MinDropPerVote)
		if err := setPeriodAmount(maps.drop, next, nextDrop); err != nil {
			return err
		}

		st.NextUpdatePeriod = next + RewardPeriod
	}

	return st.flushRewardMaps(maps)
}

// RecordPurchase books a new lease into the period accounting and returns
// the reward index the lease starts accruing from.
//
// The returned start index pro-rates the start period's drop so the lease
// earns nothing before its start epoch. The lease's linear amount decay is
// captured as a per-period decrease schedule: a partial decrease over the
// remainder of the start period, then a constant weekly decrease until the
// end period.
func (st *State) RecordPurchase(store adt.Store, amount abi.TokenAmount, start, end abi.ChainEpoch) (abi.TokenAmount, error) {
	maps, err := st.loadRewardMaps(store)
	if err != nil {
		return big.Zero(), err
	}

	curPeriod := CurrentPeriod(start)
	nextPeriod := curPeriod + RewardPeriod
	week := big.NewInt(int64(RewardPeriod))

	if err := addPeriodAmount(maps.purchased, curPeriod, amount); err != nil {
		return big.Zero(), err
	}

	curIndex, err := periodAmount(maps.index, curPeriod)
	if err != nil {
		return big.Zero(), err
	}
	curDrop, err := periodAmount(maps.drop, curPeriod)
	if err != nil {
		return big.Zero(), err
	}
	elapsed := big.NewInt(int64(start - curPeriod))
	startIndex := big.Add(curIndex, big.Div(big.Mul(curDrop, elapsed), week))

	weeklyDecrease := big.Div(big.Mul(amount, week), big.NewInt(int64(end-start)))
	firstDecrease := big.Div(big.Mul(weeklyDecrease, big.NewInt(int64(nextPeriod-start))), week)
	if err := addPeriodAmount(maps.endDecrease, curPeriod, firstDecrease); err != nil {
		return big.Zero(), err
	}
	if err := addPeriodAmount(maps.decreaseChanges, nextPeriod, firstDecrease); err != nil {
		return big.Zero(), err
	}
	if end > nextPeriod {
		if err := addPeriodAmount(maps.endDecrease, nextPeriod, weeklyDecrease); err != nil {
			return big.Zero(), err
		}
		if err := addPeriodAmount(maps.decreaseChanges, end, weeklyDecrease); err != nil {
			return big.Zero(), err
		}
	}

	if err := st.flushRewardMaps(maps); err != nil {
		return big.Zero(), err
	}
	return startIndex, nil
}

// LeaseReward computes the total reward accrued by an expired lease. The
// lease's amount decays linearly to zero at its end, so each period
// contributes the index delta times the average amount over the period.
// Returns zero before the lease has ended, and ErrRewardIndexBehind if the
// index has not been settled through the end period.
func (st *State) LeaseReward(store adt.Store, lease *Lease, cur abi.ChainEpoch) (abi.TokenAmount, error) {
	if cur < lease.End {
		return big.Zero(), nil
	}
	if st.NextUpdatePeriod <= lease.End {
		return big.Zero(), ErrRewardIndexBehind
	}

	index, err := adt.AsMap(store, st.PeriodRewardIndex, builtin.DefaultHamtBitwidth)
	if err != nil {
		return big.Zero(), errors.Wrap(err, "failed to load reward index map")
	}

	duration := big.NewInt(int64(lease.End - lease.Start))
	decreaseStep := big.Div(lease.Amount, duration)
	unit := builtin.TokenPrecision

	total := big.Zero()
	period := CurrentPeriod(lease.Start) + RewardPeriod
	prevIndex := lease.StartIndex
	intervalStart := lease.Start
	for {
		nextIndex, err := periodAmount(index, period)
		if err != nil {
			return big.Zero(), err
		}
		span := big.NewInt(int64(period - intervalStart))
		endAmount := big.Mul(decreaseStep, big.NewInt(int64(lease.End-period)))
		avgAmount := big.Add(endAmount, big.Div(big.Add(decreaseStep, big.Mul(decreaseStep, span)), big.NewInt(2)))
		total = big.Add(total, big.Div(big.Mul(big.Sub(nextIndex, prevIndex), avgAmount), unit))

		if period >= lease.End {
			break
		}
		prevIndex = nextIndex
		intervalStart = period
		period += RewardPeriod
	}
	return total, nil
}
