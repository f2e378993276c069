package boost_test

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/builtin/boost"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
	"github.com/boostmarket/go-boost-actors/support/ipld"
)

const period = boost.RewardPeriod

func tokens(n int64) abi.TokenAmount {
	return big.Mul(big.NewInt(n), builtin.TokenPrecision)
}

// newRewardState configures emission at one unit of drop per vote against a
// target of 1000 purchased units.
func newRewardState(t *testing.T) (adt.Store, *boost.State) {
	store := ipld.NewADTStore(context.Background())
	st, err := boost.ConstructState(store, &boost.ConstructorParams{
		FeeReserveRatio:    1000,
		MinPercentRequired: 100,
		AdvisedPrice:       abi.NewTokenAmount(2),
	})
	require.NoError(t, err)

	st.BaseDropPerVote = builtin.TokenPrecision
	st.MinDropPerVote = big.Div(builtin.TokenPrecision, big.NewInt(10))
	st.TargetPurchaseAmount = tokens(1000)
	return store, st
}

func periodValue(t *testing.T, store adt.Store, root cid.Cid, p abi.ChainEpoch) abi.TokenAmount {
	m, err := adt.AsMap(store, root, builtin.DefaultHamtBitwidth)
	require.NoError(t, err)
	var out abi.TokenAmount
	found, err := m.Get(abi.IntKey(int64(p)), &out)
	require.NoError(t, err)
	if !found {
		return big.Zero()
	}
	return out
}

func TestStartRewardDistribution(t *testing.T) {
	t.Run("seeds drop for the next full period", func(t *testing.T) {
		store, st := newRewardState(t)
		require.NoError(t, st.StartRewardDistribution(store, 100))

		// The remainder of the activation period distributes nothing.
		require.Equal(t, 2*period, st.NextUpdatePeriod)
		require.Equal(t, big.Zero(), periodValue(t, store, st.PeriodDropPerVote, 0))
		require.Equal(t, st.BaseDropPerVote, periodValue(t, store, st.PeriodDropPerVote, period))
	})

	t.Run("cannot start twice", func(t *testing.T) {
		store, st := newRewardState(t)
		require.NoError(t, st.StartRewardDistribution(store, 0))

		err := st.StartRewardDistribution(store, period)
		require.Error(t, err)
		require.Contains(t, err.Error(), "already started")
	})

	t.Run("requires configured parameters", func(t *testing.T) {
		store, st := newRewardState(t)
		st.TargetPurchaseAmount = big.Zero()

		err := st.StartRewardDistribution(store, 0)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not configured")
	})
}

func TestUpdateRewardState(t *testing.T) {
	t.Run("noop before start or before a period elapses", func(t *testing.T) {
		store, st := newRewardState(t)
		require.NoError(t, st.UpdateRewardState(store, 5*period))
		require.Equal(t, abi.ChainEpoch(0), st.NextUpdatePeriod)

		require.NoError(t, st.StartRewardDistribution(store, 0))
		require.NoError(t, st.UpdateRewardState(store, period-1))
		require.Equal(t, 2*period, st.NextUpdatePeriod)

		// The first distributed period is still in progress.
		require.NoError(t, st.UpdateRewardState(store, 2*period-1))
		require.Equal(t, 2*period, st.NextUpdatePeriod)
	})

	t.Run("rate rises while nothing is purchased", func(t *testing.T) {
		store, st := newRewardState(t)
		require.NoError(t, st.StartRewardDistribution(store, 0))
		require.NoError(t, st.UpdateRewardState(store, 3*period))

		// Each idle week banks the full weekly budget, raising the drop by
		// one base unit per week. The activation period banks nothing.
		require.Equal(t, 4*period, st.NextUpdatePeriod)
		require.Equal(t, tokens(2000), st.RemainingRewardPastPeriod)
		require.Equal(t, big.Mul(big.NewInt(2), builtin.TokenPrecision), periodValue(t, store, st.PeriodDropPerVote, 2*period))
		require.Equal(t, big.Mul(big.NewInt(3), builtin.TokenPrecision), periodValue(t, store, st.PeriodDropPerVote, 3*period))

		require.Equal(t, big.Zero(), periodValue(t, store, st.PeriodRewardIndex, period))
		require.Equal(t, builtin.TokenPrecision, periodValue(t, store, st.PeriodRewardIndex, 2*period))
		require.Equal(t, big.Mul(big.NewInt(3), builtin.TokenPrecision), periodValue(t, store, st.PeriodRewardIndex, 3*period))
	})

	t.Run("rate holds at target purchase volume", func(t *testing.T) {
		store, st := newRewardState(t)
		require.NoError(t, st.StartRewardDistribution(store, 0))

		_, err := st.RecordPurchase(store, st.TargetPurchaseAmount, period, 2*period)
		require.NoError(t, err)

		require.NoError(t, st.UpdateRewardState(store, 2*period))
		require.Equal(t, 3*period, st.NextUpdatePeriod)
		require.Equal(t, big.Zero(), st.RemainingRewardPastPeriod)
		require.Equal(t, big.Zero(), st.ExtraPaidPast)
		require.Equal(t, st.BaseDropPerVote, periodValue(t, store, st.PeriodDropPerVote, 2*period))
	})

	t.Run("catch-up is capped per call", func(t *testing.T) {
		store, st := newRewardState(t)
		require.NoError(t, st.StartRewardDistribution(store, 0))

		require.NoError(t, st.UpdateRewardState(store, 150*period))
		require.Equal(t, abi.ChainEpoch(boost.MaxUpdatePeriods+2)*period, st.NextUpdatePeriod)

		require.NoError(t, st.UpdateRewardState(store, 150*period))
		require.Equal(t, 151*period, st.NextUpdatePeriod)
	})
}

func TestRecordPurchase(t *testing.T) {
	t.Run("mid-period start pro-rates the index", func(t *testing.T) {
		store, st := newRewardState(t)
		require.NoError(t, st.StartRewardDistribution(store, 0))

		start := period + period/2
		startIndex, err := st.RecordPurchase(store, tokens(300), start, 3*period)
		require.NoError(t, err)

		// Half the start period elapsed at half of the base drop.
		require.Equal(t, big.Div(builtin.TokenPrecision, big.NewInt(2)), startIndex)
		require.Equal(t, tokens(300), periodValue(t, store, st.PeriodPurchasedAmount, period))

		// 300 units over 1.5 periods decay 200 per period: 100 within the
		// start period, then a full step until the end period.
		require.Equal(t, tokens(100), periodValue(t, store, st.PeriodEndPurchasedDecrease, period))
		require.Equal(t, tokens(100), periodValue(t, store, st.PeriodPurchasedDecreaseChanges, 2*period))
		require.Equal(t, tokens(200), periodValue(t, store, st.PeriodEndPurchasedDecrease, 2*period))
		require.Equal(t, tokens(200), periodValue(t, store, st.PeriodPurchasedDecreaseChanges, 3*period))
	})

	t.Run("purchased amount decays across updates", func(t *testing.T) {
		store, st := newRewardState(t)
		require.NoError(t, st.StartRewardDistribution(store, 0))

		_, err := st.RecordPurchase(store, tokens(300), period+period/2, 3*period)
		require.NoError(t, err)

		require.NoError(t, st.UpdateRewardState(store, 3*period))
		require.Equal(t, tokens(200), periodValue(t, store, st.PeriodPurchasedAmount, 2*period))
		require.Equal(t, big.Zero(), periodValue(t, store, st.PeriodPurchasedAmount, 3*period))
	})
}

func TestLeaseReward(t *testing.T) {
	// One full-period lease sized so the decay step divides evenly.
	amount := big.Mul(big.NewInt(int64(period)), big.NewInt(1e15))

	setup := func(t *testing.T) (adt.Store, *boost.State, *boost.Lease) {
		store, st := newRewardState(t)
		require.NoError(t, st.StartRewardDistribution(store, 0))

		startIndex, err := st.RecordPurchase(store, amount, period, 2*period)
		require.NoError(t, err)
		require.Equal(t, big.Zero(), startIndex)

		return store, st, &boost.Lease{
			Amount:     amount,
			Start:      period,
			End:        2 * period,
			StartIndex: startIndex,
		}
	}

	t.Run("zero before the lease ends", func(t *testing.T) {
		store, st, lease := setup(t)
		reward, err := st.LeaseReward(store, lease, 2*period-1)
		require.NoError(t, err)
		require.Equal(t, big.Zero(), reward)
	})

	t.Run("fails while the index lags the lease end", func(t *testing.T) {
		store, st, lease := setup(t)
		_, err := st.LeaseReward(store, lease, 2*period)
		require.Equal(t, boost.ErrRewardIndexBehind, err)
	})

	t.Run("pays the index delta on the average amount", func(t *testing.T) {
		store, st, lease := setup(t)
		require.NoError(t, st.UpdateRewardState(store, 2*period))

		reward, err := st.LeaseReward(store, lease, 2*period)
		require.NoError(t, err)

		// The amount decays from `amount` to zero, so one full period at an
		// index delta of one base drop pays out half the amount (plus half a
		// decay step from the discrete sum).
		step := big.Div(amount, big.NewInt(int64(period)))
		expected := big.Div(big.Add(amount, step), big.NewInt(2))
		require.Equal(t, expected, reward)
	})
}
