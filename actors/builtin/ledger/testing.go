package ledger

import (
	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-bitfield"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

type StateSummary struct {
	LockCount       int
	LeaseCount      int
	CancelledLeases int
	TotalLocked     abi.TokenAmount
}

func CheckStateInvariants(st *State, store adt.Store) (*StateSummary, *builtin.MessageAccumulator) {
	acc := &builtin.MessageAccumulator{}
	sum := &StateSummary{
		TotalLocked: st.TotalLocked,
	}

	acc.Require(st.NextLeaseID >= 1, "next lease ID %d below 1", st.NextLeaseID)
	acc.Require(!st.TotalLocked.LessThan(big.Zero()), "negative total locked %v", st.TotalLocked)

	// Locks
	totalDeposits := big.Zero()
	locks, err := adt.AsMap(store, st.Locks, builtin.DefaultHamtBitwidth)
	if err != nil {
		acc.Addf("error loading locks: %v", err)
	} else {
		var lock Lock
		err = locks.ForEach(&lock, func(k string) error {
			sum.LockCount++
			owner, err := address.NewFromBytes([]byte(k))
			acc.RequireNoError(err, "error deserializing lock owner: %s", k)

			acc.Require(lock.Amount.GreaterThan(big.Zero()), "lock of %s non positive amount", owner)
			acc.Require(lock.Start < lock.Unlock, "lock of %s start %d not before unlock %d", owner, lock.Start, lock.Unlock)
			totalDeposits = big.Add(totalDeposits, lock.Amount)
			return nil
		})
		acc.RequireNoError(err, "error iterating locks")
	}
	acc.Require(!totalDeposits.GreaterThan(st.TotalLocked), "lock deposits %v exceed total locked %v", totalDeposits, st.TotalLocked)

	// Operator approvals
	operators, err := adt.AsMap(store, st.Operators, builtin.DefaultHamtBitwidth)
	if err != nil {
		acc.Addf("error loading operators: %v", err)
	} else {
		var bf bitfield.BitField
		err = operators.ForEach(&bf, func(k string) error {
			owner, err := address.NewFromBytes([]byte(k))
			acc.RequireNoError(err, "error deserializing operator owner: %s", k)

			empty, err := bf.IsEmpty()
			acc.RequireNoError(err, "error checking operators of %s", owner)
			acc.Require(!empty, "empty operator set retained for %s", owner)
			return nil
		})
		acc.RequireNoError(err, "error iterating operators")
	}

	// Leases
	leaseOwners := make(map[uint64]address.Address)
	cancelled := make(map[uint64]bool)
	leases, err := adt.AsArray(store, st.Leases, LeasesAmtBitwidth)
	if err != nil {
		acc.Addf("error loading leases: %v", err)
	} else {
		var grant LeaseGrant
		err = leases.ForEach(&grant, func(id int64) error {
			sum.LeaseCount++
			acc.Require(uint64(id) > 0, "lease issued with sentinel ID 0")
			acc.Require(uint64(id) < st.NextLeaseID, "lease %d at or beyond next ID %d", id, st.NextLeaseID)
			acc.Require(grant.Amount.GreaterThan(big.Zero()), "lease %d non positive amount", id)
			acc.Require(grant.Start < grant.ExpireAt, "lease %d start %d not before expiry %d", id, grant.Start, grant.ExpireAt)
			acc.Require(grant.CancelAt <= grant.ExpireAt, "lease %d cancel epoch %d after expiry %d", id, grant.CancelAt, grant.ExpireAt)
			acc.Require(grant.Owner != grant.Receiver, "lease %d owner and receiver identical", id)
			if grant.Cancelled {
				sum.CancelledLeases++
			}
			leaseOwners[uint64(id)] = grant.Owner
			cancelled[uint64(id)] = grant.Cancelled
			return nil
		})
		acc.RequireNoError(err, "error iterating leases")
	}

	// Owner index holds exactly the uncancelled leases.
	indexed := make(map[uint64]bool)
	ownerLeases, err := adt.AsMap(store, st.OwnerLeases, builtin.DefaultHamtBitwidth)
	if err != nil {
		acc.Addf("error loading owner leases: %v", err)
	} else {
		var bf bitfield.BitField
		err = ownerLeases.ForEach(&bf, func(k string) error {
			owner, err := address.NewFromBytes([]byte(k))
			acc.RequireNoError(err, "error deserializing lease owner: %s", k)

			return bf.ForEach(func(id uint64) error {
				indexed[id] = true
				actual, ok := leaseOwners[id]
				acc.Require(ok, "owner %s indexes unknown lease %d", owner, id)
				if ok {
					acc.Require(actual == owner, "lease %d indexed for %s but owned by %s", id, owner, actual)
					acc.Require(!cancelled[id], "cancelled lease %d still indexed for %s", id, owner)
				}
				return nil
			})
		})
		acc.RequireNoError(err, "error iterating owner leases")
	}
	for id, isCancelled := range cancelled {
		if !isCancelled {
			acc.Require(indexed[id], "uncancelled lease %d missing from owner index", id)
		}
	}

	return sum, acc
}
