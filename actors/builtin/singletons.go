package builtin

import (
	addr "github.com/filecoin-project/go-address"
)

// Addresses for singleton system actors.
var (
	SystemActorAddr     = mustMakeAddress(0)
	InitActorAddr       = mustMakeAddress(1)
	GovernActorAddr     = mustMakeAddress(2)
	LedgerActorAddr     = mustMakeAddress(3)
	MarketActorAddr     = mustMakeAddress(4)
	BurntFundsActorAddr = mustMakeAddress(99)
)

const FirstNonSingletonActorId = 100

func mustMakeAddress(id uint64) addr.Address {
	address, err := addr.NewIDAddress(id)
	if err != nil {
		panic(err)
	}
	return address
}
