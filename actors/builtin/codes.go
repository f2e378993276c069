package builtin

import (
	"sort"

	cid "github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
)

// The built-in actor code IDs
var (
	SystemActorCodeID   cid.Cid
	InitActorCodeID     cid.Cid
	AccountActorCodeID  cid.Cid
	MultisigActorCodeID cid.Cid
	GovernActorCodeID   cid.Cid
	LedgerActorCodeID   cid.Cid
	MarketActorCodeID   cid.Cid
	CallerTypesSignable []cid.Cid
)

var builtinActors map[cid.Cid]*actorInfo

type actorInfo struct {
	name   string
	signer bool
	// principal actors are those any other actor may act on behalf of
	// (accounts and multisigs), as opposed to system machinery.
	principal bool
}

func init() {
	builder := cid.V1Builder{Codec: cid.Raw, MhType: mh.IDENTITY}
	builtinActors = make(map[cid.Cid]*actorInfo)

	for id, info := range map[*cid.Cid]*actorInfo{ //nolint:nomaprange
		&SystemActorCodeID:   {name: "boost/1/system"},
		&InitActorCodeID:     {name: "boost/1/init"},
		&AccountActorCodeID:  {name: "boost/1/account", signer: true, principal: true},
		&MultisigActorCodeID: {name: "boost/1/multisig", principal: true},
		&GovernActorCodeID:   {name: "boost/1/govern"},
		&LedgerActorCodeID:   {name: "boost/1/ledger"},
		&MarketActorCodeID:   {name: "boost/1/market"},
	} {
		c, err := builder.Sum([]byte(info.name))
		if err != nil {
			panic(err)
		}
		*id = c
		builtinActors[c] = info
	}

	// Set of actor code types that can represent external signing parties.
	for id, info := range builtinActors { //nolint:nomaprange
		if info.signer {
			CallerTypesSignable = append(CallerTypesSignable, id)
		}
	}
	sort.Slice(CallerTypesSignable, func(i, j int) bool {
		return CallerTypesSignable[i].KeyString() < CallerTypesSignable[j].KeyString()
	})
}

// IsBuiltinActor tests whether a code CID represents an actor built in to the system.
func IsBuiltinActor(code cid.Cid) bool {
	_, isBuiltin := builtinActors[code]
	return isBuiltin
}

// ActorNameByCode returns the name of an actor code CID, if built in.
func ActorNameByCode(code cid.Cid) string {
	if info, ok := builtinActors[code]; ok {
		return info.name
	}
	return "<unknown>"
}

// IsSingletonActor tests whether an actor type is a singleton actor (i.e. cannot be instantiated).
func IsSingletonActor(code cid.Cid) bool {
	return code.Equals(SystemActorCodeID) ||
		code.Equals(InitActorCodeID) ||
		code.Equals(GovernActorCodeID) ||
		code.Equals(LedgerActorCodeID) ||
		code.Equals(MarketActorCodeID)
}

// IsPrincipal tests whether an actor code may act on behalf of external parties.
func IsPrincipal(code cid.Cid) bool {
	info, ok := builtinActors[code]
	return ok && info.principal
}
