package runtime

import (
	"context"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/crypto"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/go-state-types/rt"
	"github.com/ipfs/go-cid"
)

// Runtime is the interface through which actor methods observe and mutate the
// world: the message being handled, chain state, the IPLD store backing actor
// state, and sends to other actors. Implementations are provided by the VM
// (and by support/mock for tests).
type Runtime interface {
	// Information about the current message.
	Message

	// The current chain epoch. Monotonically increasing, one per block.
	CurrEpoch() abi.ChainEpoch

	// Validates the caller against some predicate. Every actor method must
	// make exactly one caller validation call before touching state.
	ValidateImmediateCallerAcceptAny()
	ValidateImmediateCallerIs(addrs ...addr.Address)
	ValidateImmediateCallerType(types ...cid.Cid)

	// The balance of the receiving actor, including the value received in
	// the current message.
	CurrentBalance() abi.TokenAmount

	// Resolves an address of any protocol to an ID address (via the init
	// actor's address table).
	ResolveAddress(address addr.Address) (addr.Address, bool)

	// The code CID of the actor at the given address, if that actor exists.
	GetActorCodeCID(addr addr.Address) (cid.Cid, bool)

	// Initializes the receiving actor's state object. May be called only
	// once, from the constructor.
	StateCreate(obj cbor.Marshaler)

	// Loads a read-only copy of the receiving actor's state into obj.
	StateReadonly(obj cbor.Unmarshaler)

	// Loads a mutable version of the state into obj, calls f, and commits
	// the modified object back. No sends may be made inside f.
	StateTransaction(obj cbor.Er, f func())

	// The store backing actor state.
	Store() Store

	// Sends a message to another actor, transferring value and returning
	// the invoked method's exit code. The result is unmarshaled into out.
	Send(toAddr addr.Address, methodNum abi.MethodNum, params cbor.Marshaler, value abi.TokenAmount, out cbor.Er) exitcode.ExitCode

	// Halts execution with an error code and message. Does not return.
	Abortf(errExitCode exitcode.ExitCode, msg string, args ...interface{})

	// Provides the system call interface.
	Syscalls

	// Context for the current execution, for stores and cancellation only.
	// Actor code must remain deterministic regardless of this context.
	Context() context.Context

	// Logging for debugging purposes; not consensus-observable.
	Log(level rt.LogLevel, msg string, args ...interface{})
}

// Store provides access to the underlying IPLD state store. Errors putting or
// getting abort the calling message.
type Store interface {
	Context() context.Context
	StoreGet(c cid.Cid, o cbor.Unmarshaler) bool
	StorePut(x cbor.Marshaler) cid.Cid
}

// Message describes the message that triggered the current invocation.
type Message interface {
	// The address of the actor that sent the message (always an ID address).
	Caller() addr.Address

	// The address of the actor receiving the message (always an ID address).
	Receiver() addr.Address

	// The value attached to the message.
	ValueReceived() abi.TokenAmount
}

// Syscalls is the subset of system calls used by these actors.
type Syscalls interface {
	// Verifies that a signature is valid for an address and plaintext.
	VerifySignature(signature crypto.Signature, signer addr.Address, plaintext []byte) error

	// Computes an unsealed-data hash. Used as a cheap deterministic hash.
	HashBlake2b(data []byte) [32]byte
}
