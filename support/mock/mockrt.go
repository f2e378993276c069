package mock

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"runtime/debug"
	"strings"
	"testing"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/filecoin-project/go-state-types/cbor"
	"github.com/filecoin-project/go-state-types/crypto"
	"github.com/filecoin-project/go-state-types/exitcode"
	gort "github.com/filecoin-project/go-state-types/rt"
	cid "github.com/ipfs/go-cid"
	blake2b "github.com/minio/blake2b-simd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boostmarket/go-boost-actors/actors/runtime"
	"github.com/boostmarket/go-boost-actors/actors/util/adt"
)

// A mock runtime for unit testing of actors in isolation.
// The mock allows direct specification of the runtime context as observable by an actor, supports
// the storage interface, and mocks out side-effect-inducing calls.
type Runtime struct {
	// Execution context
	ctx           context.Context
	epoch         abi.ChainEpoch
	receiver      addr.Address
	caller        addr.Address
	callerType    cid.Cid
	valueReceived abi.TokenAmount
	idAddresses   map[addr.Address]addr.Address
	actorCodeCIDs map[addr.Address]cid.Cid

	// Actor state
	state   cid.Cid
	balance abi.TokenAmount
	store   map[cid.Cid][]byte

	// Expectations
	t                        testing.TB
	expectValidateCallerAny  bool
	expectValidateCallerAddr []addr.Address
	expectValidateCallerType []cid.Cid
	expectSends              []*expectedMessage
	expectVerifySigs         []*expectVerifySig

	// Control
	inCall        bool
	inTransaction bool
	logs          []string
}

type expectedMessage struct {
	// Expected parameters
	to     addr.Address
	method abi.MethodNum
	params cbor.Marshaler
	value  abi.TokenAmount

	// Mocked response
	sendReturn cbor.Er
	exitCode   exitcode.ExitCode
}

func (m *expectedMessage) Equal(to addr.Address, method abi.MethodNum, params cbor.Marshaler, value abi.TokenAmount) bool {
	return m.to == to && m.method == method && m.value.Equals(value) && paramsEqual(m.params, params)
}

func paramsEqual(a, b cbor.Marshaler) bool {
	if a == nil || b == nil {
		return a == b
	}
	abuf, bbuf := new(bytes.Buffer), new(bytes.Buffer)
	if err := a.MarshalCBOR(abuf); err != nil {
		panic(err)
	}
	if err := b.MarshalCBOR(bbuf); err != nil {
		panic(err)
	}
	return bytes.Equal(abuf.Bytes(), bbuf.Bytes())
}

type expectVerifySig struct {
	// Expected arguments
	sig       crypto.Signature
	signer    addr.Address
	plaintext []byte
	// Mocked result
	result error
}

var _ runtime.Runtime = &Runtime{}

type abort struct {
	code exitcode.ExitCode
	msg  string
}

func (a abort) String() string {
	return fmt.Sprintf("abort(%v): %s", a.code, a.msg)
}

///// Runtime builder /////

// RuntimeBuilder accumulates configuration for a mock runtime.
type RuntimeBuilder struct {
	rt *Runtime
}

// NewBuilder creates a new runtime builder with the receiving actor's address.
func NewBuilder(ctx context.Context, receiver addr.Address) RuntimeBuilder {
	m := &Runtime{
		ctx:           ctx,
		epoch:         0,
		receiver:      receiver,
		caller:        addr.Undef,
		callerType:    cid.Undef,
		valueReceived: big.Zero(),
		idAddresses:   make(map[addr.Address]addr.Address),
		actorCodeCIDs: make(map[addr.Address]cid.Cid),

		state:   cid.Undef,
		balance: big.Zero(),
		store:   make(map[cid.Cid][]byte),
	}
	return RuntimeBuilder{m}
}

// Build instantiates the mock runtime, bound to a test handle.
func (b RuntimeBuilder) Build(t testing.TB) *Runtime {
	cpy := *b.rt
	cpy.t = t
	return &cpy
}

func (b RuntimeBuilder) WithEpoch(epoch abi.ChainEpoch) RuntimeBuilder {
	b.rt.epoch = epoch
	return b
}

func (b RuntimeBuilder) WithCaller(address addr.Address, code cid.Cid) RuntimeBuilder {
	b.rt.caller = address
	b.rt.callerType = code
	return b
}

func (b RuntimeBuilder) WithBalance(balance, received abi.TokenAmount) RuntimeBuilder {
	b.rt.balance = balance
	b.rt.valueReceived = received
	return b
}

func (b RuntimeBuilder) WithActorType(addr addr.Address, code cid.Cid) RuntimeBuilder {
	b.rt.actorCodeCIDs[addr] = code
	return b
}

///// Implementation of the runtime API /////

func (rt *Runtime) Caller() addr.Address {
	return rt.caller
}

func (rt *Runtime) Receiver() addr.Address {
	return rt.receiver
}

func (rt *Runtime) ValueReceived() abi.TokenAmount {
	return rt.valueReceived
}

func (rt *Runtime) CurrEpoch() abi.ChainEpoch {
	return rt.epoch
}

func (rt *Runtime) ValidateImmediateCallerAcceptAny() {
	rt.requireInCall()
	if !rt.expectValidateCallerAny {
		rt.failTest("unexpected validate-caller-any")
	}
	rt.expectValidateCallerAny = false
}

func (rt *Runtime) ValidateImmediateCallerIs(addrs ...addr.Address) {
	rt.requireInCall()
	rt.checkArgument(len(addrs) > 0, "addrs must be non-empty")
	// Check and clear expectations.
	if len(rt.expectValidateCallerAddr) == 0 {
		rt.failTest("unexpected validate caller addrs")
		return
	}
	if !reflect.DeepEqual(rt.expectValidateCallerAddr, addrs) {
		rt.failTest("unexpected validate caller addrs %v, expected %v", addrs, rt.expectValidateCallerAddr)
		return
	}
	defer func() {
		rt.expectValidateCallerAddr = nil
	}()

	for _, expected := range addrs {
		if rt.caller == expected {
			return
		}
	}
	rt.Abortf(exitcode.SysErrForbidden, "caller address %v forbidden, allowed: %v", rt.caller, addrs)
}

func (rt *Runtime) ValidateImmediateCallerType(types ...cid.Cid) {
	rt.requireInCall()
	rt.checkArgument(len(types) > 0, "types must be non-empty")
	if len(rt.expectValidateCallerType) == 0 {
		rt.failTest("unexpected validate caller code")
	}
	if !reflect.DeepEqual(rt.expectValidateCallerType, types) {
		rt.failTest("unexpected validate caller code %v, expected %v", types, rt.expectValidateCallerType)
	}
	defer func() {
		rt.expectValidateCallerType = nil
	}()

	for _, expected := range types {
		if rt.callerType.Equals(expected) {
			return
		}
	}
	rt.Abortf(exitcode.SysErrForbidden, "caller type %v forbidden, allowed: %v", rt.callerType, types)
}

func (rt *Runtime) CurrentBalance() abi.TokenAmount {
	rt.requireInCall()
	return rt.balance
}

func (rt *Runtime) ResolveAddress(address addr.Address) (addr.Address, bool) {
	rt.requireInCall()
	if address.Protocol() == addr.ID {
		return address, true
	}
	resolved, ok := rt.idAddresses[address]
	return resolved, ok
}

func (rt *Runtime) GetActorCodeCID(addr addr.Address) (cid.Cid, bool) {
	rt.requireInCall()
	ret, ok := rt.actorCodeCIDs[addr]
	return ret, ok
}

func (rt *Runtime) StateCreate(obj cbor.Marshaler) {
	if rt.state.Defined() {
		rt.failTest("state already constructed")
	}
	rt.state = rt.StorePut(obj)
}

func (rt *Runtime) StateReadonly(st cbor.Unmarshaler) {
	found := rt.StoreGet(rt.state, st)
	require.True(rt.t, found)
}

func (rt *Runtime) StateTransaction(st cbor.Er, f func()) {
	if rt.inTransaction {
		rt.failTest("nested transaction")
	}
	rt.StateReadonly(st)
	rt.inTransaction = true
	defer func() { rt.inTransaction = false }()
	f()
	rt.state = rt.StorePut(st)
}

func (rt *Runtime) Store() runtime.Store {
	return rt
}

func (rt *Runtime) StoreGet(c cid.Cid, o cbor.Unmarshaler) bool {
	data, found := rt.store[c]
	if found {
		err := o.UnmarshalCBOR(bytes.NewReader(data))
		if err != nil {
			rt.failTestNow("error loading %v: %v", c, err)
		}
	}
	return found
}

func (rt *Runtime) StorePut(o cbor.Marshaler) cid.Cid {
	buf := new(bytes.Buffer)
	err := o.MarshalCBOR(buf)
	if err != nil {
		rt.failTestNow("error storing: %v", err)
	}
	key, err := abi.CidBuilder.Sum(buf.Bytes())
	if err != nil {
		rt.failTestNow("error computing cid: %v", err)
	}
	rt.store[key] = buf.Bytes()
	return key
}

func (rt *Runtime) Send(toAddr addr.Address, methodNum abi.MethodNum, params cbor.Marshaler, value abi.TokenAmount, out cbor.Er) exitcode.ExitCode {
	rt.requireInCall()
	if rt.inTransaction {
		rt.failTest("side-effect within transaction")
	}
	if value.LessThan(big.Zero()) {
		rt.Abortf(exitcode.SysErrForbidden, "cannot send negative value")
	}

	if len(rt.expectSends) == 0 {
		rt.failTestNow("unexpected send to: %v method: %v value: %v params: %v", toAddr, methodNum, value, params)
	}
	expected := rt.expectSends[0]
	if !expected.Equal(toAddr, methodNum, params, value) {
		rt.failTestNow("expected send\n"+
			"  to: %v method: %v value: %v params: %v\n"+
			"got\n"+
			"  to: %v method: %v value: %v params: %v",
			expected.to, expected.method, expected.value, expected.params,
			toAddr, methodNum, value, params)
	}
	rt.expectSends = rt.expectSends[1:]

	if value.GreaterThan(rt.balance) {
		rt.Abortf(exitcode.SysErrSenderStateInvalid, "cannot send value %v exceeding balance %v", value, rt.balance)
	}
	rt.balance = big.Sub(rt.balance, value)

	// Copy the mocked return into the caller's out parameter.
	if expected.sendReturn != nil && out != nil {
		buf := new(bytes.Buffer)
		if err := expected.sendReturn.MarshalCBOR(buf); err != nil {
			rt.failTestNow("error serializing mocked send return: %v", err)
		}
		if err := out.UnmarshalCBOR(buf); err != nil {
			rt.failTestNow("error deserializing mocked send return: %v", err)
		}
	}
	return expected.exitCode
}

func (rt *Runtime) Abortf(errExitCode exitcode.ExitCode, msg string, args ...interface{}) {
	rt.requireInCall()
	panic(abort{errExitCode, fmt.Sprintf(msg, args...)})
}

func (rt *Runtime) VerifySignature(sig crypto.Signature, signer addr.Address, plaintext []byte) error {
	if len(rt.expectVerifySigs) == 0 {
		rt.failTest("unexpected signature verification sig: %v, signer: %s, plaintext: %v", sig, signer, plaintext)
		return nil
	}
	exp := rt.expectVerifySigs[0]
	rt.expectVerifySigs = rt.expectVerifySigs[1:]
	if !exp.sig.Equals(&sig) || exp.signer != signer || !bytes.Equal(exp.plaintext, plaintext) {
		rt.failTest("unexpected signature verification\n"+
			"  sig: %v, signer: %s, plaintext: %v\n"+
			"expected\n"+
			"  sig: %v, signer: %s, plaintext: %v",
			sig, signer, plaintext, exp.sig, exp.signer, exp.plaintext)
	}
	return exp.result
}

func (rt *Runtime) HashBlake2b(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

func (rt *Runtime) Context() context.Context {
	return rt.ctx
}

func (rt *Runtime) Log(level gort.LogLevel, msg string, args ...interface{}) {
	rt.logs = append(rt.logs, fmt.Sprintf(msg, args...))
}

///// Expectations and direct state manipulation /////

func (rt *Runtime) ExpectValidateCallerAny() {
	rt.expectValidateCallerAny = true
}

func (rt *Runtime) ExpectValidateCallerAddr(addrs ...addr.Address) {
	rt.require(len(addrs) > 0, "addrs must be non-empty")
	rt.expectValidateCallerAddr = addrs[:]
}

func (rt *Runtime) ExpectValidateCallerType(types ...cid.Cid) {
	rt.require(len(types) > 0, "types must be non-empty")
	rt.expectValidateCallerType = types[:]
}

func (rt *Runtime) ExpectSend(toAddr addr.Address, methodNum abi.MethodNum, params cbor.Marshaler, value abi.TokenAmount, ret cbor.Er, exitCode exitcode.ExitCode) {
	rt.expectSends = append(rt.expectSends, &expectedMessage{
		to:         toAddr,
		method:     methodNum,
		params:     params,
		value:      value,
		sendReturn: ret,
		exitCode:   exitCode,
	})
}

func (rt *Runtime) ExpectVerifySignature(sig crypto.Signature, signer addr.Address, plaintext []byte, result error) {
	rt.expectVerifySigs = append(rt.expectVerifySigs, &expectVerifySig{
		sig:       sig,
		signer:    signer,
		plaintext: plaintext,
		result:    result,
	})
}

// ExpectAbort runs a function and asserts that it aborts with the given code.
func (rt *Runtime) ExpectAbort(expected exitcode.ExitCode, f func()) {
	rt.expectAbort(expected, "", f)
}

// ExpectAbortContainsMessage also asserts on the abort message.
func (rt *Runtime) ExpectAbortContainsMessage(expected exitcode.ExitCode, substr string, f func()) {
	rt.expectAbort(expected, substr, f)
}

func (rt *Runtime) expectAbort(expected exitcode.ExitCode, substr string, f func()) {
	prevState := rt.state

	defer func() {
		r := recover()
		if r == nil {
			rt.failTest("expected abort with code %v but call succeeded", expected)
			return
		}
		a, ok := r.(abort)
		if !ok {
			panic(r)
		}
		if a.code != expected {
			rt.failTest("abort expected code %v, got %v %s", expected, a.code, a.msg)
		}
		if substr != "" && !strings.Contains(a.msg, substr) {
			rt.failTest("abort expected message\n'%s'\ngot\n'%s'", substr, a.msg)
		}
		// Roll back state on abort.
		rt.state = prevState
	}()
	f()
}

func (rt *Runtime) ExpectLogsContain(substr string) {
	for _, msg := range rt.logs {
		if strings.Contains(msg, substr) {
			return
		}
	}
	rt.failTest("logs contain %d message(s), none contains %s", len(rt.logs), substr)
}

// Verify checks that all expectations were satisfied and resets them.
func (rt *Runtime) Verify() {
	rt.t.Helper()
	if rt.expectValidateCallerAny {
		rt.failTest("expected ValidateCallerAny, not received")
	}
	if len(rt.expectValidateCallerAddr) > 0 {
		rt.failTest("expected ValidateCallerAddr %v, not received", rt.expectValidateCallerAddr)
	}
	if len(rt.expectValidateCallerType) > 0 {
		rt.failTest("expected ValidateCallerType %v, not received", rt.expectValidateCallerType)
	}
	if len(rt.expectSends) > 0 {
		rt.failTest("expected all sends to occur, %v outstanding", rt.expectSends)
	}
	if len(rt.expectVerifySigs) > 0 {
		rt.failTest("expect all signature verifications to occur, %v outstanding", len(rt.expectVerifySigs))
	}
	rt.Reset()
}

// Reset clears all expectations.
func (rt *Runtime) Reset() {
	rt.expectValidateCallerAny = false
	rt.expectValidateCallerAddr = nil
	rt.expectValidateCallerType = nil
	rt.expectSends = nil
	rt.expectVerifySigs = nil
}

func (rt *Runtime) SetCaller(address addr.Address, actorType cid.Cid) {
	rt.caller = address
	rt.callerType = actorType
	rt.actorCodeCIDs[address] = actorType
}

func (rt *Runtime) SetAddressActorType(address addr.Address, actorType cid.Cid) {
	rt.actorCodeCIDs[address] = actorType
}

func (rt *Runtime) SetEpoch(epoch abi.ChainEpoch) {
	rt.epoch = epoch
}

func (rt *Runtime) SetBalance(amt abi.TokenAmount) {
	rt.balance = amt
}

func (rt *Runtime) SetReceived(amt abi.TokenAmount) {
	rt.valueReceived = amt
}

// AddIDAddress adds in the address mapping from a pub key to its ID address.
func (rt *Runtime) AddIDAddress(src addr.Address, target addr.Address) {
	rt.require(target.Protocol() == addr.ID, "target must use ID address protocol")
	rt.idAddresses[src] = target
}

// GetState loads the receiver's state root into o.
func (rt *Runtime) GetState(o cbor.Unmarshaler) {
	found := rt.StoreGet(rt.state, o)
	require.True(rt.t, found)
}

// ReplaceState replaces the receiver's state directly, bypassing the actor.
func (rt *Runtime) ReplaceState(o cbor.Marshaler) {
	rt.state = rt.StorePut(o)
}

// Balance returns the receiver's balance without the in-call check.
func (rt *Runtime) Balance() abi.TokenAmount {
	return rt.balance
}

// StateRoot returns the receiver's state root.
func (rt *Runtime) StateRoot() cid.Cid {
	return rt.state
}

// AdtStore provides direct access to the backing store for tests.
func (rt *Runtime) AdtStore() adt.Store {
	return adt.AsStore(rt)
}

// Call invokes an exported actor method with the given params. Aborts
// propagate as panics, to be trapped by ExpectAbort.
func (rt *Runtime) Call(method interface{}, params interface{}) interface{} {
	meth := reflect.ValueOf(method)
	rt.verifyExportedMethodType(meth)

	rt.inCall = true
	defer func() { rt.inCall = false }()

	arg := reflect.ValueOf(params)
	ret := meth.Call([]reflect.Value{reflect.ValueOf(rt), arg})
	return ret[0].Interface()
}

func (rt *Runtime) verifyExportedMethodType(meth reflect.Value) {
	rt.t.Helper()
	t := meth.Type()
	rt.require(t.Kind() == reflect.Func, "%v is not a function", meth)
	rt.require(t.NumIn() == 2, "exported method %v must have two parameters", meth)

	rt.require(t.In(0) == reflect.TypeOf((*runtime.Runtime)(nil)).Elem(), "exported method %v must have runtime as first parameter", meth)
	rt.require(t.In(1).Kind() == reflect.Ptr, "exported method %v second parameter must be a pointer", meth)
	rt.require(t.In(1).Implements(cbgUnmarshalerType), "exported method %v second parameter must be CBOR-unmarshalable", meth)

	rt.require(t.NumOut() == 1, "exported method %v must return a single value", meth)
	rt.require(t.Out(0).Implements(cbgMarshalerType), "exported method %v must return a CBOR-marshalable value", meth)
}

var cbgUnmarshalerType = reflect.TypeOf((*cbor.Unmarshaler)(nil)).Elem()
var cbgMarshalerType = reflect.TypeOf((*cbor.Marshaler)(nil)).Elem()

func (rt *Runtime) checkArgument(predicate bool, msg string, args ...interface{}) {
	if !predicate {
		rt.failTestNow(msg, args...)
	}
}

func (rt *Runtime) require(predicate bool, msg string, args ...interface{}) {
	if !predicate {
		rt.failTestNow(msg, args...)
	}
}

func (rt *Runtime) requireInCall() {
	rt.require(rt.inCall, "invalid runtime invocation outside of method call")
}

func (rt *Runtime) failTest(msg string, args ...interface{}) {
	rt.t.Helper()
	rt.t.Logf(msg, args...)
	rt.t.Logf("%s", debug.Stack())
	rt.t.Fail()
}

func (rt *Runtime) failTestNow(msg string, args ...interface{}) {
	rt.t.Helper()
	rt.t.Logf(msg, args...)
	rt.t.Logf("%s", debug.Stack())
	rt.t.FailNow()
}

// CheckActorExports validates that the actor's exported method table is
// well-formed.
func CheckActorExports(t *testing.T, act interface{ Exports() []interface{} }) {
	for i, m := range act.Exports() {
		if i == 0 { // send is implicit
			continue
		}
		if m == nil {
			continue
		}

		t.Run(fmt.Sprintf("method%d-type", i), func(t *testing.T) {
			rt := Runtime{t: t}
			rt.verifyExportedMethodType(reflect.ValueOf(m))
		})

		// Check the parameter is unmarshalable from empty bytes or fails cleanly.
		paramT := reflect.TypeOf(m).In(1).Elem()
		param := reflect.New(paramT).Interface().(cbor.Unmarshaler)
		_ = param.UnmarshalCBOR(bytes.NewReader(nil))
	}
	assert.True(t, len(act.Exports()) > 0)
}
