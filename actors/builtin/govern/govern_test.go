package govern_test

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/require"

	"github.com/boostmarket/go-boost-actors/actors/builtin"
	"github.com/boostmarket/go-boost-actors/actors/builtin/govern"
	"github.com/boostmarket/go-boost-actors/support/mock"
	tutil "github.com/boostmarket/go-boost-actors/support/testing"
)

func TestExports(t *testing.T) {
	mock.CheckActorExports(t, govern.Actor{})
}

func setupGovern(t *testing.T) (*mock.Runtime, *govern.Actor) {
	supervisor := tutil.NewIDAddr(t, 100)
	builder := mock.NewBuilder(context.Background(), builtin.GovernActorAddr).
		WithCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID)
	rt := builder.Build(t)

	actor := govern.Actor{}
	rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
	rt.Call(actor.Constructor, &supervisor)
	rt.Verify()
	return rt, &actor
}

func TestConstruction(t *testing.T) {
	t.Run("construct with ID supervisor", func(t *testing.T) {
		rt, _ := setupGovern(t)

		var st govern.State
		rt.GetState(&st)
		require.Equal(t, tutil.NewIDAddr(t, 100), st.Supervisor)
	})

	t.Run("reject non-ID supervisor", func(t *testing.T) {
		supervisor := tutil.NewSECP256K1Addr(t, "sup")
		rt := mock.NewBuilder(context.Background(), builtin.GovernActorAddr).
			WithCaller(builtin.SystemActorAddr, builtin.SystemActorCodeID).
			Build(t)

		actor := govern.Actor{}
		rt.ExpectValidateCallerAddr(builtin.SystemActorAddr)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalState, "ID address", func() {
			rt.Call(actor.Constructor, &supervisor)
		})
	})
}

func TestGrantAndValidate(t *testing.T) {
	supervisor := tutil.NewIDAddr(t, 100)
	governor := tutil.NewIDAddr(t, 101)
	other := tutil.NewIDAddr(t, 102)

	grant := func(rt *mock.Runtime, actor *govern.Actor, params *govern.GrantOrRevokeParams) {
		rt.SetCaller(supervisor, builtin.AccountActorCodeID)
		rt.SetAddressActorType(params.Governor, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(supervisor)
		rt.Call(actor.Grant, params)
		rt.Verify()
	}

	validate := func(rt *mock.Runtime, actor *govern.Actor, caller address.Address, method abi.MethodNum) {
		rt.SetCaller(builtin.MarketActorAddr, builtin.MarketActorCodeID)
		rt.ExpectValidateCallerType(govern.GovernedCallerTypes...)
		rt.Call(actor.ValidateGranted, &builtin.ValidateGrantedParams{
			Caller: caller,
			Method: method,
		})
		rt.Verify()
	}

	t.Run("grant single method", func(t *testing.T) {
		rt, actor := setupGovern(t)

		grant(rt, actor, &govern.GrantOrRevokeParams{
			Governor: governor,
			Authorities: []govern.Authority{{
				ActorCodeID: builtin.MarketActorCodeID,
				Methods:     []abi.MethodNum{builtin.MethodsMarket.SetAdvisedPrice},
			}},
		})

		validate(rt, actor, governor, builtin.MethodsMarket.SetAdvisedPrice)

		// Ungranted method still rejected.
		rt.SetCaller(builtin.MarketActorAddr, builtin.MarketActorCodeID)
		rt.ExpectValidateCallerType(govern.GovernedCallerTypes...)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(actor.ValidateGranted, &builtin.ValidateGrantedParams{
				Caller: governor,
				Method: builtin.MethodsMarket.Pause,
			})
		})
		rt.Verify()
	})

	t.Run("grant all and revoke", func(t *testing.T) {
		rt, actor := setupGovern(t)

		grant(rt, actor, &govern.GrantOrRevokeParams{Governor: governor, All: true})
		validate(rt, actor, governor, builtin.MethodsMarket.Pause)
		validate(rt, actor, governor, builtin.MethodsMarket.WithdrawReserve)

		rt.SetCaller(supervisor, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(supervisor)
		rt.Call(actor.Revoke, &govern.GrantOrRevokeParams{Governor: governor, All: true})
		rt.Verify()

		rt.SetCaller(builtin.MarketActorAddr, builtin.MarketActorCodeID)
		rt.ExpectValidateCallerType(govern.GovernedCallerTypes...)
		rt.ExpectAbort(exitcode.ErrForbidden, func() {
			rt.Call(actor.ValidateGranted, &builtin.ValidateGrantedParams{
				Caller: governor,
				Method: builtin.MethodsMarket.Pause,
			})
		})
		rt.Verify()
	})

	t.Run("ungoverned actor code rejected", func(t *testing.T) {
		rt, actor := setupGovern(t)

		rt.SetCaller(supervisor, builtin.AccountActorCodeID)
		rt.SetAddressActorType(governor, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(supervisor)
		rt.ExpectAbortContainsMessage(exitcode.ErrIllegalArgument, "not found", func() {
			rt.Call(actor.Grant, &govern.GrantOrRevokeParams{
				Governor: governor,
				Authorities: []govern.Authority{{
					ActorCodeID: builtin.AccountActorCodeID,
					All:         true,
				}},
			})
		})
	})

	t.Run("non-supervisor cannot grant", func(t *testing.T) {
		rt, actor := setupGovern(t)

		rt.SetCaller(other, builtin.AccountActorCodeID)
		rt.SetAddressActorType(governor, builtin.AccountActorCodeID)
		rt.ExpectValidateCallerAddr(supervisor)
		rt.ExpectAbort(exitcode.SysErrForbidden, func() {
			rt.Call(actor.Grant, &govern.GrantOrRevokeParams{Governor: governor, All: true})
		})
	})
}
