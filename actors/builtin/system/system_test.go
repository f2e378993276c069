package system_test

import (
	"testing"

	"github.com/boostmarket/go-boost-actors/actors/builtin/system"
	"github.com/boostmarket/go-boost-actors/support/mock"
)

func TestExports(t *testing.T) {
	mock.CheckActorExports(t, system.Actor{})
}
