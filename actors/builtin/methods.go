package builtin

import (
	"github.com/filecoin-project/go-state-types/abi"
)

const (
	MethodSend        = abi.MethodNum(0)
	MethodConstructor = abi.MethodNum(1)
)

var MethodsSystem = struct {
	Constructor abi.MethodNum
}{MethodConstructor}

var MethodsGovern = struct {
	Constructor     abi.MethodNum
	Grant           abi.MethodNum
	Revoke          abi.MethodNum
	ValidateGranted abi.MethodNum
}{MethodConstructor, 2, 3, 4}

var MethodsLedger = struct {
	Constructor         abi.MethodNum
	Lock                abi.MethodNum
	Approve             abi.MethodNum
	Revoke              abi.MethodNum
	GetDelegableBalance abi.MethodNum
	IsAuthorized        abi.MethodNum
	IssueLease          abi.MethodNum
	CancelLease         abi.MethodNum
	LeaseAmount         abi.MethodNum
	GetBlockingLease    abi.MethodNum
}{MethodConstructor, 2, 3, 4, 5, 6, 7, 8, 9, 10}

var MethodsMarket = struct {
	Constructor             abi.MethodNum
	Register                abi.MethodNum
	UpdateOffer             abi.MethodNum
	UpdateOfferPrice        abi.MethodNum
	Quit                    abi.MethodNum
	EstimateFees            abi.MethodNum
	Buy                     abi.MethodNum
	Cancel                  abi.MethodNum
	ClaimFees               abi.MethodNum
	MultiBuy                abi.MethodNum
	StartRewardDistribution abi.MethodNum
	UpdateRewardState       abi.MethodNum
	ClaimReward             abi.MethodNum
	ClaimRewardMultiple     abi.MethodNum
	WithdrawReserve         abi.MethodNum
	SetAdvisedPrice         abi.MethodNum
	SetFeeReserveRatio      abi.MethodNum
	SetMinPercentRequired   abi.MethodNum
	SetBaseDropPerVote      abi.MethodNum
	SetMinDropPerVote       abi.MethodNum
	SetTargetPurchaseAmount abi.MethodNum
	Pause                   abi.MethodNum
	Unpause                 abi.MethodNum
}{MethodConstructor, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23}
