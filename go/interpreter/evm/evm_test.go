// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/core/vm"
	"go.uber.org/mock/gomock"
)

func TestEvm_IsRegistered(t *testing.T) {
	for _, config := range []any{nil, DefaultConfig(), &Config{}} {
		interpreter, err := tosca.NewInterpreter("evm", config)
		if err != nil {
			t.Fatalf("failed to create interpreter with %v: %v", config, err)
		}
		if interpreter == nil {
			t.Errorf("no interpreter created for %v", config)
		}
	}
}

func TestEvm_RejectsInvalidConfiguration(t *testing.T) {
	if _, err := tosca.NewInterpreter("evm", "fast"); err == nil {
		t.Errorf("expected invalid configuration to be rejected")
	}
}

func TestEvm_UnsupportedRevisionsAreRejected(t *testing.T) {
	interpreter, err := NewInterpreter(DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create interpreter: %v", err)
	}
	for _, revision := range []tosca.Revision{tosca.R07_Istanbul, tosca.R99_UnknownNextRevision} {
		params := tosca.Parameters{}
		params.Revision = revision
		_, err := interpreter.Run(params)
		var want *tosca.ErrUnsupportedRevision
		if !errors.As(err, &want) {
			t.Errorf("expected unsupported revision error for %v, got %v", revision, err)
		}
	}
}

func TestEvm_EmptyCodeStopsWithAllGas(t *testing.T) {
	interpreter, _ := NewInterpreter(DefaultConfig())
	params := tosca.Parameters{Gas: 100}
	params.Revision = tosca.R13_Cancun
	result, err := interpreter.Run(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := tosca.StatusStopped, result.Status; want != got {
		t.Errorf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := tosca.Gas(100), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
}

func TestEvm_JumpDestAnalysesAreCachedByCodeHash(t *testing.T) {
	interpreter, _ := NewInterpreter(Config{JumpDestCacheSize: 4})
	hash := tosca.Hash{1}
	code := tosca.Code{byte(vm.JUMPDEST)}

	first := interpreter.getJumpDests(code, &hash)
	if !first.isValid(0) {
		t.Fatalf("jump destination not found")
	}
	// A different code with the same hash is served from the cache.
	second := interpreter.getJumpDests(tosca.Code{byte(vm.STOP)}, &hash)
	if !second.isValid(0) {
		t.Errorf("analysis was not served from the cache")
	}
	if interpreter.getJumpDests(tosca.Code{byte(vm.STOP)}, nil).isValid(0) {
		t.Errorf("codes without hash must not be cached")
	}
}

func TestAnalyzeJumpDests_SkipsPushData(t *testing.T) {
	code := []byte{
		byte(vm.JUMPDEST),
		byte(vm.PUSH2), byte(vm.JUMPDEST), byte(vm.JUMPDEST),
		byte(vm.JUMPDEST),
		byte(vm.PUSH1),
	}
	dests := analyzeJumpDests(code)
	tests := []struct {
		pos  uint64
		want bool
	}{
		{0, true},
		{1, false},
		{2, false},
		{3, false},
		{4, true},
		{5, false},
		{6, false},
		{1 << 40, false},
	}
	for _, test := range tests {
		if want, got := test.want, dests.isValid(test.pos); want != got {
			t.Errorf("unexpected result for position %d, wanted %t, got %t", test.pos, want, got)
		}
	}
}

func TestKeccak256_ProducesKnownHashes(t *testing.T) {
	tests := map[string]string{
		"":    "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		"abc": "4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
	}
	for input, want := range tests {
		got := Keccak256([]byte(input))
		if want != got.String()[2:] {
			t.Errorf("unexpected hash of %q, wanted %s, got %v", input, want, got)
		}
	}
}

func TestRun_ReturnsOutputOfComputation(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 2,
		byte(vm.PUSH1), 3,
		byte(vm.ADD),
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	result := runCode(t, code, 1000, nil)
	if want, got := tosca.StatusReturned, result.Status; want != got {
		t.Fatalf("unexpected status, wanted %v, got %v", want, got)
	}
	want := make([]byte, 32)
	want[31] = 5
	if !bytes.Equal(want, result.Output) {
		t.Errorf("unexpected output, wanted %x, got %x", want, result.Output)
	}
	// 7 * 3 for pushes, add and mstore, 3 for memory, 0 for return
	if want, got := tosca.Gas(1000-7*3-3), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
}

func TestRun_HaltReasonsAreReported(t *testing.T) {
	tests := map[string]struct {
		code     []byte
		gas      tosca.Gas
		revision tosca.Revision
		want     error
	}{
		"out of gas": {
			code: []byte{byte(vm.PUSH1), 1},
			gas:  2,
			want: tosca.ErrOutOfGas,
		},
		"stack underflow": {
			code: []byte{byte(vm.ADD)},
			gas:  100,
			want: tosca.ErrStackUnderflow,
		},
		"invalid instruction": {
			code: []byte{byte(vm.INVALID)},
			gas:  100,
			want: tosca.ErrInvalidOpCode,
		},
		"undefined instruction": {
			code: []byte{0x0c},
			gas:  100,
			want: tosca.ErrInvalidOpCode,
		},
		"instruction of later revision": {
			code:     []byte{byte(vm.PUSH0)},
			gas:      100,
			revision: tosca.R11_Paris,
			want:     tosca.ErrInvalidOpCode,
		},
		"jump into push data": {
			code: []byte{byte(vm.PUSH1), 4, byte(vm.JUMP), byte(vm.PUSH1), byte(vm.JUMPDEST)},
			gas:  100,
			want: tosca.ErrInvalidJump,
		},
		"return data out of bounds": {
			code: []byte{byte(vm.PUSH1), 1, byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.RETURNDATACOPY)},
			gas:  100,
			want: tosca.ErrReturnDataOutOfBounds,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			revision := test.revision
			if revision == 0 {
				revision = tosca.R13_Cancun
			}
			result := runCodeWithRevision(t, test.code, test.gas, nil, revision)
			if want, got := tosca.StatusFailed, result.Status; want != got {
				t.Fatalf("unexpected status, wanted %v, got %v", want, got)
			}
			if want, got := test.want, result.Halt; want != got {
				t.Errorf("unexpected halt reason, wanted %v, got %v", want, got)
			}
			if want, got := tosca.Gas(0), result.GasLeft; want != got {
				t.Errorf("failed executions must consume all gas, got %d left", got)
			}
		})
	}
}

func TestRun_StackOverflowIsDetected(t *testing.T) {
	code := []byte{}
	for i := 0; i <= maxStackSize; i++ {
		code = append(code, byte(vm.PUSH0))
	}
	result := runCode(t, code, 10_000, nil)
	if want, got := tosca.ErrStackOverflow, result.Halt; want != got {
		t.Errorf("unexpected halt reason, wanted %v, got %v", want, got)
	}
}

func TestRun_RevertKeepsGasAndOutput(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0xAB,
		byte(vm.PUSH0),
		byte(vm.MSTORE8),
		byte(vm.PUSH1), 1,
		byte(vm.PUSH0),
		byte(vm.REVERT),
	}
	result := runCode(t, code, 100, nil)
	if want, got := tosca.StatusReverted, result.Status; want != got {
		t.Fatalf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := []byte{0xAB}, result.Output; !bytes.Equal(want, got) {
		t.Errorf("unexpected output, wanted %x, got %x", want, got)
	}
	if result.GasLeft <= 0 {
		t.Errorf("reverted execution should keep its gas, got %d", result.GasLeft)
	}
}

func TestRun_ConditionalJumps(t *testing.T) {
	// Returns 1 byte 0x01 if the condition holds, stops otherwise.
	code := func(condition byte) []byte {
		return []byte{
			byte(vm.PUSH1), condition,
			byte(vm.PUSH1), 6,
			byte(vm.JUMPI),
			byte(vm.STOP),
			byte(vm.JUMPDEST),
			byte(vm.PUSH1), 1,
			byte(vm.PUSH0),
			byte(vm.MSTORE8),
			byte(vm.PUSH1), 1,
			byte(vm.PUSH0),
			byte(vm.RETURN),
		}
	}
	if want, got := tosca.StatusStopped, runCode(t, code(0), 1000, nil).Status; want != got {
		t.Errorf("unexpected status for false condition, wanted %v, got %v", want, got)
	}
	if want, got := tosca.StatusReturned, runCode(t, code(1), 1000, nil).Status; want != got {
		t.Errorf("unexpected status for true condition, wanted %v, got %v", want, got)
	}
}

func TestRun_StaticModeRejectsWrites(t *testing.T) {
	tests := map[string][]byte{
		"sstore":  {byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.SSTORE)},
		"tstore":  {byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.TSTORE)},
		"log0":    {byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.LOG0)},
		"create":  {byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.CREATE)},
		"destroy": {byte(vm.PUSH0), byte(vm.SELFDESTRUCT)},
		"call with value": {
			byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0),
			byte(vm.PUSH1), 1, byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.CALL),
		},
	}
	for name, code := range tests {
		t.Run(name, func(t *testing.T) {
			params := newParams(code, 10_000, nil, tosca.R13_Cancun)
			params.Static = true
			result, err := run(params, analyzeJumpDests(code))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want, got := tosca.ErrWriteProtection, result.Halt; want != got {
				t.Errorf("unexpected halt reason, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestRun_SstoreChargesColdAccessAndStorageCosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	runContext := tosca.NewMockRunContext(ctrl)

	recipient := tosca.Address{1}
	runContext.EXPECT().AccessStorage(recipient, tosca.Key{}).Return(tosca.ColdAccess)
	runContext.EXPECT().SetStorage(recipient, tosca.Key{}, tosca.Word{31: 1}).Return(tosca.StorageAdded)

	code := []byte{byte(vm.PUSH1), 1, byte(vm.PUSH0), byte(vm.SSTORE)}
	params := newParams(code, 30_000, runContext, tosca.R13_Cancun)
	params.Recipient = recipient
	result, err := run(params, analyzeJumpDests(code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := tosca.StatusStopped, result.Status; want != got {
		t.Fatalf("unexpected status, wanted %v, got %v", want, got)
	}
	if want, got := tosca.Gas(30_000-3-2-2100-20_000), result.GasLeft; want != got {
		t.Errorf("unexpected gas left, wanted %d, got %d", want, got)
	}
}

func TestRun_CallReportsReturnRegionAndCopiesOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	runContext := tosca.NewMockRunContext(ctrl)

	self := tosca.Address{1}
	target := tosca.Address{19: 2}
	runContext.EXPECT().AccessAccount(target).Return(tosca.WarmAccess)
	runContext.EXPECT().Call(tosca.Call, gomock.Any()).DoAndReturn(
		func(kind tosca.CallKind, params tosca.CallParameters) (tosca.CallResult, error) {
			if want, got := self, params.Sender; want != got {
				t.Errorf("unexpected sender, wanted %v, got %v", want, got)
			}
			if want, got := target, params.Recipient; want != got {
				t.Errorf("unexpected recipient, wanted %v, got %v", want, got)
			}
			if want, got := target, params.CodeAddress; want != got {
				t.Errorf("unexpected code address, wanted %v, got %v", want, got)
			}
			if want, got := uint64(4), params.ReturnOffset; want != got {
				t.Errorf("unexpected return offset, wanted %d, got %d", want, got)
			}
			if want, got := uint64(2), params.ReturnSize; want != got {
				t.Errorf("unexpected return size, wanted %d, got %d", want, got)
			}
			return tosca.CallResult{
				Output:  []byte{0xA, 0xB, 0xC},
				GasLeft: params.Gas,
				Success: true,
			}, nil
		})

	code := []byte{
		byte(vm.PUSH1), 2, // return size
		byte(vm.PUSH1), 4, // return offset
		byte(vm.PUSH0),    // input size
		byte(vm.PUSH0),    // input offset
		byte(vm.PUSH0),    // value
		byte(vm.PUSH1), 2, // target
		byte(vm.PUSH2), 0xFF, 0xFF,
		byte(vm.CALL),
		byte(vm.PUSH1), 8,
		byte(vm.PUSH0),
		byte(vm.RETURN),
	}
	params := newParams(code, 100_000, runContext, tosca.R13_Cancun)
	params.Recipient = self
	result, err := run(params, analyzeJumpDests(code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := tosca.StatusReturned, result.Status; want != got {
		t.Fatalf("unexpected status %v, halt %v", got, result.Halt)
	}
	if want, got := []byte{0, 0, 0, 0, 0xA, 0xB, 0, 0}, result.Output; !bytes.Equal(want, got) {
		t.Errorf("unexpected output, wanted %x, got %x", want, got)
	}
}

func TestRun_DelegateCallKeepsSenderAndRecipient(t *testing.T) {
	ctrl := gomock.NewController(t)
	runContext := tosca.NewMockRunContext(ctrl)

	sender := tosca.Address{1}
	self := tosca.Address{2}
	library := tosca.Address{19: 3}
	value := tosca.NewValue(7)
	runContext.EXPECT().AccessAccount(library).Return(tosca.WarmAccess)
	runContext.EXPECT().Call(tosca.DelegateCall, gomock.Any()).DoAndReturn(
		func(kind tosca.CallKind, params tosca.CallParameters) (tosca.CallResult, error) {
			if params.Sender != sender || params.Recipient != self || params.CodeAddress != library {
				t.Errorf("unexpected call parameters %+v", params)
			}
			if want, got := value, params.Value; want != got {
				t.Errorf("unexpected value, wanted %v, got %v", want, got)
			}
			return tosca.CallResult{Success: true}, nil
		})

	code := []byte{
		byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0),
		byte(vm.PUSH1), 3,
		byte(vm.GAS),
		byte(vm.DELEGATECALL),
	}
	params := newParams(code, 100_000, runContext, tosca.R13_Cancun)
	params.Sender = sender
	params.Recipient = self
	params.Value = value
	result, err := run(params, analyzeJumpDests(code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := tosca.StatusStopped, result.Status; want != got {
		t.Errorf("unexpected status %v, halt %v", got, result.Halt)
	}
}

func TestRun_CallWithInsufficientBalanceFailsWithoutCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	runContext := tosca.NewMockRunContext(ctrl)

	self := tosca.Address{1}
	target := tosca.Address{19: 2}
	runContext.EXPECT().AccessAccount(target).Return(tosca.WarmAccess)
	runContext.EXPECT().AccountExists(target).Return(true)
	runContext.EXPECT().GetBalance(self).Return(tosca.Value{})

	code := []byte{
		byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0),
		byte(vm.PUSH1), 1, // value
		byte(vm.PUSH1), 2,
		byte(vm.GAS),
		byte(vm.CALL),
		byte(vm.PUSH0),
		byte(vm.MSTORE8),
		byte(vm.PUSH1), 1,
		byte(vm.PUSH0),
		byte(vm.RETURN),
	}
	params := newParams(code, 100_000, runContext, tosca.R13_Cancun)
	params.Recipient = self
	result, err := run(params, analyzeJumpDests(code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := []byte{0}, result.Output; !bytes.Equal(want, got) {
		t.Errorf("unexpected call result, wanted %x, got %x", want, got)
	}
}

func TestRun_CallErrorsEndTheExecution(t *testing.T) {
	ctrl := gomock.NewController(t)
	runContext := tosca.NewMockRunContext(ctrl)
	runContext.EXPECT().AccessAccount(gomock.Any()).Return(tosca.WarmAccess)
	runContext.EXPECT().Call(tosca.StaticCall, gomock.Any()).Return(tosca.CallResult{}, tosca.ErrAborted)

	code := []byte{
		byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0), byte(vm.PUSH0),
		byte(vm.PUSH1), 2,
		byte(vm.GAS),
		byte(vm.STATICCALL),
	}
	result, err := run(newParams(code, 100_000, runContext, tosca.R13_Cancun), analyzeJumpDests(code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := tosca.ErrAborted, result.Halt; want != got {
		t.Errorf("unexpected halt reason, wanted %v, got %v", want, got)
	}
}

func TestRun_CreateForwardsInitCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	runContext := tosca.NewMockRunContext(ctrl)
	created := tosca.Address{0xC}
	runContext.EXPECT().Call(tosca.Create2, gomock.Any()).DoAndReturn(
		func(kind tosca.CallKind, params tosca.CallParameters) (tosca.CallResult, error) {
			if want, got := []byte{0xFE}, []byte(params.Input); !bytes.Equal(want, got) {
				t.Errorf("unexpected init code, wanted %x, got %x", want, got)
			}
			if want, got := (tosca.Hash{31: 9}), params.Salt; want != got {
				t.Errorf("unexpected salt, wanted %v, got %v", want, got)
			}
			return tosca.CallResult{CreatedAddress: created, Success: true}, nil
		})

	code := []byte{
		byte(vm.PUSH1), 0xFE,
		byte(vm.PUSH0),
		byte(vm.MSTORE8),
		byte(vm.PUSH1), 9, // salt
		byte(vm.PUSH1), 1, // size
		byte(vm.PUSH0),    // offset
		byte(vm.PUSH0),    // value
		byte(vm.CREATE2),
		byte(vm.PUSH0),
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH0),
		byte(vm.RETURN),
	}
	result, err := run(newParams(code, 100_000, runContext, tosca.R13_Cancun), analyzeJumpDests(code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := created[:], result.Output[12:]; !bytes.Equal(want, got) {
		t.Errorf("unexpected created address, wanted %x, got %x", want, got)
	}
}

func TestSstoreRefunds_FollowEip3529(t *testing.T) {
	tests := []struct {
		status tosca.StorageStatus
		berlin tosca.Gas
		london tosca.Gas
	}{
		{tosca.StorageAssigned, 0, 0},
		{tosca.StorageAdded, 0, 0},
		{tosca.StorageDeleted, 15_000, 4_800},
		{tosca.StorageModified, 0, 0},
		{tosca.StorageDeletedAdded, -15_000, -4_800},
		{tosca.StorageModifiedDeleted, 15_000, 4_800},
		{tosca.StorageDeletedRestored, 2_800 - 15_000, 2_800 - 4_800},
		{tosca.StorageAddedDeleted, 19_900, 19_900},
		{tosca.StorageModifiedRestored, 2_800, 2_800},
	}
	for _, test := range tests {
		if want, got := test.berlin, getRefundForSstore(tosca.R09_Berlin, test.status); want != got {
			t.Errorf("unexpected Berlin refund for %v, wanted %d, got %d", test.status, want, got)
		}
		if want, got := test.london, getRefundForSstore(tosca.R10_London, test.status); want != got {
			t.Errorf("unexpected London refund for %v, wanted %d, got %d", test.status, want, got)
		}
	}
}

func TestCallGas_LimitsToAllButOne64th(t *testing.T) {
	tests := []struct {
		available tosca.Gas
		requested uint64
		fits      bool
		want      tosca.Gas
	}{
		{6400, 100, true, 100},
		{6400, 10_000, true, 6300},
		{6400, 0, false, 6300},
		{0, 100, true, 0},
	}
	for _, test := range tests {
		if want, got := test.want, callGas(test.available, test.requested, test.fits); want != got {
			t.Errorf("unexpected call gas for %+v, wanted %d, got %d", test, want, got)
		}
	}
}

func runCode(t *testing.T, code []byte, gas tosca.Gas, context tosca.RunContext) tosca.Result {
	return runCodeWithRevision(t, code, gas, context, tosca.R13_Cancun)
}

func runCodeWithRevision(t *testing.T, code []byte, gas tosca.Gas, context tosca.RunContext, revision tosca.Revision) tosca.Result {
	t.Helper()
	result, err := run(newParams(code, gas, context, revision), analyzeJumpDests(code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func newParams(code []byte, gas tosca.Gas, context tosca.RunContext, revision tosca.Revision) tosca.Parameters {
	params := tosca.Parameters{
		Context: context,
		Gas:     gas,
		Code:    code,
	}
	params.Revision = revision
	return params
}
