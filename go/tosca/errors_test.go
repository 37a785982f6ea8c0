// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstError_MessagesAndIdentity(t *testing.T) {
	tests := map[string]ConstError{
		"empty":   "",
		"message": "out of arena",
	}
	for name, err := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := string(err), err.Error(); want != got {
				t.Errorf("unexpected message, wanted %q, got %q", want, got)
			}
			if !errors.Is(fmt.Errorf("wrapped: %w", err), ConstError(string(err))) {
				t.Errorf("wrapped error does not match %q", err)
			}
		})
	}
}

func TestConstError_HaltReasonsAreDistinct(t *testing.T) {
	reasons := []error{
		ErrOutOfGas, ErrStackUnderflow, ErrStackOverflow, ErrInvalidJump,
		ErrInvalidOpCode, ErrWriteProtection, ErrReturnDataOutOfBounds,
		ErrMaxCallDepth, ErrInsufficientBalance, ErrContractAddressTaken,
		ErrMaxCodeSizeExceeded, ErrMaxInitCodeSizeExceeded, ErrInvalidCode,
		ErrCodeStoreOutOfGas, ErrPrecompileFailed, ErrNonceOverflow, ErrAborted,
	}
	seen := map[string]bool{}
	for _, reason := range reasons {
		if seen[reason.Error()] {
			t.Errorf("duplicated halt reason %q", reason)
		}
		seen[reason.Error()] = true
	}
}
