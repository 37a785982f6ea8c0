// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package engine

import (
	"fmt"

	"github.com/Fantom-foundation/Arena/go/tosca"
)

// Call is the immutable description of a single contract call or creation.
type Call struct {
	Kind        tosca.CallKind
	Sender      tosca.Address
	Recipient   tosca.Address // < account whose storage and balance are used
	CodeAddress tosca.Address // < account whose code is executed
	Value       tosca.Value
	Input       tosca.Data
	Gas         tosca.Gas
	Salt        tosca.Hash // < only relevant for Create2
	Static      bool
	Depth       int
}

// Target is the address the calling instruction addressed. For plain calls
// it is the recipient, for CallCode and DelegateCall it is the account
// providing the code.
func (c Call) Target() tosca.Address {
	return c.CodeAddress
}

func (c Call) String() string {
	return fmt.Sprintf(
		"%v{from: %v, to: %v, code: %v, value: %v, gas: %d, input: %d bytes, depth: %d}",
		c.Kind, c.Sender, c.Recipient, c.CodeAddress, c.Value, c.Gas, len(c.Input), c.Depth,
	)
}

// Result is the outcome of a completed call.
type Result struct {
	Status         tosca.Status
	Halt           error // < the reason of a failure, nil otherwise
	GasUsed        tosca.Gas
	GasRefund      tosca.Gas
	Output         tosca.Data
	CreatedAddress tosca.Address // < only set by successful creates
}

// Success is true if the call did not revert or fail.
func (r Result) Success() bool {
	return r.Status.Success()
}

func (r Result) String() string {
	if r.Halt != nil {
		return fmt.Sprintf("%v(%v, gas used: %d)", r.Status, r.Halt, r.GasUsed)
	}
	return fmt.Sprintf("%v(gas used: %d, output: 0x%x)", r.Status, r.GasUsed, []byte(r.Output))
}

// Region is a range of the caller's memory receiving the output of a nested
// call.
type Region struct {
	Offset uint64
	Size   uint64
}

func (r Region) String() string {
	return fmt.Sprintf("[%d, %d)", r.Offset, r.Offset+r.Size)
}

// Outcome is the result of running or resuming a call. Either the call
// completed and Result is set, or it is suspended at a nested call, in which
// case Execution is not nil.
type Outcome struct {
	Result
	Execution Execution
}

// Completed is true if the call finished.
func (o Outcome) Completed() bool {
	return o.Execution == nil
}

func failed(halt error, gasUsed tosca.Gas) Result {
	return Result{
		Status:  tosca.StatusFailed,
		Halt:    halt,
		GasUsed: gasUsed,
	}
}
