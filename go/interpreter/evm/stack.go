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
	"fmt"
	"strings"
	"sync"

	"github.com/holiman/uint256"
)

const maxStackSize = 1024

// stack is the fixed-size operand stack of an execution. Bounds are not
// checked by the stack itself; the interpreter loop verifies the stack
// requirements of each instruction before executing it.
//
// Stacks are 32KB in size and are recycled through a pool, see newStack and
// returnStack.
type stack struct {
	data         [maxStackSize]uint256.Int
	stackPointer int
}

func (s *stack) push(d *uint256.Int) {
	s.data[s.stackPointer] = *d
	s.stackPointer++
}

// pushUndefined adds an element with undefined content and returns a pointer
// to it, so it can be set in place.
func (s *stack) pushUndefined() *uint256.Int {
	s.stackPointer++
	return &s.data[s.stackPointer-1]
}

// pop removes the top element. The returned pointer is valid until the next
// push.
func (s *stack) pop() *uint256.Int {
	s.stackPointer--
	return &s.data[s.stackPointer]
}

func (s *stack) peek() *uint256.Int {
	return &s.data[s.stackPointer-1]
}

// peekN returns the n-th element from the top, peekN(0) is the top.
func (s *stack) peekN(n int) *uint256.Int {
	return &s.data[s.stackPointer-n-1]
}

func (s *stack) len() int {
	return s.stackPointer
}

// swap exchanges the top element with the n-th element below it.
func (s *stack) swap(n int) {
	top := s.stackPointer - 1
	s.data[top], s.data[top-n] = s.data[top-n], s.data[top]
}

// dup pushes a copy of the n-th element from the top, dup(0) duplicates the
// top.
func (s *stack) dup(n int) {
	s.data[s.stackPointer] = s.data[s.stackPointer-n-1]
	s.stackPointer++
}

func (s *stack) String() string {
	b := strings.Builder{}
	for i := 0; i < s.len(); i++ {
		b.WriteString(fmt.Sprintf("    [%4d] 0x%064x\n", s.len()-i-1, s.peekN(i).Bytes32()))
	}
	return b.String()
}

var stackPool = sync.Pool{
	New: func() any {
		return &stack{}
	},
}

func newStack() *stack {
	return stackPool.Get().(*stack)
}

// returnStack hands s back to the pool. A stack may only be returned once.
func returnStack(s *stack) {
	s.stackPointer = 0
	stackPool.Put(s)
}
