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
	"math"

	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// Memory is the byte-addressed scratch memory of an execution. It grows in
// words and charges expansion costs to the owning context.
type Memory struct {
	store       []byte
	currentCost tosca.Gas
}

func NewMemory() *Memory {
	return &Memory{}
}

// The largest memory size for which expansion costs fit into a tosca.Gas.
const maxMemoryExpansionSize = 0x1FFFFFFFE0

// expansionCosts computes the gas needed to grow the memory to the given
// size. Sizes beyond maxMemoryExpansionSize cost math.MaxInt64.
func (m *Memory) expansionCosts(size uint64) tosca.Gas {
	if m.length() >= size {
		return 0
	}
	if size > maxMemoryExpansionSize {
		return tosca.Gas(math.MaxInt64)
	}
	words := tosca.SizeInWords(size)
	costs := tosca.Gas(words*words/params.QuadCoeffDiv + params.MemoryGas*words)
	return costs - m.currentCost
}

// expand grows the memory to cover [offset, offset+size) and charges the
// expansion to c. Zero sized ranges never expand the memory.
func (m *Memory) expand(offset, size uint64, c *context) error {
	if size == 0 {
		return nil
	}
	needed := offset + size
	if needed < offset || needed > maxMemoryExpansionSize {
		return errGasUintOverflow
	}
	if m.length() >= needed {
		return nil
	}
	fee := m.expansionCosts(needed)
	if err := c.useGas(fee); err != nil {
		return err
	}
	words := tosca.SizeInWords(needed)
	m.currentCost += fee
	m.store = append(m.store, make([]byte, words*32-m.length())...)
	return nil
}

func (m *Memory) length() uint64 {
	return uint64(len(m.store))
}

// getSlice expands the memory to cover the given range and returns it. The
// result is backed by the memory and invalidated by the next expansion.
func (m *Memory) getSlice(offset, size uint64, c *context) ([]byte, error) {
	if err := m.expand(offset, size, c); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}
	return m.store[offset : offset+size], nil
}

// set writes value at the given offset, expanding the memory as needed.
func (m *Memory) set(offset uint64, value []byte, c *context) error {
	data, err := m.getSlice(offset, uint64(len(value)), c)
	if err != nil {
		return err
	}
	copy(data, value)
	return nil
}

func (m *Memory) readWord(offset uint64, target *uint256.Int, c *context) error {
	data, err := m.getSlice(offset, 32, c)
	if err != nil {
		return err
	}
	target.SetBytes32(data)
	return nil
}
