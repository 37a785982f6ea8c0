// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"bytes"
	"encoding/binary"

	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/exp/slices"
)

var emptyCodeHash = tosca.Hash(crypto.Keccak256(nil))

// Context is a journaled, in-memory implementation of tosca.TransactionContext.
// Every modification registers an undo operation; snapshots are positions in
// the undo journal. The state committed at the end of the previous
// transaction is retained to classify storage updates.
//
// A Context is not thread-safe.
type Context struct {
	original   WorldState
	current    WorldState
	transient  map[tosca.Address]Storage
	accounts   map[tosca.Address]bool
	slots      map[tosca.Address]map[tosca.Key]bool
	destructed map[tosca.Address]bool
	created    map[tosca.Address]bool
	logs       []tosca.Log
	undo       []func()
}

// NewContext creates a context starting from the given world state.
func NewContext(initial WorldState) *Context {
	if initial == nil {
		initial = WorldState{}
	}
	c := &Context{
		original: initial,
		current:  initial.Clone(),
	}
	c.reset()
	return c
}

func (c *Context) reset() {
	c.transient = map[tosca.Address]Storage{}
	c.accounts = map[tosca.Address]bool{}
	c.slots = map[tosca.Address]map[tosca.Key]bool{}
	c.destructed = map[tosca.Address]bool{}
	c.created = map[tosca.Address]bool{}
	c.logs = nil
	c.undo = nil
}

// Commit ends the current transaction. Destructed accounts are removed and
// the current state becomes the committed state of the next transaction.
// Transient storage, access lists, logs, and the journal are cleared.
func (c *Context) Commit() {
	for addr := range c.destructed {
		delete(c.current, addr)
	}
	c.original = c.current.Clone()
	c.reset()
}

// State returns a copy of the current world state.
func (c *Context) State() WorldState {
	return c.current.Clone()
}

func (c *Context) update(addr tosca.Address, modify func(*Account)) {
	original, found := c.current[addr]
	modified := original.Clone()
	modify(&modified)
	c.current[addr] = modified
	c.undo = append(c.undo, func() {
		if found {
			c.current[addr] = original
		} else {
			delete(c.current, addr)
		}
	})
}

func (c *Context) AccountExists(addr tosca.Address) bool {
	account, found := c.current[addr]
	return found && !account.IsEmpty()
}

func (c *Context) GetBalance(addr tosca.Address) tosca.Value {
	return c.current[addr].Balance
}

func (c *Context) SetBalance(addr tosca.Address, value tosca.Value) {
	c.update(addr, func(a *Account) { a.Balance = value })
}

func (c *Context) GetNonce(addr tosca.Address) uint64 {
	return c.current[addr].Nonce
}

func (c *Context) SetNonce(addr tosca.Address, value uint64) {
	c.update(addr, func(a *Account) { a.Nonce = value })
}

func (c *Context) GetCode(addr tosca.Address) tosca.Code {
	return bytes.Clone(c.current[addr].Code)
}

func (c *Context) GetCodeHash(addr tosca.Address) tosca.Hash {
	if !c.AccountExists(addr) {
		return tosca.Hash{}
	}
	code := c.current[addr].Code
	if len(code) == 0 {
		return emptyCodeHash
	}
	return tosca.Hash(crypto.Keccak256(code))
}

func (c *Context) GetCodeSize(addr tosca.Address) int {
	return len(c.current[addr].Code)
}

func (c *Context) SetCode(addr tosca.Address, code tosca.Code) {
	c.update(addr, func(a *Account) { a.Code = bytes.Clone(code) })
}

func (c *Context) GetStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	return c.current[addr].Storage[key]
}

func (c *Context) SetStorage(addr tosca.Address, key tosca.Key, new tosca.Word) tosca.StorageStatus {
	original := c.original[addr].Storage[key]
	current := c.current[addr].Storage[key]
	c.update(addr, func(a *Account) {
		if a.Storage == nil {
			a.Storage = Storage{}
		}
		a.Storage[key] = new
	})
	return tosca.GetStorageStatus(original, current, new)
}

func (c *Context) GetCommittedStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	return c.original[addr].Storage[key]
}

// SelfDestruct moves the balance of addr to the beneficiary and marks addr
// for deletion at the end of the transaction. A self-destruct naming addr as
// its own beneficiary burns the balance.
func (c *Context) SelfDestruct(addr tosca.Address, beneficiary tosca.Address) bool {
	balance := c.GetBalance(addr)
	if addr != beneficiary {
		c.SetBalance(beneficiary, tosca.Add(c.GetBalance(beneficiary), balance))
	}
	c.SetBalance(addr, tosca.Value{})

	if c.destructed[addr] {
		return false
	}
	c.destructed[addr] = true
	c.undo = append(c.undo, func() { delete(c.destructed, addr) })
	return true
}

func (c *Context) HasSelfDestructed(addr tosca.Address) bool {
	return c.destructed[addr]
}

func (c *Context) CreateContract(addr tosca.Address) {
	if c.created[addr] {
		return
	}
	c.created[addr] = true
	c.undo = append(c.undo, func() { delete(c.created, addr) })
}

func (c *Context) IsNewContract(addr tosca.Address) bool {
	return c.created[addr]
}

func (c *Context) CreateSnapshot() tosca.Snapshot {
	return tosca.Snapshot(len(c.undo))
}

func (c *Context) RestoreSnapshot(snapshot tosca.Snapshot) {
	for len(c.undo) > int(snapshot) {
		c.undo[len(c.undo)-1]()
		c.undo = c.undo[:len(c.undo)-1]
	}
}

func (c *Context) GetTransientStorage(addr tosca.Address, key tosca.Key) tosca.Word {
	return c.transient[addr][key]
}

func (c *Context) SetTransientStorage(addr tosca.Address, key tosca.Key, value tosca.Word) {
	storage, found := c.transient[addr]
	if !found {
		storage = Storage{}
		c.transient[addr] = storage
	}
	previous, present := storage[key]
	storage[key] = value
	c.undo = append(c.undo, func() {
		if present {
			storage[key] = previous
		} else {
			delete(storage, key)
		}
	})
}

func (c *Context) AccessAccount(addr tosca.Address) tosca.AccessStatus {
	if c.accounts[addr] {
		return tosca.WarmAccess
	}
	c.accounts[addr] = true
	c.undo = append(c.undo, func() { delete(c.accounts, addr) })
	return tosca.ColdAccess
}

func (c *Context) AccessStorage(addr tosca.Address, key tosca.Key) tosca.AccessStatus {
	slots, found := c.slots[addr]
	if !found {
		slots = map[tosca.Key]bool{}
		c.slots[addr] = slots
	}
	if slots[key] {
		return tosca.WarmAccess
	}
	slots[key] = true
	c.undo = append(c.undo, func() { delete(slots, key) })
	return tosca.ColdAccess
}

func (c *Context) EmitLog(log tosca.Log) {
	size := len(c.logs)
	c.logs = append(c.logs, log)
	c.undo = append(c.undo, func() { c.logs = c.logs[:size] })
}

func (c *Context) GetLogs() []tosca.Log {
	return slices.Clone(c.logs)
}

// GetBlockHash derives a stable synthetic hash from the block number. The
// in-memory chain has no block history.
func (c *Context) GetBlockHash(number int64) tosca.Hash {
	var buffer [8]byte
	binary.BigEndian.PutUint64(buffer[:], uint64(number))
	return tosca.Hash(crypto.Keccak256(buffer[:]))
}
