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

import "fmt"

// WorldState is the account view an engine operates on. Accounts consist of a
// balance, a nonce, optional code, and storage. Reading a missing account
// yields zero values.
type WorldState interface {
	AccountExists(Address) bool

	GetBalance(Address) Value
	SetBalance(Address, Value)

	GetNonce(Address) uint64
	SetNonce(Address, uint64)

	GetCode(Address) Code
	GetCodeHash(Address) Hash
	GetCodeSize(Address) int
	SetCode(Address, Code)

	GetStorage(Address, Key) Word
	SetStorage(Address, Key, Word) StorageStatus

	// SelfDestruct marks addr as destructed and moves its balance to the
	// beneficiary. The result is true on the first destruction of addr in
	// the current transaction.
	SelfDestruct(addr Address, beneficiary Address) bool
}

// Address represents the 160-bit (20 bytes) address of an account.
type Address [20]byte

// Key represents the 256-bit (32 bytes) key of a storage slot.
type Key [32]byte

// Word represents an arbitrary 256-bit (32 byte) word in the EVM.
type Word [32]byte

// Value represents an amount of chain currency, typically wei.
type Value [32]byte

// Hash represents the 256-bit (32 bytes) hash of a code, a block, a topic
// or similar sequence of cryptographic summary information.
type Hash [32]byte

// Code represents the byte-code of a contract.
type Code []byte

// StorageStatus classifies a storage update by the original, current, and
// new value of the slot. SSTORE gas and refunds are derived from it.
type StorageStatus int

const (
	// X, Y, Z are distinct non-zero values.
	//
	// <original> -> <current> -> <new>
	StorageAssigned         StorageStatus = iota
	StorageAdded                          // 0 -> 0 -> Z
	StorageDeleted                        // X -> X -> 0
	StorageModified                       // X -> X -> Z
	StorageDeletedAdded                   // X -> 0 -> Z
	StorageModifiedDeleted                // X -> Y -> 0
	StorageDeletedRestored                // X -> 0 -> X
	StorageAddedDeleted                   // 0 -> Y -> 0
	StorageModifiedRestored               // X -> Y -> X
)

var storageStatusNames = map[StorageStatus]string{
	StorageAssigned:         "StorageAssigned",
	StorageAdded:            "StorageAdded",
	StorageDeleted:          "StorageDeleted",
	StorageModified:         "StorageModified",
	StorageDeletedAdded:     "StorageDeletedAdded",
	StorageModifiedDeleted:  "StorageModifiedDeleted",
	StorageDeletedRestored:  "StorageDeletedRestored",
	StorageAddedDeleted:     "StorageAddedDeleted",
	StorageModifiedRestored: "StorageModifiedRestored",
}

func (s StorageStatus) String() string {
	if name, found := storageStatusNames[s]; found {
		return name
	}
	return fmt.Sprintf("StorageStatus(%d)", s)
}

