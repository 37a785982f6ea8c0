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

import "math"

// GetStorageStatus derives the status of a storage update from the slot's
// original (committed), current, and new value.
func GetStorageStatus(original, current, new Word) StorageStatus {
	var zero Word
	switch {
	case current == new:
		return StorageAssigned
	case original == current:
		if original == zero {
			return StorageAdded
		}
		if new == zero {
			return StorageDeleted
		}
		return StorageModified
	case original == zero:
		if new == zero {
			return StorageAddedDeleted
		}
		return StorageAssigned
	case current == zero:
		if new == original {
			return StorageDeletedRestored
		}
		return StorageDeletedAdded
	case new == zero:
		return StorageModifiedDeleted
	case new == original:
		return StorageModifiedRestored
	}
	return StorageAssigned
}

// SizeInWords returns the number of words required to store the given size,
// checking that size+32 does not overflow uint64.
func SizeInWords(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}
