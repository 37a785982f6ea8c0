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

// Status describes how a code execution ended.
type Status byte

const (
	StatusStopped        Status = iota // < STOP or end of code
	StatusReturned                     // < RETURN
	StatusSelfDestructed               // < SELFDESTRUCT
	StatusReverted                     // < REVERT, remaining gas is kept
	StatusFailed                       // < exceptional halt, all gas is consumed
)

// Success is true for all statuses not rolling back state changes.
func (s Status) Success() bool {
	return s <= StatusSelfDestructed
}

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusReturned:
		return "returned"
	case StatusSelfDestructed:
		return "self-destructed"
	case StatusReverted:
		return "reverted"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}
