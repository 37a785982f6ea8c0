// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package game

import (
	"github.com/Fantom-foundation/Arena/go/engine"
	"github.com/Fantom-foundation/Arena/go/tosca"
)

// frame is a caller waiting for the result of a nested call.
type frame interface {
	isFrame()
}

// realFrame is an engine execution suspended at a nested call.
type realFrame struct {
	execution engine.Execution
	caller    engine.Region // < receives the output of the execution itself
	region    engine.Region // < receives the output of the pending nested call
}

// syntheticFrame is an attacker call waiting for the result of a backcall.
type syntheticFrame struct {
	call   engine.Call
	region engine.Region // < receives the output of the attacker call
	entry  tosca.Snapshot
}

func (*realFrame) isFrame()      {}
func (*syntheticFrame) isFrame() {}

// frameStack lists the frames of the calls in flight in nesting order.
type frameStack []frame

func (s *frameStack) push(f frame) {
	*s = append(*s, f)
}

func (s *frameStack) pop() (frame, bool) {
	if len(*s) == 0 {
		return nil, false
	}
	top := (*s)[len(*s)-1]
	(*s)[len(*s)-1] = nil
	*s = (*s)[:len(*s)-1]
	return top, true
}

func (s frameStack) len() int {
	return len(s)
}
