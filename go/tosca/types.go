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
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

func (a Address) String() string {
	return fmt.Sprintf("0x%x", a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return bytesToText(a[:])
}

func (a *Address) UnmarshalText(data []byte) error {
	return textToBytes(a[:], data)
}

func (k Key) String() string {
	return fmt.Sprintf("0x%x", k[:])
}

func (w Word) String() string {
	return fmt.Sprintf("0x%x", w[:])
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (v Value) ToBig() *big.Int {
	return new(big.Int).SetBytes(v[:])
}

func (v Value) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(v[:])
}

func (v Value) String() string {
	return v.ToUint256().String()
}

func (v Value) Cmp(o Value) int {
	return bytes.Compare(v[:], o[:])
}

func (v Value) IsZero() bool {
	return v == Value{}
}

// NewValue creates a new Value instance from up to 4 uint64 arguments. The
// arguments are given in the order from most significant to least significant
// by padding leading zeros as needed. No argument results in a value of zero.
func NewValue(args ...uint64) (result Value) {
	if len(args) > 4 {
		panic("Too many arguments")
	}
	offset := 4 - len(args)
	for i, arg := range args {
		start := (offset + i) * 8
		binary.BigEndian.PutUint64(result[start:start+8], arg)
	}
	return
}

// ValueFromUint256 converts a *uint256.Int to a Value.
// If the input is nil, it returns 0.
func ValueFromUint256(value *uint256.Int) (result Value) {
	if value == nil {
		return result
	}
	return value.Bytes32()
}

// ParseValue parses a decimal or 0x-prefixed hexadecimal amount.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	var (
		res *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") {
		res, err = uint256.FromHex(s)
	} else {
		res, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return Value{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return ValueFromUint256(res), nil
}

// Add computes a+b modulo 2^256.
func Add(a, b Value) Value {
	return ValueFromUint256(new(uint256.Int).Add(a.ToUint256(), b.ToUint256()))
}

// Sub computes a-b modulo 2^256.
func Sub(a, b Value) Value {
	return ValueFromUint256(new(uint256.Int).Sub(a.ToUint256(), b.ToUint256()))
}

func (v Value) Scale(s uint64) Value {
	sU256 := new(uint256.Int).SetUint64(s)
	return ValueFromUint256(new(uint256.Int).Mul(v.ToUint256(), sU256))
}

func (v Value) MarshalText() ([]byte, error) {
	return bytesToText(v[:])
}

func (v *Value) UnmarshalText(data []byte) error {
	return textToBytes(v[:], data)
}

func bytesToText(data []byte) ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", data)), nil
}

func textToBytes(trg []byte, data []byte) error {
	s := string(data)
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	data, err := hex.DecodeString(s[2:])
	if err != nil {
		return err
	}
	if want, got := len(trg), len(data); want != got {
		return fmt.Errorf("invalid format, wanted %d bytes, got %d", want, got)
	}
	copy(trg[:], data)
	return nil
}

var callKindNames = []string{
	Call:         "call",
	DelegateCall: "delegate_call",
	StaticCall:   "static_call",
	CallCode:     "call_code",
	Create:       "create",
	Create2:      "create2",
}

func (k CallKind) String() string {
	if k < 0 || int(k) >= len(callKindNames) {
		return "unknown"
	}
	return callKindNames[k]
}

// IsCreate is true for Create and Create2.
func (k CallKind) IsCreate() bool {
	return k == Create || k == Create2
}

// TransfersValue is true for the call kinds moving value from the sender to
// the recipient.
func (k CallKind) TransfersValue() bool {
	return k == Call || k == CallCode || k.IsCreate()
}

func (k CallKind) MarshalJSON() ([]byte, error) {
	if k < 0 || int(k) >= len(callKindNames) {
		return nil, fmt.Errorf("invalid call kind: %d", int(k))
	}
	return json.Marshal(k.String())
}

func (k *CallKind) UnmarshalJSON(data []byte) error {
	var kind string
	if err := json.Unmarshal(data, &kind); err != nil {
		return err
	}
	for i, name := range callKindNames {
		if strings.ToLower(kind) == name {
			*k = CallKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown call kind: %s", kind)
}
