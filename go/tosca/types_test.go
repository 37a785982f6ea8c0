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
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func TestAddress_JSON_Encoding(t *testing.T) {
	tests := []struct {
		address Address
		json    string
	}{
		{Address{}, "\"0x0000000000000000000000000000000000000000\""},
		{Address{1}, "\"0x0100000000000000000000000000000000000000\""},
		{
			Address{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
			"\"0x000102030405060708090a0b0c0d0e0f10111213\"",
		},
	}

	for _, test := range tests {
		encoded, err := json.Marshal(test.address)
		if err != nil {
			t.Fatalf("failed to encode into JSON: %v", err)
		}
		if want, got := test.json, string(encoded); want != got {
			t.Errorf("unexpected JSON encoding, wanted %v, got %v", want, got)
		}
		var restored Address
		if err := json.Unmarshal(encoded, &restored); err != nil {
			t.Fatalf("failed to restore address: %v", err)
		}
		if test.address != restored {
			t.Errorf("unexpected restored value, wanted %v, got %v", test.address, restored)
		}
	}
}

func TestAddress_JSON_InvalidValueDecodingFails(t *testing.T) {
	tests := map[string]string{
		"empty":             "\"\"",
		"no hex prefix":     "\"0000000000000000000000000000000000000000\"",
		"too short":         "\"0x00000000000000000000000000000000000000\"",
		"too long":          "\"0x000000000000000000000000000000000000000000\"",
		"invalid hex":       "\"0x0g00000000000000000000000000000000000000\"",
		"not a JSON string": "0x000102030405060708090a0b0c0d0e0f10111213",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			var address Address
			if json.Unmarshal([]byte(data), &address) == nil {
				t.Errorf("expected decoding to fail, but instead it produced %v", address)
			}
		})
	}
}

func TestValue_NewValuePlacesArgumentsBigEndian(t *testing.T) {
	tests := []struct {
		value Value
		index int
	}{
		{NewValue(1), 31},
		{NewValue(1, 0), 23},
		{NewValue(1, 0, 0), 15},
		{NewValue(1, 0, 0, 0), 7},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("%v[%d]", test.value, test.index), func(t *testing.T) {
			if test.value[test.index] != 1 {
				t.Errorf("NewValue failed to set the correct value.")
			}
		})
	}
}

func TestValue_ArithmeticWrapsAround(t *testing.T) {
	max := ValueFromUint256(new(uint256.Int).SetAllOne())
	tests := map[string]struct {
		got, want Value
	}{
		"add":            {Add(NewValue(1), NewValue(2)), NewValue(3)},
		"add carry":      {Add(NewValue(math.MaxUint64), NewValue(1)), NewValue(1, 0)},
		"add overflow":   {Add(max, NewValue(1)), NewValue()},
		"sub":            {Sub(NewValue(3), NewValue(2)), NewValue(1)},
		"sub borrow":     {Sub(NewValue(1, 0), NewValue(1)), NewValue(math.MaxUint64)},
		"sub underflow":  {Sub(NewValue(), NewValue(1)), max},
		"scale":          {NewValue(7).Scale(6), NewValue(42)},
		"scale overflow": {NewValue(1, 0, 0, 0).Scale(1 << 63).Scale(2), NewValue()},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if test.want != test.got {
				t.Errorf("unexpected result, wanted %v, got %v", test.want, test.got)
			}
		})
	}
}

func TestValue_Comparison(t *testing.T) {
	if want, got := -1, NewValue(1).Cmp(NewValue(2)); want != got {
		t.Errorf("unexpected comparison, wanted %d, got %d", want, got)
	}
	if want, got := 1, NewValue(1, 0).Cmp(NewValue(math.MaxUint64)); want != got {
		t.Errorf("unexpected comparison, wanted %d, got %d", want, got)
	}
	if !NewValue().IsZero() || NewValue(1).IsZero() {
		t.Errorf("unexpected zero check")
	}
}

func TestValue_ParseValue(t *testing.T) {
	tests := map[string]Value{
		"0":                    NewValue(),
		"1000":                 NewValue(1000),
		"0x10":                 NewValue(16),
		" 42 ":                 NewValue(42),
		"18446744073709551616": NewValue(1, 0),
	}
	for input, want := range tests {
		got, err := ParseValue(input)
		if err != nil {
			t.Fatalf("failed to parse %q: %v", input, err)
		}
		if want != got {
			t.Errorf("unexpected value for %q, wanted %v, got %v", input, want, got)
		}
	}

	for _, input := range []string{"", "abc", "-1", "0xzz"} {
		if _, err := ParseValue(input); err == nil {
			t.Errorf("expected parsing %q to fail", input)
		}
	}
}

func TestValue_StringProducesDecimalPrint(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{NewValue(), "0"},
		{NewValue(256), "256"},
		{ValueFromUint256(uint256.MustFromDecimal("1234567890123456789")), "1234567890123456789"},
	}

	for _, test := range tests {
		if want, got := test.want, test.value.String(); want != got {
			t.Errorf("unexpected string conversion, wanted %v, got %v", want, got)
		}
	}
}

func TestCallKind_JSON_Encoding(t *testing.T) {
	for _, kind := range []CallKind{Call, DelegateCall, StaticCall, CallCode, Create, Create2} {
		encoded, err := json.Marshal(kind)
		if err != nil {
			t.Fatalf("failed to encode %v: %v", kind, err)
		}
		var restored CallKind
		if err := json.Unmarshal(encoded, &restored); err != nil {
			t.Fatalf("failed to decode %s: %v", encoded, err)
		}
		if want, got := kind, restored; want != got {
			t.Errorf("unexpected restored kind, wanted %v, got %v", want, got)
		}
	}

	if _, err := json.Marshal(CallKind(42)); err == nil {
		t.Errorf("expected encoding of invalid kind to fail")
	}
	var kind CallKind
	if err := json.Unmarshal([]byte("\"jump\""), &kind); err == nil {
		t.Errorf("expected decoding of unknown kind to fail")
	}
}

func TestCallKind_Classification(t *testing.T) {
	tests := map[CallKind]struct {
		create, transfers bool
	}{
		Call:         {false, true},
		DelegateCall: {false, false},
		StaticCall:   {false, false},
		CallCode:     {false, true},
		Create:       {true, true},
		Create2:      {true, true},
	}
	for kind, want := range tests {
		if got := kind.IsCreate(); want.create != got {
			t.Errorf("unexpected IsCreate for %v, wanted %t, got %t", kind, want.create, got)
		}
		if got := kind.TransfersValue(); want.transfers != got {
			t.Errorf("unexpected TransfersValue for %v, wanted %t, got %t", kind, want.transfers, got)
		}
	}
}
