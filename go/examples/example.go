// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package examples

import (
	"fmt"
	"strings"

	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Example is a deployable defender contract together with its ABI.
type Example struct {
	exampleSpec
	codeHash tosca.Hash // the hash of the creation code
	abi      abi.ABI
}

// exampleSpec specifies a defender contract.
type exampleSpec struct {
	Name        string
	Description string
	code        []byte // creation code deploying the contract
	abiJSON     string // the contract's ABI in JSON format
}

func (s exampleSpec) build() Example {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(s.code)
	var hash tosca.Hash
	hasher.Sum(hash[0:0])

	parsed, err := abi.JSON(strings.NewReader(s.abiJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid ABI of example %s: %v", s.Name, err))
	}
	return Example{
		exampleSpec: s,
		codeHash:    hash,
		abi:         parsed,
	}
}

// Code returns the creation code of the contract.
func (e Example) Code() tosca.Code {
	return tosca.Code(e.code)
}

func (e Example) CodeHash() tosca.Hash {
	return e.codeHash
}

// Pack encodes a call of the given method.
func (e Example) Pack(method string, args ...any) (tosca.Data, error) {
	data, err := e.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call of %s.%s: %w", e.Name, method, err)
	}
	return data, nil
}

// Unpack decodes the output of a call of the given method.
func (e Example) Unpack(method string, output tosca.Data) ([]any, error) {
	values, err := e.abi.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to decode output of %s.%s: %w", e.Name, method, err)
	}
	return values, nil
}

var registry = map[string]func() Example{
	"sillybank": GetSillyBankExample,
	"safebank":  GetSafeBankExample,
}

// Get returns the example with the given name.
func Get(name string) (Example, bool) {
	get, found := registry[strings.ToLower(name)]
	if !found {
		return Example{}, false
	}
	return get(), true
}

// Names lists the names of all examples in lexicographical order.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}
