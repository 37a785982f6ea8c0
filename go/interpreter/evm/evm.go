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

	"github.com/Fantom-foundation/Arena/go/tosca"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Registers the interpreter under the name "evm" in the tosca registry.
func init() {
	tosca.MustRegisterInterpreterFactory("evm", func(config any) (tosca.Interpreter, error) {
		switch c := config.(type) {
		case nil:
			return NewInterpreter(DefaultConfig())
		case Config:
			return NewInterpreter(c)
		case *Config:
			if c == nil {
				return NewInterpreter(DefaultConfig())
			}
			return NewInterpreter(*c)
		default:
			return nil, fmt.Errorf("invalid configuration type for evm interpreter: %T", config)
		}
	})
}

// Config is the configuration of an evm interpreter instance.
type Config struct {
	// JumpDestCacheSize is the number of jump destination analyses kept per
	// interpreter instance. Analyses are keyed by code hash. A value <= 0
	// disables caching.
	JumpDestCacheSize int
}

func DefaultConfig() Config {
	return Config{
		JumpDestCacheSize: 1 << 10,
	}
}

// The range of revisions supported by this interpreter.
const (
	oldestSupportedRevision = tosca.R09_Berlin
	newestSupportedRevision = tosca.R13_Cancun
)

type evm struct {
	analyses *lru.Cache[tosca.Hash, jumpDests]
}

// NewInterpreter creates an evm interpreter instance using the given
// configuration.
func NewInterpreter(config Config) (*evm, error) {
	res := &evm{}
	if config.JumpDestCacheSize > 0 {
		cache, err := lru.New[tosca.Hash, jumpDests](config.JumpDestCacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create jump destination cache: %w", err)
		}
		res.analyses = cache
	}
	return res, nil
}

func (e *evm) Run(params tosca.Parameters) (tosca.Result, error) {
	if params.Revision < oldestSupportedRevision || params.Revision > newestSupportedRevision {
		return tosca.Result{}, &tosca.ErrUnsupportedRevision{Revision: params.Revision}
	}
	return run(params, e.getJumpDests(params.Code, params.CodeHash))
}

// getJumpDests fetches the analysis of the given code from the cache, or
// computes it if it is not present. Codes without hash are not cached.
func (e *evm) getJumpDests(code tosca.Code, hash *tosca.Hash) jumpDests {
	if e.analyses == nil || hash == nil {
		return analyzeJumpDests(code)
	}
	if res, found := e.analyses.Get(*hash); found {
		return res
	}
	res := analyzeJumpDests(code)
	e.analyses.Add(*hash, res)
	return res
}
