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
	"fmt"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// InterpreterFactory creates an Interpreter from an implementation specific
// configuration. A nil configuration selects the implementation's defaults.
type InterpreterFactory func(config any) (Interpreter, error)

// registry maps lower-case names to interpreter factories. Implementations
// register themselves during package initialization.
type registry struct {
	mutex     sync.RWMutex
	factories map[string]InterpreterFactory
}

var interpreters = registry{factories: map[string]InterpreterFactory{}}

// NewInterpreter creates an instance of the interpreter registered under the
// given name. Names are case-insensitive. At most one configuration may be
// provided; it is passed on to the factory unchanged.
func NewInterpreter(name string, config ...any) (Interpreter, error) {
	if len(config) > 1 {
		return nil, fmt.Errorf("invalid configuration: too many arguments")
	}
	interpreters.mutex.RLock()
	factory, found := interpreters.factories[strings.ToLower(name)]
	interpreters.mutex.RUnlock()
	if !found {
		return nil, fmt.Errorf("interpreter not found: %s, use one of: %v", name, GetInterpreterNames())
	}
	var c any
	if len(config) > 0 {
		c = config[0]
	}
	return factory(c)
}

// GetInterpreterNames lists the names of all registered interpreters in
// lexicographical order.
func GetInterpreterNames() []string {
	interpreters.mutex.RLock()
	names := maps.Keys(interpreters.factories)
	interpreters.mutex.RUnlock()
	slices.Sort(names)
	return names
}

// RegisterInterpreterFactory binds a factory to a name. It fails if the
// factory is nil or the name is taken.
func RegisterInterpreterFactory(name string, factory InterpreterFactory) error {
	key := strings.ToLower(name)
	if factory == nil {
		return fmt.Errorf("invalid initialization: cannot register nil-factory using `%s`", key)
	}
	interpreters.mutex.Lock()
	defer interpreters.mutex.Unlock()
	if _, found := interpreters.factories[key]; found {
		return fmt.Errorf("invalid initialization: multiple factories registered for `%s`", key)
	}
	interpreters.factories[key] = factory
	return nil
}

// MustRegisterInterpreterFactory is like RegisterInterpreterFactory but
// panics on failure.
func MustRegisterInterpreterFactory(name string, factory InterpreterFactory) {
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		panic(err)
	}
}
