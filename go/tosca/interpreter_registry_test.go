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
	"slices"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestInterpreterRegistry_LookupIsCaseInsensitive(t *testing.T) {
	ctrl := gomock.NewController(t)
	interpreter := NewMockInterpreter(ctrl)

	const name = "Test-Lookup"
	err := RegisterInterpreterFactory(name, func(any) (Interpreter, error) {
		return interpreter, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, cur := range []string{"test-lookup", "TEST-LOOKUP", name} {
		got, err := NewInterpreter(cur)
		if err != nil {
			t.Fatalf("failed to create interpreter %s: %v", cur, err)
		}
		if got != interpreter {
			t.Errorf("unexpected interpreter for %s", cur)
		}
	}

	if !slices.Contains(GetInterpreterNames(), "test-lookup") {
		t.Errorf("registered name missing in %v", GetInterpreterNames())
	}
}

func TestInterpreterRegistry_ConfigurationIsForwarded(t *testing.T) {
	var seen any
	MustRegisterInterpreterFactory("test-config", func(config any) (Interpreter, error) {
		seen = config
		return nil, nil
	})
	if _, err := NewInterpreter("test-config", 12); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := any(12), seen; want != got {
		t.Errorf("unexpected configuration, wanted %v, got %v", want, got)
	}
	if _, err := NewInterpreter("test-config", 1, 2); err == nil {
		t.Errorf("expected too many arguments to be rejected")
	}
}

func TestInterpreterRegistry_UnknownNamesAreReported(t *testing.T) {
	if _, err := NewInterpreter("not-registered"); err == nil {
		t.Errorf("expected error for unknown interpreter")
	}
}

func TestInterpreterRegistry_MultipleRegistrationsAreRejected(t *testing.T) {
	const name = "test-multiple"
	factory := func(any) (Interpreter, error) { return nil, nil }
	if err := RegisterInterpreterFactory(name, factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RegisterInterpreterFactory(name, factory); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestInterpreterRegistry_NilFactoriesAreRejected(t *testing.T) {
	if err := RegisterInterpreterFactory("something", nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
