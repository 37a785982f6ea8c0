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
	"strings"
)

var revisionNames = map[Revision]string{
	R07_Istanbul:            "Istanbul",
	R09_Berlin:              "Berlin",
	R10_London:              "London",
	R11_Paris:               "Paris",
	R12_Shanghai:            "Shanghai",
	R13_Cancun:              "Cancun",
	R99_UnknownNextRevision: "UnknownNextRevision",
}

func (r Revision) String() string {
	if name, found := revisionNames[r]; found {
		return name
	}
	return fmt.Sprintf("Revision(%d)", r)
}

// ParseRevision resolves a revision by its case-insensitive name.
func ParseRevision(name string) (Revision, error) {
	for revision, cur := range revisionNames {
		if strings.EqualFold(cur, name) {
			return revision, nil
		}
	}
	return 0, fmt.Errorf("unknown revision: %q", name)
}

func (r Revision) MarshalJSON() ([]byte, error) {
	if _, found := revisionNames[r]; !found {
		return nil, &json.UnsupportedValueError{Str: r.String()}
	}
	return json.Marshal(r.String())
}

func (r *Revision) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for revision, name := range revisionNames {
		if name == s {
			*r = revision
			return nil
		}
	}
	return &json.InvalidUnmarshalError{}
}

// UnmarshalText supports revision names in text based configuration files.
func (r *Revision) UnmarshalText(data []byte) error {
	revision, err := ParseRevision(string(data))
	if err != nil {
		return err
	}
	*r = revision
	return nil
}
