// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package variant

import (
	"strings"

	"github.com/pkg/errors"
)

// TrimDir says how an end of the read differs from the reference.
type TrimDir uint8

const (
	// NoTrim means the read end matches the reference end.
	NoTrim TrimDir = iota
	// Extension means the read carries extra templated bases.
	Extension
	// Deletion means the read lacks bases present in the reference.
	Deletion
)

// Trim describes one end of an isomiR. Nts holds upper case bases and is
// empty iff Dir is NoTrim.
type Trim struct {
	Dir TrimDir
	Nts string
}

// String yields "0" for NoTrim, Nts for an extension, and lower-cased Nts for
// a deletion.
func (t Trim) String() string {
	switch t.Dir {
	case Extension:
		return t.Nts
	case Deletion:
		return strings.ToLower(t.Nts)
	}
	return "0"
}

// Changed reports whether the end differs from the reference.
func (t Trim) Changed() bool { return t.Dir != NoTrim }

func (t Trim) valid() bool {
	if t.Dir == NoTrim {
		return t.Nts == ""
	}
	if t.Dir != Extension && t.Dir != Deletion {
		return false
	}
	return isBases(t.Nts)
}

// isBases reports whether s is a non-empty string of upper case bases.
func isBases(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBase(s[i]) {
			return false
		}
	}
	return true
}

// ParseTrim parses a trim descriptor. "0" and "" mean NoTrim. A leading '+'
// or '-' marks an extension or a deletion explicitly; otherwise the case of
// the bases decides (upper: extension, lower: deletion).
func ParseTrim(s string) (Trim, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return Trim{}, nil
	}
	var dir TrimDir
	switch {
	case s[0] == '+':
		dir, s = Extension, s[1:]
	case s[0] == '-':
		dir, s = Deletion, s[1:]
	case s == strings.ToUpper(s):
		dir = Extension
	case s == strings.ToLower(s):
		dir = Deletion
	default:
		return Trim{}, errors.Errorf("trim %q: mixed case", s)
	}
	t := Trim{Dir: dir, Nts: strings.ToUpper(s)}
	if !t.valid() {
		return Trim{}, errors.Errorf("trim %q: invalid bases", s)
	}
	return t, nil
}

// ParseAddition parses a 3' non-templated addition. "0" and "" mean none.
func ParseAddition(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return "", nil
	}
	s = strings.ToUpper(s)
	if !isBases(s) {
		return "", errors.Errorf("addition %q: invalid bases", s)
	}
	return s, nil
}
