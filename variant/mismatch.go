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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Mismatch is a single substitution of the observed sequence relative to
// the reference miRNA. Observed and Reference are upper case bases.
type Mismatch struct {
	Pos       int
	Observed  byte
	Reference byte
}

// String yields the canonical form, e.g. "5T>C".
func (m Mismatch) String() string {
	return strconv.Itoa(m.Pos) + string(m.Observed) + ">" + string(m.Reference)
}

func (m Mismatch) valid() bool {
	return m.Pos >= 0 && isBase(m.Observed) && isBase(m.Reference)
}

// isBase reports whether b is an upper case nucleotide code.
func isBase(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T', 'U', 'N':
		return true
	}
	return false
}

func toUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// ParseMismatches parses a mismatch list. Both the canonical form ("5T>C,9GA"
// style lists with '>' separators) and the compact miraligner form ("5TC")
// are accepted; entries may be separated by commas or spaces. An empty
// string or "0" means no mismatch, and yields a nil slice.
func ParseMismatches(s string) ([]Mismatch, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return nil, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, nil
	}
	ms := make([]Mismatch, 0, len(fields))
	for _, f := range fields {
		m, err := parseMismatch(f)
		if err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, nil
}

func parseMismatch(s string) (Mismatch, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Mismatch{}, errors.Errorf("mismatch %q: missing position", s)
	}
	pos, err := strconv.Atoi(s[:i])
	if err != nil {
		return Mismatch{}, errors.Wrapf(err, "mismatch %q", s)
	}
	rest := s[i:]
	var m Mismatch
	switch {
	case len(rest) == 3 && rest[1] == '>':
		m = Mismatch{Pos: pos, Observed: toUpper(rest[0]), Reference: toUpper(rest[2])}
	case len(rest) == 2:
		m = Mismatch{Pos: pos, Observed: toUpper(rest[0]), Reference: toUpper(rest[1])}
	default:
		return Mismatch{}, errors.Errorf("mismatch %q: expect <pos><obs>><ref>", s)
	}
	if !m.valid() {
		return Mismatch{}, errors.Errorf("mismatch %q: invalid base", s)
	}
	return m, nil
}

// FormatMismatches is the inverse of ParseMismatches. It yields "" for an
// empty list.
func FormatMismatches(ms []Mismatch) string {
	if len(ms) == 0 {
		return ""
	}
	var b strings.Builder
	for i, m := range ms {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(m.String())
	}
	return b.String()
}
