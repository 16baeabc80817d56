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

// Sep separates the fields of a Key. None of the fields may contain it.
const Sep = ':'

const nKeyFields = 6

// lineBreaks would split a key across TSV fields or lines.
const lineBreaks = "\t\n\r"

var (
	// ErrEncoding is the cause of errors returned by Encode.
	ErrEncoding = errors.New("variant: cannot encode key")
	// ErrDecoding is the cause of errors returned by Decode.
	ErrDecoding = errors.New("variant: malformed key")
)

// Key is the joined string form of an Identity. Two records belong to the
// same isomiR iff their keys are equal.
type Key string

// Identity is the tuple that identifies an isomiR.
type Identity struct {
	Seq        string
	MirnaID    string
	Mismatches []Mismatch // nil when the read has no substitution; Decode never yields an empty non-nil slice
	Addition   string     // non-templated 3' bases, "" if none
	Trim5      Trim
	Trim3      Trim
}

// Class is a bitmask of the ways an isomiR differs from its reference.
type Class uint8

const (
	Class5p Class = 1 << iota
	Class3p
	ClassAdd
	ClassSNV

	// ClassRef is the zero mask: the read is the reference miRNA.
	ClassRef Class = 0
)

// Class computes the isomiR class of the identity.
func (id *Identity) Class() Class {
	var c Class
	if id.Trim5.Changed() {
		c |= Class5p
	}
	if id.Trim3.Changed() {
		c |= Class3p
	}
	if id.Addition != "" {
		c |= ClassAdd
	}
	if len(id.Mismatches) > 0 {
		c |= ClassSNV
	}
	return c
}

// Record is one observed isomiR in one sample.
type Record struct {
	Identity
	Freq int64
}

// Encode computes the key of id. It fails if a free-text field is empty or
// contains Sep or a tab or line break, or if a structured field is not in
// canonical form.
func Encode(id Identity) (Key, error) {
	switch {
	case id.Seq == "" || id.MirnaID == "":
		return "", errors.Wrapf(ErrEncoding, "empty sequence or miRNA in %+v", id)
	case strings.IndexByte(id.Seq, Sep) >= 0:
		return "", errors.Wrapf(ErrEncoding, "sequence %q contains '%c'", id.Seq, Sep)
	case strings.IndexByte(id.MirnaID, Sep) >= 0:
		return "", errors.Wrapf(ErrEncoding, "miRNA %q contains '%c'", id.MirnaID, Sep)
	case strings.ContainsAny(id.Seq, lineBreaks) || strings.ContainsAny(id.MirnaID, lineBreaks):
		return "", errors.Wrapf(ErrEncoding, "tab or line break in %q or %q", id.Seq, id.MirnaID)
	case id.Addition != "" && !isBases(id.Addition):
		return "", errors.Wrapf(ErrEncoding, "addition %q", id.Addition)
	case !id.Trim5.valid():
		return "", errors.Wrapf(ErrEncoding, "5' trim %+v", id.Trim5)
	case !id.Trim3.valid():
		return "", errors.Wrapf(ErrEncoding, "3' trim %+v", id.Trim3)
	}
	for _, m := range id.Mismatches {
		if !m.valid() {
			return "", errors.Wrapf(ErrEncoding, "mismatch %+v", m)
		}
	}
	var b strings.Builder
	b.Grow(len(id.Seq) + len(id.MirnaID) + 16)
	b.WriteString(id.Seq)
	b.WriteByte(Sep)
	b.WriteString(id.MirnaID)
	b.WriteByte(Sep)
	b.WriteString(FormatMismatches(id.Mismatches))
	b.WriteByte(Sep)
	b.WriteString(id.Addition)
	b.WriteByte(Sep)
	b.WriteString(id.Trim5.String())
	b.WriteByte(Sep)
	b.WriteString(id.Trim3.String())
	return Key(b.String()), nil
}

// Decode is the inverse of Encode.
func Decode(k Key) (Identity, error) {
	fields := strings.Split(string(k), string(Sep))
	if len(fields) != nKeyFields {
		return Identity{}, errors.Wrapf(ErrDecoding, "key %q: got %d fields, want %d", k, len(fields), nKeyFields)
	}
	id, err := ParseIdentity(fields[0], fields[1], fields[2], fields[3], fields[4], fields[5])
	if err != nil {
		return Identity{}, errors.Wrapf(ErrDecoding, "key %q: %v", k, err)
	}
	return id, nil
}

// MirnaID extracts the miRNA field without decoding the whole key.
func (k Key) MirnaID() string {
	s := string(k)
	i := strings.IndexByte(s, Sep)
	if i < 0 {
		return ""
	}
	s = s[i+1:]
	if j := strings.IndexByte(s, Sep); j >= 0 {
		return s[:j]
	}
	return s
}

// ParseIdentity builds an Identity from the text fields of an annotation
// table. The structured fields accept every form their Parse functions
// accept, including "0" for "none".
func ParseIdentity(seq, mirna, mism, add, trim5, trim3 string) (id Identity, err error) {
	if seq == "" || mirna == "" {
		return id, errors.New("empty sequence or miRNA")
	}
	id.Seq, id.MirnaID = seq, mirna
	if id.Mismatches, err = ParseMismatches(mism); err != nil {
		return
	}
	if id.Addition, err = ParseAddition(add); err != nil {
		return
	}
	if id.Trim5, err = ParseTrim(trim5); err != nil {
		return
	}
	id.Trim3, err = ParseTrim(trim3)
	return
}
