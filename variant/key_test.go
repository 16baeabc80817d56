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
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ids := []Identity{
		{Seq: "AAGCTT", MirnaID: "mir-1", Trim5: Trim{}, Trim3: Trim{}},
		{Seq: "AAGCTT", MirnaID: "mir-1", Mismatches: []Mismatch{{1, 'T', 'C'}}},
		{
			Seq:        "TAGCTTATCAGACTGATGTTGAA",
			MirnaID:    "hsa-miR-21-5p",
			Mismatches: []Mismatch{{5, 'G', 'T'}, {12, 'A', 'C'}},
			Addition:   "AA",
			Trim5:      Trim{Dir: Deletion, Nts: "T"},
			Trim3:      Trim{Dir: Extension, Nts: "GA"},
		},
		{Seq: "ACGUN", MirnaID: "x", Addition: "U", Trim3: Trim{Dir: Deletion, Nts: "CCA"}},
	}
	for _, id := range ids {
		k, err := Encode(id)
		require.NoError(t, err)
		got, err := Decode(k)
		require.NoError(t, err)
		assert.Equal(t, id, got, "key %s", k)
	}

	// nil is the only empty form of Mismatches.
	empty := Identity{Seq: "AAGCTT", MirnaID: "mir-1", Mismatches: []Mismatch{}}
	k, err := Encode(empty)
	require.NoError(t, err)
	expect.EQ(t, k, Key("AAGCTT:mir-1:::0:0"))
	got, err := Decode(k)
	require.NoError(t, err)
	assert.Nil(t, got.Mismatches)
	assert.Equal(t, Identity{Seq: "AAGCTT", MirnaID: "mir-1"}, got)
}

func TestEncode(t *testing.T) {
	k, err := Encode(Identity{Seq: "AAGCTT", MirnaID: "mir-1"})
	assert.NoError(t, err)
	expect.EQ(t, k, Key("AAGCTT:mir-1:::0:0"))

	k, err = Encode(Identity{
		Seq:        "AAGCTT",
		MirnaID:    "mir-1",
		Mismatches: []Mismatch{{1, 'T', 'C'}},
		Addition:   "A",
		Trim5:      Trim{Dir: Deletion, Nts: "AG"},
		Trim3:      Trim{Dir: Extension, Nts: "T"},
	})
	assert.NoError(t, err)
	expect.EQ(t, k, Key("AAGCTT:mir-1:1T>C:A:ag:T"))
	expect.EQ(t, k.MirnaID(), "mir-1")
}

func TestEncodeErrors(t *testing.T) {
	bad := []Identity{
		{Seq: "AAG:CTT", MirnaID: "mir-1"},
		{Seq: "AAGCTT", MirnaID: "mir:1"},
		{Seq: "AAG\tCTT", MirnaID: "mir 1"},
		{Seq: "AAGCTT", MirnaID: "mir-1\n"},
		{Seq: "AAGCTT\r", MirnaID: "mir-1"},
		{Seq: "", MirnaID: "mir-1"},
		{Seq: "AAGCTT", MirnaID: "mir-1", Addition: "a:"},
		{Seq: "AAGCTT", MirnaID: "mir-1", Trim5: Trim{Dir: Extension}},
		{Seq: "AAGCTT", MirnaID: "mir-1", Trim3: Trim{Dir: NoTrim, Nts: "A"}},
		{Seq: "AAGCTT", MirnaID: "mir-1", Mismatches: []Mismatch{{3, 'X', 'C'}}},
	}
	for _, id := range bad {
		_, err := Encode(id)
		assert.Error(t, err, "%+v", id)
		assert.Equal(t, ErrEncoding, errors.Cause(err))
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, k := range []Key{
		"",
		"AAGCTT:mir-1::0:0",
		"AAGCTT:mir-1:1T>C:::0:0",
		"AAGCTT:mir-1:T>C::0:0",
		"AAGCTT:mir-1::A7:0:0",
		"AAGCTT:mir-1:::aG:0",
		":mir-1:::0:0",
	} {
		_, err := Decode(k)
		assert.Error(t, err, "key %q", k)
		assert.Equal(t, ErrDecoding, errors.Cause(err), "key %q", k)
	}
}

func TestClass(t *testing.T) {
	tests := []struct {
		key   Key
		class Class
	}{
		{"AAGCTT:mir-1:::0:0", ClassRef},
		{"AAGCTT:mir-1:2A>C::0:0", ClassSNV},
		{"AAGCTT:mir-1::AA:0:0", ClassAdd},
		{"AAGCTT:mir-1:::a:0", Class5p},
		{"AAGCTT:mir-1:::0:GT", Class3p},
		{"AAGCTT:mir-1:1T>C:U:A:tt", Class5p | Class3p | ClassAdd | ClassSNV},
	}
	for _, test := range tests {
		id, err := Decode(test.key)
		require.NoError(t, err)
		assert.Equal(t, test.class, id.Class(), "key %s", test.key)
	}
}

func TestKeyMirnaID(t *testing.T) {
	expect.EQ(t, Key("AAGCTT:hsa-let-7a-5p:::0:0").MirnaID(), "hsa-let-7a-5p")
	expect.EQ(t, Key("AAGCTT").MirnaID(), "")
	expect.EQ(t, Key("AAGCTT:x").MirnaID(), "x")
}
