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

package isomir

import (
	"sort"
	"testing"

	"github.com/grailbio/isomir/variant"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTable builds a WideTable from keys and their counts.
func newTable(t *testing.T, samples []string, rows map[variant.Key][]int64) *WideTable {
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	tbl := &WideTable{Samples: samples}
	for _, k := range keys {
		id, err := variant.Decode(variant.Key(k))
		require.NoError(t, err)
		tbl.Rows = append(tbl.Rows, Row{Key: variant.Key(k), ID: id, Counts: rows[variant.Key(k)]})
	}
	require.NoError(t, tbl.Validate())
	return tbl
}

func tableKeys(tbl *WideTable) []variant.Key {
	var keys []variant.Key
	for _, row := range tbl.Rows {
		keys = append(keys, row.Key)
	}
	return keys
}

func TestWideTableAccessors(t *testing.T) {
	tbl := newTable(t, []string{"A", "B"}, map[variant.Key][]int64{
		"AAGCTT:mir-1:::0:0":     {10, 3},
		"AAGCTT:mir-1:1T>C::0:0": {1, 0},
	})
	assert.Equal(t, 1, tbl.SampleIndex("B"))
	assert.Equal(t, -1, tbl.SampleIndex("C"))
	assert.Equal(t, int64(11), tbl.ColumnTotal(0))
	assert.Equal(t, int64(3), tbl.ColumnTotal(1))
	assert.Equal(t, []variant.Key{"AAGCTT:mir-1:1T>C::0:0", "AAGCTT:mir-1:::0:0"}, tableKeys(tbl))
}

func TestWideTableValidate(t *testing.T) {
	valid := func() *WideTable {
		return newTable(t, []string{"A", "B"}, map[variant.Key][]int64{
			"AAGCTT:mir-1:::0:0":   {10, 3},
			"CCGCTT:mir-2:::a:0":   {1, 0},
			"GGGCTT:mir-3::AA:0:0": {0, 7},
		})
	}
	tests := []struct {
		name  string
		edit  func(*WideTable)
		cause error
	}{
		{"dup sample", func(t *WideTable) { t.Samples[1] = "A" }, ErrShapeMismatch},
		{"short row", func(t *WideTable) { t.Rows[0].Counts = []int64{1} }, ErrShapeMismatch},
		{"negative", func(t *WideTable) { t.Rows[1].Counts[0] = -1 }, ErrValidation},
		{"key mismatch", func(t *WideTable) { t.Rows[1].ID.MirnaID = "mir-9" }, ErrValidation},
		{"order", func(t *WideTable) { t.Rows[0], t.Rows[1] = t.Rows[1], t.Rows[0] }, ErrValidation},
		{"bad identity", func(t *WideTable) { t.Rows[2].ID.Seq = "" }, variant.ErrEncoding},
	}
	for _, test := range tests {
		tbl := valid()
		test.edit(tbl)
		err := tbl.Validate()
		assert.Error(t, err, test.name)
		assert.Equal(t, test.cause, errors.Cause(err), test.name)
	}
}
