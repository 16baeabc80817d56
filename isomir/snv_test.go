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
	"testing"

	"github.com/grailbio/isomir/variant"
	"github.com/stretchr/testify/assert"
)

func TestCapSNV(t *testing.T) {
	tbl := newTable(t, []string{"A"}, map[variant.Key][]int64{
		"AAGCTT:mir-1:::0:0":          {5},
		"AAGCTT:mir-1:1T>C::0:0":      {5},
		"AAGCTT:mir-1:1T>C,4A>G::0:0": {5},
	})
	for _, test := range []struct {
		n, rows, removed int
	}{
		{-1, 3, 0},
		{0, 1, 2},
		{1, 2, 1},
		{2, 3, 0},
		{3, 3, 0},
	} {
		out, removed := CapSNV(tbl, test.n)
		assert.Len(t, out.Rows, test.rows, "n=%d", test.n)
		assert.Equal(t, test.removed, removed, "n=%d", test.n)
		for _, row := range out.Rows {
			if test.n >= 0 {
				assert.True(t, len(row.ID.Mismatches) <= test.n)
			}
		}
	}
}
