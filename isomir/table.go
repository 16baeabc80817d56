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
	"github.com/grailbio/isomir/variant"
	"github.com/pkg/errors"
)

// Row is one isomiR of a WideTable. ID is the decoded form of Key.
type Row struct {
	Key    variant.Key
	ID     variant.Identity
	Counts []int64 // Counts[i] is the read count in WideTable.Samples[i].
}

// WideTable is the isomiR x sample count table. Every row has one count per
// sample; absent observations are 0. Rows are sorted by key.
//
// Tables are treated as immutable: filters return new tables that may share
// Row values (and their Counts) with their input.
type WideTable struct {
	Samples []string
	Rows    []Row
}

// SampleIndex yields the column of the given sample, or -1.
func (t *WideTable) SampleIndex(sample string) int {
	for i, s := range t.Samples {
		if s == sample {
			return i
		}
	}
	return -1
}

// ColumnTotal computes the sum of the counts of the col'th sample.
func (t *WideTable) ColumnTotal(col int) int64 {
	var n int64
	for i := range t.Rows {
		n += t.Rows[i].Counts[col]
	}
	return n
}

// Validate checks the invariants of a table read back from storage or built by
// a caller: unique sample names, one nonnegative count per sample in every
// row, keys that decode to the stored identity, strictly increasing keys.
func (t *WideTable) Validate() error {
	seen := make(map[string]struct{}, len(t.Samples))
	for _, s := range t.Samples {
		if _, ok := seen[s]; ok {
			return errors.Wrapf(ErrShapeMismatch, "duplicate sample %q", s)
		}
		seen[s] = struct{}{}
	}
	for i := range t.Rows {
		row := &t.Rows[i]
		if len(row.Counts) != len(t.Samples) {
			return errors.Wrapf(ErrShapeMismatch, "row %s: %d counts for %d samples", row.Key, len(row.Counts), len(t.Samples))
		}
		for j, n := range row.Counts {
			if n < 0 {
				return errors.Wrapf(ErrValidation, "row %s: negative count %d in sample %s", row.Key, n, t.Samples[j])
			}
		}
		k, err := variant.Encode(row.ID)
		if err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
		if k != row.Key {
			return errors.Wrapf(ErrValidation, "row %d: key %s does not match identity %s", i, row.Key, k)
		}
		if i > 0 && t.Rows[i-1].Key >= row.Key {
			return errors.Wrapf(ErrValidation, "row %d: key %s out of order", i, row.Key)
		}
	}
	return nil
}

// filter creates a table with the rows for which keep is true.
func (t *WideTable) filter(keep []bool) *WideTable {
	out := &WideTable{Samples: t.Samples}
	for i := range t.Rows {
		if keep[i] {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out
}
