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
	"github.com/grailbio/testutil/expect"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	samples := []SampleRecords{
		{Sample: "A", Records: []variant.Record{
			rec("AAGCTT", "mir-1", 10),
			withMismatch(rec("AAGCTT", "mir-1", 1), variant.Mismatch{Pos: 1, Observed: 'T', Reference: 'C'}),
			rec("AAGCTT", "mir-1", 5),
		}},
		{Sample: "B", Records: []variant.Record{
			rec("CCGCTT", "mir-2", 7),
			rec("AAGCTT", "mir-1", 3),
		}},
	}
	tbl, err := Aggregate(samples)
	require.NoError(t, err)
	require.NoError(t, tbl.Validate())
	expect.EQ(t, tbl.Samples, []string{"A", "B"})
	expect.EQ(t, tableKeys(tbl), []variant.Key{
		"AAGCTT:mir-1:1T>C::0:0",
		"AAGCTT:mir-1:::0:0",
		"CCGCTT:mir-2:::0:0",
	})
	expect.EQ(t, tbl.Rows[0].Counts, []int64{1, 0})
	expect.EQ(t, tbl.Rows[1].Counts, []int64{15, 3})
	expect.EQ(t, tbl.Rows[2].Counts, []int64{0, 7})

	// Every read of a sample ends up in its column.
	for col, s := range samples {
		var n int64
		for _, r := range s.Records {
			n += r.Freq
		}
		assert.Equal(t, n, tbl.ColumnTotal(col), s.Sample)
	}
}

func TestAggregateErrors(t *testing.T) {
	_, err := Aggregate([]SampleRecords{{Sample: "A"}, {Sample: "B"}})
	assert.Equal(t, ErrEmptyAggregation, errors.Cause(err))

	_, err = Aggregate([]SampleRecords{
		{Sample: "A", Records: []variant.Record{rec("AAGCTT", "mir-1", 1)}},
		{Sample: "A", Records: []variant.Record{rec("AAGCTT", "mir-1", 1)}},
	})
	assert.Equal(t, ErrShapeMismatch, errors.Cause(err))

	_, err = Aggregate([]SampleRecords{
		{Sample: "A", Records: []variant.Record{rec("AAG:CTT", "mir-1", 1)}},
	})
	assert.Equal(t, variant.ErrEncoding, errors.Cause(err))
}
