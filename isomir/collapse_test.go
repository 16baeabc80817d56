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
	"bytes"
	"testing"

	"github.com/grailbio/isomir/variant"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func collapseTable(t *testing.T) *WideTable {
	return newTable(t, []string{"A", "B"}, map[variant.Key][]int64{
		"AAGCTT:mir-1:::0:0":       {10, 1},
		"AAGCTTA:mir-1::A:0:0":     {5, 0},
		"AGCTT:mir-1:::a:0":        {2, 2},
		"AAGCTT:mir-1:1T>C::0:0":   {1, 1},
		"CCGCTT:mir-2:::0:0":       {0, 4},
		"CCGCTTTT:mir-2::TT:0:0":   {3, 0},
		"CCGCTTTT:mir-2::TT:0:TTA": {1, 0},
	})
}

func TestCollapseMirna(t *testing.T) {
	c := Collapse(collapseTable(t), CollapseOpts{})
	expect.EQ(t, c.Names, []string{"mir-1", "mir-2"})
	expect.EQ(t, c.Samples, []string{"A", "B"})
	assert.True(t, mat.Equal(c.Counts, mat.NewDense(2, 2, []float64{18, 4, 4, 4})))

	c = Collapse(collapseTable(t), CollapseOpts{MinCount: 9})
	expect.EQ(t, c.Names, []string{"mir-1"})

	c = Collapse(collapseTable(t), CollapseOpts{MinCount: 100})
	assert.Len(t, c.Names, 0)
	assert.Nil(t, c.Counts)
}

func TestCollapseAttributes(t *testing.T) {
	c := Collapse(collapseTable(t), CollapseOpts{Ref: true})
	expect.EQ(t, c.Names, []string{"mir-1;iso", "mir-1;ref", "mir-2;iso", "mir-2;ref"})
	assert.True(t, mat.Equal(c.Counts, mat.NewDense(4, 2, []float64{
		8, 3,
		10, 1,
		4, 0,
		0, 4,
	})))

	c = Collapse(collapseTable(t), CollapseOpts{Iso5: true, Iso3: true, Add: true, SNV: true})
	expect.EQ(t, c.Names, []string{
		"mir-1;iso_5p:0;iso_3p:0;iso_add:0;iso_snv:0",
		"mir-1;iso_5p:0;iso_3p:0;iso_add:0;iso_snv:1T>C",
		"mir-1;iso_5p:0;iso_3p:0;iso_add:A;iso_snv:0",
		"mir-1;iso_5p:a;iso_3p:0;iso_add:0;iso_snv:0",
		"mir-2;iso_5p:0;iso_3p:0;iso_add:0;iso_snv:0",
		"mir-2;iso_5p:0;iso_3p:0;iso_add:TT;iso_snv:0",
		"mir-2;iso_5p:0;iso_3p:TTA;iso_add:TT;iso_snv:0",
	})

	c = Collapse(collapseTable(t), CollapseOpts{Add: true})
	expect.EQ(t, c.Names, []string{"mir-1;iso_add:0", "mir-1;iso_add:A", "mir-2;iso_add:0", "mir-2;iso_add:TT"})
	expect.EQ(t, mat.Row(nil, 3, c.Counts), []float64{4, 0})

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	expect.EQ(t, buf.String(), "mirna\tA\tB\nmir-1;iso_add:0\t13\t4\nmir-1;iso_add:A\t5\t0\nmir-2;iso_add:0\t0\t4\nmir-2;iso_add:TT\t4\t0\n")
}

func TestSummarize(t *testing.T) {
	s := Summarize(collapseTable(t))
	require.Len(t, s, 2)
	expect.EQ(t, s[0].Sample, "A")
	expect.EQ(t, s[0].Total, int64(22))
	assert.InDelta(t, 10.0/22, s[0].Ref, 1e-9)
	assert.InDelta(t, 2.0/22, s[0].Iso5, 1e-9)
	assert.InDelta(t, 1.0/22, s[0].Iso3, 1e-9)
	assert.InDelta(t, 9.0/22, s[0].Add, 1e-9)
	assert.InDelta(t, 1.0/22, s[0].SNV, 1e-9)

	expect.EQ(t, s[1].Total, int64(8))
	assert.InDelta(t, 5.0/8, s[1].Ref, 1e-9)

	empty := Summarize(&WideTable{Samples: []string{"A"}})
	expect.EQ(t, empty, []SampleSummary{{Sample: "A"}})

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryTSV(&buf, empty))
	expect.EQ(t, buf.String(), "sample\ttotal\tref\tiso_5p\tiso_3p\tiso_add\tiso_snv\nA\t0\t0.0000\t0.0000\t0.0000\t0.0000\t0.0000\n")

	buf.Reset()
	require.NoError(t, WriteSummaryTSV(&buf, s[1:]))
	assert.Contains(t, buf.String(), "\nB\t8\t0.6250\t")
}
