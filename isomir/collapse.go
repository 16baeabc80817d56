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
	"io"
	"sort"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/isomir/variant"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CollapseOpts selects the isomiR attributes kept apart by Collapse. With
// every flag off, Collapse yields one row per miRNA.
type CollapseOpts struct {
	// Ref splits reads of the reference sequence from isomiR reads.
	Ref bool
	// Iso5, Iso3, Add and SNV keep the 5' trim, the 3' trim, the 3' addition
	// and the substitutions in the row name.
	Iso5, Iso3, Add, SNV bool
	// MinCount drops collapsed rows whose total over all samples is below
	// MinCount.
	MinCount int64
}

// CollapsedTable is a count matrix with one row per collapsed name.
type CollapsedTable struct {
	Names   []string
	Samples []string
	Counts  *mat.Dense
}

// collapsedName computes the row name of id under opts, e.g.
// "hsa-let-7a-5p;iso_5p:t;iso_add:AA;iso".
func collapsedName(id *variant.Identity, opts CollapseOpts) string {
	var b strings.Builder
	b.WriteString(id.MirnaID)
	if opts.Iso5 {
		b.WriteString(";iso_5p:")
		b.WriteString(id.Trim5.String())
	}
	if opts.Iso3 {
		b.WriteString(";iso_3p:")
		b.WriteString(id.Trim3.String())
	}
	if opts.Add {
		b.WriteString(";iso_add:")
		b.WriteString(orZero(id.Addition))
	}
	if opts.SNV {
		b.WriteString(";iso_snv:")
		b.WriteString(orZero(variant.FormatMismatches(id.Mismatches)))
	}
	if opts.Ref {
		if id.Class() == variant.ClassRef {
			b.WriteString(";ref")
		} else {
			b.WriteString(";iso")
		}
	}
	return b.String()
}

// Collapse sums the rows of t that share a collapsed name. Rows of the result
// are sorted by name.
func Collapse(t *WideTable, opts CollapseOpts) *CollapsedTable {
	sums := map[string][]float64{}
	for i := range t.Rows {
		row := &t.Rows[i]
		name := collapsedName(&row.ID, opts)
		s, ok := sums[name]
		if !ok {
			s = make([]float64, len(t.Samples))
			sums[name] = s
		}
		for j, n := range row.Counts {
			s[j] += float64(n)
		}
	}
	var names []string
	for name, s := range sums {
		if floats.Sum(s) < float64(opts.MinCount) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	c := &CollapsedTable{Names: names, Samples: t.Samples}
	if len(names) == 0 || len(t.Samples) == 0 {
		return c
	}
	c.Counts = mat.NewDense(len(names), len(t.Samples), nil)
	for i, name := range names {
		c.Counts.SetRow(i, sums[name])
	}
	return c
}

// Write writes the table with a header row. The first column is named
// "mirna".
func (c *CollapsedTable) Write(w io.Writer) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("mirna")
	for _, s := range c.Samples {
		tw.WriteString(s)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i, name := range c.Names {
		tw.WriteString(name)
		for j := range c.Samples {
			tw.WriteInt64(int64(c.Counts.At(i, j)))
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
