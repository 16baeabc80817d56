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

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/isomir/variant"
)

// SampleSummary breaks down the reads of one sample by isomiR class. An
// isomiR can belong to several classes, so the fractions other than Ref may
// add up to more than 1.
type SampleSummary struct {
	Sample string
	Total  int64
	// Fraction of Total in reference reads, and in reads with a 5' trim, a 3'
	// trim, a 3' addition, or substitutions.
	Ref, Iso5, Iso3, Add, SNV float64
}

// Summarize computes one SampleSummary per sample of t. Fractions of a sample
// with no reads are 0.
func Summarize(t *WideTable) []SampleSummary {
	type counts struct{ total, ref, iso5, iso3, add, snv int64 }
	c := make([]counts, len(t.Samples))
	for i := range t.Rows {
		row := &t.Rows[i]
		class := row.ID.Class()
		for j, n := range row.Counts {
			c[j].total += n
			if class == variant.ClassRef {
				c[j].ref += n
			}
			if class&variant.Class5p != 0 {
				c[j].iso5 += n
			}
			if class&variant.Class3p != 0 {
				c[j].iso3 += n
			}
			if class&variant.ClassAdd != 0 {
				c[j].add += n
			}
			if class&variant.ClassSNV != 0 {
				c[j].snv += n
			}
		}
	}
	out := make([]SampleSummary, len(t.Samples))
	for j, s := range t.Samples {
		out[j] = SampleSummary{Sample: s, Total: c[j].total}
		if c[j].total == 0 {
			continue
		}
		total := float64(c[j].total)
		out[j].Ref = float64(c[j].ref) / total
		out[j].Iso5 = float64(c[j].iso5) / total
		out[j].Iso3 = float64(c[j].iso3) / total
		out[j].Add = float64(c[j].add) / total
		out[j].SNV = float64(c[j].snv) / total
	}
	return out
}

// WriteSummaryTSV writes one line per sample.
func WriteSummaryTSV(w io.Writer, summaries []SampleSummary) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("sample\ttotal\tref\tiso_5p\tiso_3p\tiso_add\tiso_snv")
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, s := range summaries {
		tw.WriteString(s.Sample)
		tw.WriteInt64(s.Total)
		for _, v := range []float64{s.Ref, s.Iso5, s.Iso3, s.Add, s.SNV} {
			tw.WriteFloat64(v, 'f', 4)
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
