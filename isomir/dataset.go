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
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Dataset is the result of the pipeline: the filtered count matrix, the
// sample table describing its columns, and the unfiltered table it was built
// from, kept so that the dataset can be re-filtered with FromRawTable.
type Dataset struct {
	Counts  *Matrix
	Samples *SampleTable
	Raw     *WideTable
	Design  string
	Stats   Stats
}

// NewDataset creates a Dataset and validates it.
func NewDataset(counts *Matrix, samples *SampleTable, raw *WideTable, design string) (*Dataset, error) {
	d := &Dataset{Counts: counts, Samples: samples, Raw: raw, Design: design}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate checks that the count matrix holds finite nonnegative values, that
// every row is annotated, that the matrix columns are the samples of the
// sample table in order, and that the design only names sample table columns.
func (d *Dataset) Validate() error {
	if d.Counts == nil || d.Counts.Counts == nil || d.Samples == nil {
		return errors.Wrap(ErrValidation, "missing count matrix or sample table")
	}
	m := d.Counts
	nRows, nCols := m.Counts.Dims()
	if len(m.RowKeys) != nRows || len(m.RowData) != nRows {
		return errors.Wrapf(ErrValidation, "%d rows, %d keys, %d annotations", nRows, len(m.RowKeys), len(m.RowData))
	}
	if len(m.Samples) != nCols || len(d.Samples.Names) != nCols {
		return errors.Wrapf(ErrValidation, "%d columns, %d column names, %d samples", nCols, len(m.Samples), len(d.Samples.Names))
	}
	for j, s := range m.Samples {
		if d.Samples.Names[j] != s {
			return errors.Wrapf(ErrValidation, "column %d is %s, sample table has %s", j, s, d.Samples.Names[j])
		}
	}
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			v := m.Counts.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return errors.Wrapf(ErrValidation, "count %v at %s, %s", v, m.RowKeys[i], m.Samples[j])
			}
		}
	}
	terms, err := DesignTerms(d.Design)
	if err != nil {
		return err
	}
	for _, term := range terms {
		if d.Samples.Column(term) == nil {
			return errors.Wrapf(ErrValidation, "design %q: %s is not a sample table column", d.Design, term)
		}
	}
	return nil
}

// DesignTerms lists the variables of a model formula such as
// "~ batch + condition" or "~ a*b + a:c". Intercept terms ("1", "0") are
// skipped. An empty formula has no variables.
func DesignTerms(design string) ([]string, error) {
	design = strings.TrimSpace(design)
	if design == "" {
		return nil, nil
	}
	if design[0] != '~' {
		return nil, errors.Wrapf(ErrValidation, "design %q: must start with '~'", design)
	}
	var (
		terms []string
		seen  = map[string]bool{}
	)
	for _, term := range strings.FieldsFunc(design[1:], func(r rune) bool {
		return r == '+' || r == '-' || r == '*' || r == ':'
	}) {
		term = strings.TrimSpace(term)
		switch {
		case term == "":
			return nil, errors.Wrapf(ErrValidation, "design %q: empty term", design)
		case term == "0" || term == "1":
			continue
		case strings.ContainsAny(term, " ~()"):
			return nil, errors.Wrapf(ErrValidation, "design %q: cannot parse %q", design, term)
		}
		if !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}
	return terms, nil
}
