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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Matrix is the numeric isomiR x sample count matrix with its row annotation.
type Matrix struct {
	// Counts has one row per isomiR and one column per sample.
	Counts *mat.Dense
	// RowKeys and RowData annotate the rows of Counts.
	RowKeys []variant.Key
	RowData []variant.Identity
	// Samples names the columns of Counts.
	Samples []string
}

// BuildMatrix converts t into a Matrix whose columns follow the order of
// samples. Every sample of t must be in samples, or ErrShapeMismatch is
// returned. Samples with no column in t get an all-zero column if fillMissing
// is set, and are left out otherwise; the returned SampleTable lists the
// matrix columns in order.
func BuildMatrix(t *WideTable, samples *SampleTable, fillMissing bool) (*Matrix, *SampleTable, error) {
	var unknown []string
	for _, s := range t.Samples {
		if samples.Index(s) < 0 {
			unknown = append(unknown, s)
		}
	}
	if len(unknown) > 0 {
		return nil, nil, errors.Wrapf(ErrShapeMismatch, "samples %v are not in the sample table", unknown)
	}
	if len(t.Rows) == 0 {
		return nil, nil, errors.Wrap(ErrEmptyAggregation, "no rows to build a matrix from")
	}

	var (
		names []string
		cols  []int // cols[j] is the column of t for matrix column j, or -1.
	)
	for _, s := range samples.Names {
		col := t.SampleIndex(s)
		if col < 0 && !fillMissing {
			continue
		}
		names = append(names, s)
		cols = append(cols, col)
	}
	if len(names) == 0 {
		return nil, nil, errors.Wrap(ErrShapeMismatch, "no sample in common")
	}

	m := &Matrix{
		Counts:  mat.NewDense(len(t.Rows), len(names), nil),
		RowKeys: make([]variant.Key, len(t.Rows)),
		RowData: make([]variant.Identity, len(t.Rows)),
		Samples: names,
	}
	for i := range t.Rows {
		row := &t.Rows[i]
		m.RowKeys[i] = row.Key
		m.RowData[i] = row.ID
		for j, col := range cols {
			if col >= 0 {
				m.Counts.Set(i, j, float64(row.Counts[col]))
			}
		}
	}
	return m, samples.Subset(names), nil
}

// WriteTSV writes the matrix with a header row. The first column holds the
// isomiR key.
func (m *Matrix) WriteTSV(w io.Writer) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("isomir")
	for _, s := range m.Samples {
		tw.WriteString(s)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	nRows, nCols := m.Counts.Dims()
	for i := 0; i < nRows; i++ {
		tw.WriteString(string(m.RowKeys[i]))
		for j := 0; j < nCols; j++ {
			tw.WriteInt64(int64(m.Counts.At(i, j)))
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
