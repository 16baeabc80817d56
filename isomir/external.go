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
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/compress"
	gerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/isomir/variant"
	"github.com/pkg/errors"
)

// IdentityColumns are the columns of a count table that hold the isomiR
// identity. Every other column is a sample.
var IdentityColumns = []string{"seq", "mir", "mism", "add", "t5", "t3"}

// ExternalTable is a count table in the WideTable TSV schema, as produced by
// WriteTableTSV or by another annotation tool. It is kept as text until
// WideTable checks it.
type ExternalTable struct {
	Header []string
	Rows   [][]string
}

// ReadExternalTable reads a tab-separated count table. The file may be
// compressed.
func ReadExternalTable(ctx context.Context, path string) (ext *ExternalTable, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, gerrors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	if ext, err = ParseExternalTable(r); err != nil {
		return nil, gerrors.E(err, path)
	}
	return ext, nil
}

// newRowReader creates a reader of untyped rows with a variable number of
// fields. Lines starting with '#' are skipped.
func newRowReader(r io.Reader) *tsv.Reader {
	tr := tsv.NewReader(r)
	tr.ReuseRecord = false
	tr.Comment = '#'
	tr.LazyQuotes = true
	tr.FieldsPerRecord = -1
	return tr
}

// ParseExternalTable splits a tab-separated table into its header and rows.
// Lines starting with '#' are skipped.
func ParseExternalTable(r io.Reader) (*ExternalTable, error) {
	c := newRowReader(r).Reader
	ext := &ExternalTable{}
	var err error
	if ext.Header, err = c.Read(); err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrValidation, "empty count table")
		}
		return nil, err
	}
	for {
		row, err := c.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		ext.Rows = append(ext.Rows, row)
	}
	return ext, nil
}

// SampleNames lists the sample columns of the table, in order.
func (e *ExternalTable) SampleNames() []string {
	isIdentity := make([]bool, len(e.Header))
	for j, h := range e.Header {
		for _, name := range IdentityColumns {
			if h == name {
				isIdentity[j] = true
			}
		}
	}
	names, _ := e.samples(isIdentity)
	return names
}

func (e *ExternalTable) samples(isIdentity []bool) (names []string, cols []int) {
	for j, h := range e.Header {
		if !isIdentity[j] {
			names = append(names, h)
			cols = append(cols, j)
		}
	}
	return
}

// WideTable checks the table and converts it. The identity columns may appear
// in any order; the remaining columns, in order, are the samples and must hold
// nonnegative integers. Rows with the same identity are summed.
func (e *ExternalTable) WideTable() (*WideTable, error) {
	colIdx := make(map[string]int, len(e.Header))
	for j, h := range e.Header {
		colIdx[h] = j
	}
	var (
		idCols     [6]int
		isIdentity = make([]bool, len(e.Header))
	)
	for i, name := range IdentityColumns {
		j, ok := colIdx[name]
		if !ok {
			return nil, errors.Wrapf(ErrValidation, "count table has no %q column", name)
		}
		idCols[i] = j
		isIdentity[j] = true
	}
	samples, sampleCols := e.samples(isIdentity)
	if len(samples) == 0 {
		return nil, errors.Wrap(ErrValidation, "count table has no sample column")
	}
	if err := checkSamples(samples); err != nil {
		return nil, err
	}

	a := aggregator{nSamples: len(samples)}
	for i, row := range e.Rows {
		rowNum := i + 1
		if len(row) != len(e.Header) {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d: %d fields, header has %d", rowNum, len(row), len(e.Header))
		}
		id, err := variant.ParseIdentity(row[idCols[0]], row[idCols[1]], row[idCols[2]], row[idCols[3]], row[idCols[4]], row[idCols[5]])
		if err != nil {
			return nil, errors.Wrapf(ErrValidation, "row %d: %v", rowNum, err)
		}
		key, err := variant.Encode(id)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", rowNum)
		}
		for k, j := range sampleCols {
			n, err := strconv.ParseInt(row[j], 10, 64)
			if err != nil || n < 0 {
				return nil, errors.Wrapf(ErrValidation, "row %d: sample %s: count %q is not a nonnegative integer", rowNum, samples[k], row[j])
			}
			a.add(key, k, n)
		}
	}
	if a.tree.Len() == 0 {
		return nil, errors.Wrap(ErrEmptyAggregation, "count table has no rows")
	}
	return a.table(samples)
}

// FromExternalTable checks ext, converts it to a WideTable and builds the
// dataset with FromRawTable.
func FromExternalTable(ext *ExternalTable, samples *SampleTable, opts Opts) (*Dataset, error) {
	t, err := ext.WideTable()
	if err != nil {
		return nil, err
	}
	return FromRawTable(t, samples, opts)
}
