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

	gerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// SampleTable describes the samples of an experiment: one row per sample,
// named by Names, with arbitrary metadata columns.
type SampleTable struct {
	Columns []string
	Names   []string
	// Values[i][j] is the value of Columns[j] for sample Names[i].
	Values [][]string
}

// NewSampleTable creates a SampleTable. Sample names must be unique and every
// row must have one value per column.
func NewSampleTable(columns, names []string, values [][]string) (*SampleTable, error) {
	if len(values) != len(names) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d sample names, %d rows", len(names), len(values))
	}
	for i, row := range values {
		if len(row) != len(columns) {
			return nil, errors.Wrapf(ErrShapeMismatch, "sample %s: %d values for %d columns", names[i], len(row), len(columns))
		}
	}
	if err := checkSamples(names); err != nil {
		return nil, err
	}
	return &SampleTable{Columns: columns, Names: names, Values: values}, nil
}

// Index yields the row of the given sample, or -1.
func (s *SampleTable) Index(name string) int {
	for i, n := range s.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Column yields the values of the named column, or nil if there is no such
// column.
func (s *SampleTable) Column(name string) []string {
	for j, c := range s.Columns {
		if c == name {
			vals := make([]string, len(s.Names))
			for i := range s.Values {
				vals[i] = s.Values[i][j]
			}
			return vals
		}
	}
	return nil
}

// Subset creates a table with the given samples, in the given order. Every
// name must exist in s.
func (s *SampleTable) Subset(names []string) *SampleTable {
	out := &SampleTable{Columns: s.Columns, Names: names, Values: make([][]string, len(names))}
	for i, name := range names {
		out.Values[i] = s.Values[s.Index(name)]
	}
	return out
}

// ReadSampleTable reads a tab-separated sample table. The first column holds
// the sample names. The header may either name the first column or, as R's
// write.table does, omit it.
func ReadSampleTable(ctx context.Context, path string) (st *SampleTable, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, gerrors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	if st, err = ParseSampleTable(in.Reader(ctx)); err != nil {
		return nil, gerrors.E(err, path)
	}
	return st, nil
}

// ParseSampleTable parses a sample table from r. See ReadSampleTable.
func ParseSampleTable(r io.Reader) (*SampleTable, error) {
	c := newRowReader(r).Reader
	header, err := c.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrShapeMismatch, "empty sample table")
		}
		return nil, err
	}
	var (
		names  []string
		values [][]string
	)
	for {
		row, err := c.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		names = append(names, row[0])
		values = append(values, row[1:])
	}
	columns := header
	if len(values) == 0 || len(values[0]) != len(header) {
		columns = header[1:]
	}
	return NewSampleTable(columns, names, values)
}

// Write writes the table with a full header; the first column is named
// "sample".
func (s *SampleTable) Write(w io.Writer) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("sample")
	for _, c := range s.Columns {
		tw.WriteString(c)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i, name := range s.Names {
		tw.WriteString(name)
		for _, v := range s.Values[i] {
			tw.WriteString(v)
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
