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
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/isomir/variant"
	"github.com/klauspost/compress/gzip"
)

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// WriteTableTSV writes t with the columns seq, mir, mism, add, t5, t3
// followed by one column per sample. Empty mism and add fields are written as
// "0".
func WriteTableTSV(w io.Writer, t *WideTable) error {
	tw := tsv.NewWriter(w)
	for _, c := range IdentityColumns {
		tw.WriteString(c)
	}
	for _, s := range t.Samples {
		tw.WriteString(s)
	}
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i := range t.Rows {
		row := &t.Rows[i]
		tw.WriteString(row.ID.Seq)
		tw.WriteString(row.ID.MirnaID)
		tw.WriteString(orZero(variant.FormatMismatches(row.ID.Mismatches)))
		tw.WriteString(orZero(row.ID.Addition))
		tw.WriteString(row.ID.Trim5.String())
		tw.WriteString(row.ID.Trim3.String())
		for _, n := range row.Counts {
			tw.WriteInt64(n)
		}
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// ReadTableTSV reads a table written by WriteTableTSV.
func ReadTableTSV(r io.Reader) (*WideTable, error) {
	ext, err := ParseExternalTable(r)
	if err != nil {
		return nil, err
	}
	return ext.WideTable()
}

// WriteTable writes t to path. A path ending in ".rio" gets a recordio dump,
// anything else a TSV file, gzipped if the path ends in ".gz".
func WriteTable(ctx context.Context, path string, t *WideTable) error {
	if strings.HasSuffix(path, ".rio") {
		return WriteTableRio(ctx, path, t)
	}
	return WriteFile(ctx, path, func(w io.Writer) error { return WriteTableTSV(w, t) })
}

// ReadTable reads a table written by WriteTable.
func ReadTable(ctx context.Context, path string) (*WideTable, error) {
	if strings.HasSuffix(path, ".rio") {
		return ReadTableRio(ctx, path)
	}
	ext, err := ReadExternalTable(ctx, path)
	if err != nil {
		return nil, err
	}
	t, err := ext.WideTable()
	if err != nil {
		return nil, errors.E(err, path)
	}
	return t, nil
}

// WriteFile creates path and runs write on it, through a gzip writer if the
// path ends in ".gz".
func WriteFile(ctx context.Context, path string, write func(io.Writer) error) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	var e errors.Once
	w := out.Writer(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(w)
		e.Set(write(gz))
		e.Set(gz.Close())
	} else {
		e.Set(write(w))
	}
	e.Set(out.Close(ctx))
	if err := e.Err(); err != nil {
		return errors.E(err, path)
	}
	return nil
}
