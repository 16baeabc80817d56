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

// Package miraligner reads and writes per-sample isomiR annotation tables in
// the tab-separated layout produced by miraligner/seqbuster.
//
// A file either has a header naming its columns, in which case the columns
// seq, mir, freq, mism, add, t5 and t3 are located by name, or it is read
// positionally in the miraligner column order
//
//   seq name freq mir start end mism add t5 t3 [s5 s3 DB ambiguity]
package miraligner

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/isomir/variant"
	"v.io/x/lib/vlog"
)

// ReadOpts controls how a sample file is parsed.
type ReadOpts struct {
	// Header says the first line after the skipped ones names the columns.
	Header bool
	// Skip is the number of leading lines discarded before parsing. When
	// Header is false, at least one line is skipped.
	Skip int
}

// DefaultReadOpts is the default ReadOpts.
var DefaultReadOpts = ReadOpts{Header: true}

// namedRow is a row of a file with a header. Other columns are ignored.
type namedRow struct {
	Seq  string `tsv:"seq"`
	Mir  string `tsv:"mir"`
	Freq int64  `tsv:"freq"`
	Mism string `tsv:"mism"`
	Add  string `tsv:"add"`
	T5   string `tsv:"t5"`
	T3   string `tsv:"t3"`
}

// positionalRow is a row of a headerless file. Trailing columns are ignored.
type positionalRow struct {
	Seq   string
	Name  string
	Freq  int64
	Mir   string
	Start string
	End   string
	Mism  string
	Add   string
	T5    string
	T3    string
}

// Read parses the sample file at path. The file may be compressed; the
// format is guessed from the path suffix.
func Read(ctx context.Context, path string, opts ReadOpts) (recs []variant.Record, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	if recs, err = ReadRecords(r, opts); err != nil {
		return nil, errors.E(err, path)
	}
	vlog.VI(1).Infof("%s: read %d records", path, len(recs))
	return recs, nil
}

// ReadRecords parses a sample table from r. Rows with freq <= 0 are dropped
// before their other fields are looked at.
func ReadRecords(r io.Reader, opts ReadOpts) ([]variant.Record, error) {
	skip := opts.Skip
	if !opts.Header && skip < 1 {
		skip = 1
	}
	br := bufio.NewReaderSize(r, 64<<10)
	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
	}
	tr := tsv.NewReader(br)
	line := skip
	if opts.Header {
		tr.HasHeaderRow = true
		tr.UseHeaderNames = true
		line++
	}

	var recs []variant.Record
	for {
		line++
		var (
			seq, mir, mism, add, t5, t3 string
			freq                        int64
		)
		if opts.Header {
			var row namedRow
			if err := tr.Read(&row); err != nil {
				if err == io.EOF {
					break
				}
				return nil, fmt.Errorf("line %d: %v", line, err)
			}
			seq, mir, freq, mism, add, t5, t3 = row.Seq, row.Mir, row.Freq, row.Mism, row.Add, row.T5, row.T3
		} else {
			var row positionalRow
			if err := tr.Read(&row); err != nil {
				if err == io.EOF {
					break
				}
				return nil, fmt.Errorf("line %d: %v", line, err)
			}
			seq, mir, freq, mism, add, t5, t3 = row.Seq, row.Mir, row.Freq, row.Mism, row.Add, row.T5, row.T3
		}
		if freq <= 0 {
			continue
		}
		rec, err := newRecord(seq, mir, freq, mism, add, t5, t3)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func newRecord(seq, mir string, freq int64, mism, add, t5, t3 string) (variant.Record, error) {
	id, err := variant.ParseIdentity(seq, mir, mism, add, t5, t3)
	return variant.Record{Identity: id, Freq: freq}, err
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// Write writes recs with a header row, in the layout Read accepts with
// DefaultReadOpts. Empty fields are written as "0".
func Write(w io.Writer, recs []variant.Record) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("seq\tmir\tfreq\tmism\tadd\tt5\tt3")
	if err := tw.EndLine(); err != nil {
		return err
	}
	for _, rec := range recs {
		tw.WriteString(rec.Seq)
		tw.WriteString(rec.MirnaID)
		tw.WriteInt64(rec.Freq)
		tw.WriteString(orZero(variant.FormatMismatches(rec.Mismatches)))
		tw.WriteString(orZero(rec.Addition))
		tw.WriteString(rec.Trim5.String())
		tw.WriteString(rec.Trim3.String())
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
