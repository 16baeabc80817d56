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

// Package fasta reads small sequence files, such as a list of mature miRNA
// sequences, into memory. For example:
//
// >hsa-let-7a-5p MIMAT0000062
// UGAGGUAGUAGGUUGUAUAGUU
// >hsa-miR-21-5p
// UAGCUUAUCAGACUGAUGUUGA
//
// Sequence names are the characters after '>' up to the first space. A file
// whose first line does not start with '>' is read as one sequence per line,
// with no names.
package fasta

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	gerrors "github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
)

// Record is one named sequence.
type Record struct {
	Name string
	Seq  string
}

// Opts controls how sequences are normalized.
type Opts struct {
	// DNA converts U to T, so that RNA sequences match reads annotated in the
	// DNA alphabet.
	DNA bool
}

func normalize(seq string, opts Opts) string {
	seq = strings.ToUpper(seq)
	if opts.DNA {
		seq = strings.Replace(seq, "U", "T", -1)
	}
	return seq
}

// Parse reads all the records of r. Sequences are upper-cased. Sequence
// lines of one record are concatenated.
func Parse(r io.Reader, opts Opts) ([]Record, error) {
	var (
		recs    []Record
		scanner = bufio.NewScanner(r)
		named   bool
		name    string
		seq     strings.Builder
		lineNum int
	)
	flush := func(name string) {
		recs = append(recs, Record{Name: name, Seq: normalize(seq.String(), opts)})
		seq.Reset()
	}
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if named {
				if seq.Len() == 0 {
					return nil, errors.Errorf("line %d: sequence %s is empty", lineNum, name)
				}
				flush(name)
			} else if len(recs) > 0 {
				return nil, errors.Errorf("line %d: header in a file of bare sequences", lineNum)
			}
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, errors.Errorf("line %d: sequence has no name", lineNum)
			}
			named, name = true, fields[0]
			continue
		}
		seq.WriteString(line)
		if !named {
			flush("")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "couldn't read FASTA data")
	}
	if named {
		if seq.Len() == 0 {
			return nil, errors.Errorf("sequence %s is empty", name)
		}
		flush(name)
	}
	return recs, nil
}

// Read reads the records of the file at path. The file may be compressed.
func Read(ctx context.Context, path string, opts Opts) (recs []Record, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, gerrors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	if recs, err = Parse(r, opts); err != nil {
		return nil, gerrors.E(err, path)
	}
	return recs, nil
}

// Seqs lists the sequences of recs.
func Seqs(recs []Record) []string {
	seqs := make([]string, len(recs))
	for i, r := range recs {
		seqs[i] = r.Seq
	}
	return seqs
}
