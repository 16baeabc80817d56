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

	"github.com/grailbio/base/log"
)

// Write writes the dataset as a set of files named after prefix:
//
//   <prefix>.counts.tsv   the filtered count matrix (see Matrix.WriteTSV)
//   <prefix>.coldata.tsv  the sample table of the matrix columns
//   <prefix>.raw.rio      the unfiltered table, for FromRawTable
//   <prefix>.summary.tsv  isomiR class fractions of the unfiltered table
//
// If gzip is set, the count matrix is written to <prefix>.counts.tsv.gz.
func (d *Dataset) Write(ctx context.Context, prefix string, gzip bool) error {
	countsPath := prefix + ".counts.tsv"
	if gzip {
		countsPath += ".gz"
	}
	if err := WriteFile(ctx, countsPath, d.Counts.WriteTSV); err != nil {
		return err
	}
	if err := WriteFile(ctx, prefix+".coldata.tsv", d.Samples.Write); err != nil {
		return err
	}
	if err := WriteTableRio(ctx, prefix+".raw.rio", d.Raw); err != nil {
		return err
	}
	summary := Summarize(d.Raw)
	if err := WriteFile(ctx, prefix+".summary.tsv", func(w io.Writer) error {
		return WriteSummaryTSV(w, summary)
	}); err != nil {
		return err
	}
	nRows, nCols := d.Counts.Counts.Dims()
	log.Printf("Wrote %d isomiRs x %d samples to %s", nRows, nCols, countsPath)
	return nil
}
