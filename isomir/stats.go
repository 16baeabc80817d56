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
	"fmt"
	"strings"
)

// Stats summarizes a pipeline run. It is returned with every Dataset, and
// logged even when the run succeeds.
type Stats struct {
	// Samples is the number of samples given to the pipeline.
	Samples int
	// SkippedSamples lists samples dropped before aggregation, because their
	// file could not be read or too few records survived filtering.
	SkippedSamples []string
	// UnreadableFiles lists input files that could not be read.
	UnreadableFiles []string
	// RecordsRead is the # of records with freq > 0 read from sample files.
	RecordsRead int
	// RecordsFiltered is the # of records dropped by the per-sample filter.
	RecordsFiltered int
	// AdditionsCleared is the # of records whose non-canonical 3' addition was
	// cleared.
	AdditionsCleared int
	// Rows is the # of rows in the raw wide table.
	Rows int
	// NoiseRows is the # of rows removed by CleanNoise.
	NoiseRows int
	// SNVRows is the # of rows removed by CapSNV.
	SNVRows int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Samples += o.Samples
	s.SkippedSamples = append(append([]string(nil), s.SkippedSamples...), o.SkippedSamples...)
	s.UnreadableFiles = append(append([]string(nil), s.UnreadableFiles...), o.UnreadableFiles...)
	s.RecordsRead += o.RecordsRead
	s.RecordsFiltered += o.RecordsFiltered
	s.AdditionsCleared += o.AdditionsCleared
	s.Rows += o.Rows
	s.NoiseRows += o.NoiseRows
	s.SNVRows += o.SNVRows
	return s
}

// NumSkipped is the number of samples dropped before aggregation.
func (s Stats) NumSkipped() int { return len(s.SkippedSamples) }

func (s Stats) String() string {
	skipped := "none"
	if len(s.SkippedSamples) > 0 {
		skipped = strings.Join(s.SkippedSamples, ",")
	}
	return fmt.Sprintf("samples: %d, skipped: %d (%s), unreadable files: %d, records: %d, filtered: %d, additions cleared: %d, rows: %d, noise rows: %d, snv rows: %d",
		s.Samples, len(s.SkippedSamples), skipped, len(s.UnreadableFiles), s.RecordsRead,
		s.RecordsFiltered, s.AdditionsCleared, s.Rows, s.NoiseRows, s.SNVRows)
}
