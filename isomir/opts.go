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

import "github.com/grailbio/isomir/encoding/miraligner"

// Opts controls filtering and matrix construction.
type Opts struct {
	// Rate drops, within one sample, records whose share of their miRNA's reads
	// is below Rate. It is the legacy per-sample noise filter; set it to 0 to
	// leave abundance filtering to Pct, which looks at all samples together.
	Rate float64
	// CanonicalAdd clears 3' additions that contain anything but A and T(U).
	// The record itself is kept.
	CanonicalAdd bool
	// UniqueMism drops records with mismatches whose sequence is annotated
	// against more than one miRNA in the same sample.
	UniqueMism bool
	// UniqueHits drops records whose sequence is annotated against more than
	// one miRNA in the same sample.
	UniqueHits bool
	// MinHits is the minimum number of distinct isomiRs a sample must keep after
	// filtering. Samples with fewer than 2 records are always dropped.
	MinHits int

	// Pct is the minimum share of a miRNA's reads that an isomiR must reach in
	// at least one sample to stay in the table.
	Pct float64
	// Whitelist lists sequences that are never removed by the Pct filter.
	Whitelist []string
	// NSNV is the maximum number of substitutions an isomiR may carry. A
	// negative value disables the cap.
	NSNV int

	// Design is a model formula such as "~ condition". Every variable it names
	// must be a column of the sample table.
	Design string
	// FillMissingSamples adds all-zero columns for samples of the sample table
	// that have no data. Otherwise such samples are dropped from the dataset.
	FillMissingSamples bool

	// Parallelism bounds the number of samples processed at once. 0 means
	// runtime.NumCPU().
	Parallelism int
	// Read controls parsing of sample files.
	Read miraligner.ReadOpts
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	Rate:         0.2,
	CanonicalAdd: true,
	UniqueMism:   true,
	UniqueHits:   false,
	MinHits:      1,
	Pct:          0.1,
	NSNV:         1,
	Design:       "~1",
	Read:         miraligner.DefaultReadOpts,
}
