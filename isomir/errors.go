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

import "github.com/pkg/errors"

var (
	// ErrNoValidSamples is returned when every sample was dropped by the
	// per-sample filter or could not be read.
	ErrNoValidSamples = errors.New("isomir: no valid samples")
	// ErrEmptyAggregation is returned when no row is left in a count table.
	ErrEmptyAggregation = errors.New("isomir: empty count table")
	// ErrShapeMismatch is returned when sample identifiers disagree between a
	// count table and a sample table, or between a table's header and rows.
	ErrShapeMismatch = errors.New("isomir: sample mismatch")
	// ErrValidation is returned when a dataset or table fails validation.
	ErrValidation = errors.New("isomir: invalid data")
)
