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
	"strings"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/isomir/variant"
	"github.com/pkg/errors"
)

// SampleRecords is the record set of one sample.
type SampleRecords struct {
	Sample  string
	Records []variant.Record
}

// aggEntry is a node of the aggregation tree: the running counts of one key.
type aggEntry struct {
	key    variant.Key
	counts []int64
}

func (e *aggEntry) Compare(c llrb.Comparable) int {
	return strings.Compare(string(e.key), string(c.(*aggEntry).key))
}

// aggregator sums (key, sample) counts and keeps keys ordered.
type aggregator struct {
	nSamples int
	tree     llrb.Tree
	probe    aggEntry
}

func (a *aggregator) add(key variant.Key, col int, n int64) {
	a.probe.key = key
	if e := a.tree.Get(&a.probe); e != nil {
		e.(*aggEntry).counts[col] += n
		return
	}
	e := &aggEntry{key: key, counts: make([]int64, a.nSamples)}
	e.counts[col] = n
	a.tree.Insert(e)
}

// table pivots the aggregated counts into a WideTable, decoding every key.
func (a *aggregator) table(samples []string) (*WideTable, error) {
	t := &WideTable{Samples: samples, Rows: make([]Row, 0, a.tree.Len())}
	var err error
	a.tree.Do(func(c llrb.Comparable) bool {
		e := c.(*aggEntry)
		var id variant.Identity
		if id, err = variant.Decode(e.key); err != nil {
			return true
		}
		t.Rows = append(t.Rows, Row{Key: e.key, ID: id, Counts: e.counts})
		return false
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// checkSamples verifies that sample names are unique.
func checkSamples(samples []string) error {
	seen := make(map[string]struct{}, len(samples))
	for _, s := range samples {
		if _, ok := seen[s]; ok {
			return errors.Wrapf(ErrShapeMismatch, "duplicate sample %q", s)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// Aggregate merges the record sets of all samples into one WideTable. Records
// with the same key in one sample are summed, and a sample with no record of
// a key gets a 0. Rows are sorted by key.
func Aggregate(samples []SampleRecords) (*WideTable, error) {
	names := make([]string, len(samples))
	for i, s := range samples {
		names[i] = s.Sample
	}
	if err := checkSamples(names); err != nil {
		return nil, err
	}
	a := aggregator{nSamples: len(samples)}
	for col, s := range samples {
		for i := range s.Records {
			rec := &s.Records[i]
			key, err := variant.Encode(rec.Identity)
			if err != nil {
				return nil, errors.Wrapf(err, "sample %s", s.Sample)
			}
			a.add(key, col, rec.Freq)
		}
	}
	if a.tree.Len() == 0 {
		return nil, errors.Wrapf(ErrEmptyAggregation, "%d samples, no records", len(samples))
	}
	return a.table(names)
}
