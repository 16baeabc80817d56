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
	"runtime"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/isomir/encoding/miraligner"
	"github.com/pkg/errors"
)

func (o *Opts) parallelism() int {
	if o.Parallelism > 0 {
		return o.Parallelism
	}
	return runtime.NumCPU()
}

// FromFiles reads one sample file per row of samples (paths[i] belongs to
// samples.Names[i]), filters and aggregates them, and builds the dataset with
// FromRawTable.
//
// A file that cannot be read is logged and its sample skipped; the run fails
// only if every sample is skipped. The returned Dataset.Raw is the aggregated
// table before CleanNoise and CapSNV.
func FromFiles(ctx context.Context, paths []string, samples *SampleTable, opts Opts) (*Dataset, error) {
	if len(paths) != len(samples.Names) {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d files for %d samples", len(paths), len(samples.Names))
	}
	var (
		sampleRecs = make([]SampleRecords, len(paths))
		unreadable = make([]bool, len(paths))
	)
	log.Printf("Start reading %d sample files", len(paths))
	err := traverse.Limit(opts.parallelism()).Each(len(paths), func(i int) error {
		sampleRecs[i].Sample = samples.Names[i]
		recs, err := miraligner.Read(ctx, paths[i], opts.Read)
		if err != nil {
			log.Error.Printf("sample %s: %v", samples.Names[i], err)
			unreadable[i] = true
			return nil
		}
		sampleRecs[i].Records = recs
		return nil
	})
	if err != nil {
		return nil, err
	}
	var readStats Stats
	for i, bad := range unreadable {
		if bad {
			readStats.UnreadableFiles = append(readStats.UnreadableFiles, paths[i])
		}
	}

	raw, stats, err := FilterAndAggregate(sampleRecs, opts)
	stats = stats.Merge(readStats)
	if err != nil {
		log.Printf("Stats: %v", stats)
		return nil, err
	}
	d, err := FromRawTable(raw, samples, opts)
	if err != nil {
		return nil, err
	}
	d.Stats = stats.Merge(d.Stats)
	log.Printf("Stats: %v", d.Stats)
	return d, nil
}

// screenSample filters one sample and decides whether it is kept.
func screenSample(s SampleRecords, opts Opts) (SampleRecords, Stats, bool, error) {
	stats := Stats{RecordsRead: len(s.Records)}
	if len(s.Records) < minSampleRecords {
		log.Printf("sample %s: %d records, skipping", s.Sample, len(s.Records))
		stats.SkippedSamples = []string{s.Sample}
		return s, stats, false, nil
	}
	recs, fstats := FilterSample(s.Records, opts)
	stats = stats.Merge(fstats)
	n, err := distinctKeys(recs)
	if err != nil {
		return s, stats, false, errors.Wrapf(err, "sample %s", s.Sample)
	}
	if len(recs) < minSampleRecords || n < opts.MinHits {
		log.Printf("sample %s: %d records, %d isomiRs after filtering, skipping", s.Sample, len(recs), n)
		stats.SkippedSamples = []string{s.Sample}
		return s, stats, false, nil
	}
	log.Debug.Printf("sample %s: %d of %d records remaining, %d isomiRs", s.Sample, len(recs), len(s.Records), n)
	return SampleRecords{Sample: s.Sample, Records: recs}, stats, true, nil
}

// FilterAndAggregate runs FilterSample on every sample in parallel, drops
// samples left with too few records, and aggregates the rest into a
// WideTable. Only the loss of every sample is an error (ErrNoValidSamples).
// The returned Stats are valid even when an error is returned.
func FilterAndAggregate(samples []SampleRecords, opts Opts) (*WideTable, Stats, error) {
	var (
		screened = make([]SampleRecords, len(samples))
		stats    = make([]Stats, len(samples))
		kept     = make([]bool, len(samples))
	)
	err := traverse.Limit(opts.parallelism()).Each(len(samples), func(i int) error {
		var err error
		screened[i], stats[i], kept[i], err = screenSample(samples[i], opts)
		return err
	})
	if err != nil {
		return nil, Stats{}, err
	}

	total := Stats{Samples: len(samples)}
	var survivors []SampleRecords
	for i := range samples {
		total = total.Merge(stats[i])
		if kept[i] {
			survivors = append(survivors, screened[i])
		}
	}
	log.Printf("Stats: %d of %d samples remaining after filtering, skipped: %v",
		len(survivors), len(samples), total.SkippedSamples)
	if len(survivors) == 0 {
		return nil, total, errors.Wrapf(ErrNoValidSamples, "all %d samples were dropped", len(samples))
	}
	t, err := Aggregate(survivors)
	if err != nil {
		return nil, total, err
	}
	return t, total, nil
}

// FromRawTable filters raw with CleanNoise and CapSNV and builds the dataset.
// raw is not modified and becomes Dataset.Raw, so the result can be filtered
// again later with different options.
func FromRawTable(raw *WideTable, samples *SampleTable, opts Opts) (*Dataset, error) {
	if err := raw.Validate(); err != nil {
		return nil, err
	}
	t, nNoise := CleanNoise(raw, opts.Pct, opts.Whitelist)
	log.Printf("Stats: %d of %d rows remaining after removing isomiRs below %v of their miRNA", len(t.Rows), len(raw.Rows), opts.Pct)
	t, nSNV := CapSNV(t, opts.NSNV)
	log.Printf("Stats: %d rows remaining after removing isomiRs with more than %d mismatches", len(t.Rows), opts.NSNV)
	if len(t.Rows) == 0 {
		return nil, errors.Wrapf(ErrEmptyAggregation, "all %d rows were filtered", len(raw.Rows))
	}
	m, st, err := BuildMatrix(t, samples, opts.FillMissingSamples)
	if err != nil {
		return nil, err
	}
	d, err := NewDataset(m, st, raw, opts.Design)
	if err != nil {
		return nil, err
	}
	d.Stats = Stats{Rows: len(raw.Rows), NoiseRows: nNoise, SNVRows: nSNV}
	return d, nil
}
