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
	"github.com/grailbio/isomir/variant"
)

// minSampleRecords is the number of records below which a sample carries too
// little information to be kept.
const minSampleRecords = 2

// canonicalAddition reports whether a 3' addition consists of A and T (or U)
// only.
func canonicalAddition(add string) bool {
	for i := 0; i < len(add); i++ {
		switch add[i] {
		case 'A', 'T', 'U':
		default:
			return false
		}
	}
	return true
}

// mirnasPerSeq counts the distinct miRNAs each sequence is annotated against.
func mirnasPerSeq(recs []variant.Record) map[string]int {
	type pair struct{ seq, mir string }
	seen := make(map[pair]struct{}, len(recs))
	n := make(map[string]int, len(recs))
	for i := range recs {
		p := pair{recs[i].Seq, recs[i].MirnaID}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		n[p.seq]++
	}
	return n
}

func dropIf(recs []variant.Record, drop func(r *variant.Record) bool) []variant.Record {
	k := 0
	for i := range recs {
		if drop(&recs[i]) {
			continue
		}
		recs[k] = recs[i]
		k++
	}
	return recs[:k]
}

// FilterSample applies the per-sample rules to the records of one sample, in
// this order:
//
//   - Rate: drop records below opts.Rate of their miRNA's reads, if Rate > 0.
//   - CanonicalAdd: clear 3' additions with bases other than A and T(U).
//   - UniqueMism: drop records with mismatches whose sequence maps to more than
//     one miRNA.
//   - UniqueHits: drop records whose sequence maps to more than one miRNA.
//
// Both ambiguity rules count miRNAs on the records left by Rate.
//
// recs is not modified. The returned Stats counts the dropped records and
// cleared additions.
func FilterSample(recs []variant.Record, opts Opts) ([]variant.Record, Stats) {
	out := make([]variant.Record, 0, len(recs))
	if opts.Rate > 0 {
		totals := map[string]int64{}
		for i := range recs {
			totals[recs[i].MirnaID] += recs[i].Freq
		}
		for _, rec := range recs {
			if total := totals[rec.MirnaID]; total > 0 && float64(rec.Freq)/float64(total) < opts.Rate {
				continue
			}
			out = append(out, rec)
		}
	} else {
		out = append(out, recs...)
	}

	stats := Stats{}
	if opts.CanonicalAdd {
		for i := range out {
			if out[i].Addition != "" && !canonicalAddition(out[i].Addition) {
				out[i].Addition = ""
				stats.AdditionsCleared++
			}
		}
	}
	if opts.UniqueMism || opts.UniqueHits {
		hits := mirnasPerSeq(out)
		out = dropIf(out, func(r *variant.Record) bool {
			if hits[r.Seq] < 2 {
				return false
			}
			return opts.UniqueHits || len(r.Mismatches) > 0
		})
	}
	stats.RecordsFiltered = len(recs) - len(out)
	return out, stats
}

// distinctKeys counts the distinct isomiRs among recs.
func distinctKeys(recs []variant.Record) (int, error) {
	keys := make(map[variant.Key]struct{}, len(recs))
	for i := range recs {
		k, err := variant.Encode(recs[i].Identity)
		if err != nil {
			return 0, err
		}
		keys[k] = struct{}{}
	}
	return len(keys), nil
}
