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
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// CleanNoise removes isomiRs whose reads are negligible next to the rest of
// their miRNA. Within each miRNA and each sample, a row's share is its count
// divided by the miRNA's total count in that sample (0 if the total is 0). A
// row is removed iff its share is below pct in every sample where its count
// is nonzero and its sequence is not in whitelist.
//
// Removing rows only raises the shares of the remaining ones, so applying
// CleanNoise twice with the same pct removes nothing more.
//
// It returns the filtered table and the number of rows removed.
func CleanNoise(t *WideTable, pct float64, whitelist []string) (*WideTable, int) {
	nRows, nSamples := len(t.Rows), len(t.Samples)

	groups := make([]int, nRows)
	groupIdx := map[string]int{}
	for i := range t.Rows {
		mir := t.Rows[i].ID.MirnaID
		g, ok := groupIdx[mir]
		if !ok {
			g = len(groupIdx)
			groupIdx[mir] = g
		}
		groups[i] = g
	}
	totals := make([][]int64, len(groupIdx))
	for g := range totals {
		totals[g] = make([]int64, nSamples)
	}
	for i := range t.Rows {
		for col, n := range t.Rows[i].Counts {
			totals[groups[i]][col] += n
		}
	}

	// passes[col][i] is true if row i reaches pct in sample col. The table is
	// only read here; each job owns one column of passes.
	passes := make([][]bool, nSamples)
	err := traverse.Each(nSamples, func(col int) error {
		p := make([]bool, nRows)
		for i := range t.Rows {
			n := t.Rows[i].Counts[col]
			if n == 0 {
				continue
			}
			var share float64
			if total := totals[groups[i]][col]; total > 0 {
				share = float64(n) / float64(total)
			}
			p[i] = share >= pct
		}
		passes[col] = p
		return nil
	})
	if err != nil {
		log.Panic(err)
	}

	white := make(map[string]struct{}, len(whitelist))
	for _, seq := range whitelist {
		white[seq] = struct{}{}
	}
	keep := make([]bool, nRows)
	nRemoved := 0
	for i := range t.Rows {
		if _, ok := white[t.Rows[i].ID.Seq]; ok {
			keep[i] = true
			continue
		}
		for col := range passes {
			if passes[col][i] {
				keep[i] = true
				break
			}
		}
		if !keep[i] {
			nRemoved++
		}
	}
	return t.filter(keep), nRemoved
}
