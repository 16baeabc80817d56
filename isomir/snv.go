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

// CapSNV removes rows with more than n substitutions. Trims and additions are
// not counted. A negative n keeps every row.
//
// It returns the filtered table and the number of rows removed.
func CapSNV(t *WideTable, n int) (*WideTable, int) {
	if n < 0 {
		return t, 0
	}
	keep := make([]bool, len(t.Rows))
	nRemoved := 0
	for i := range t.Rows {
		keep[i] = len(t.Rows[i].ID.Mismatches) <= n
		if !keep[i] {
			nRemoved++
		}
	}
	return t.filter(keep), nRemoved
}
