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

/*
bio-isomir builds an isomiR count matrix from per-sample miraligner output.

Each input file holds the isomiR annotations of one sample. The reads of every
sample are filtered, merged into one table keyed by isomiR, cleaned of isomiRs
that are a negligible share of their miRNA in every sample, and written as a
count matrix together with the unfiltered table, which can be filtered again
later with the refilter subcommand.

Sample usage:
bio-isomir files \
    -coldata coldata.tsv \
    -out output-prefix \
    sample1.mirna sample2.mirna sample3.mirna

bio-isomir refilter -coldata coldata.tsv -pct 0.2 -out output-prefix2 output-prefix.raw.rio

The coldata file is tab-separated, with one row per input file, in the same
order; its first column names the samples.
*/
package main
