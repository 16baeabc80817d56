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
Package isomir turns per-sample isomiR annotation tables into a filtered
sample-by-isomiR count matrix.

The pipeline is

   sample files --FilterSample (per sample, in parallel)--> Aggregate
     --> WideTable (raw) --CleanNoise--> CapSNV --> BuildMatrix --> Dataset

FromFiles runs all of it. FromRawTable starts from a WideTable produced by an
earlier run (see WriteTableRio, WriteTableTSV), so a dataset can be re-filtered
with different Opts without touching the sample files again.
FromExternalTable accepts a table produced by another annotation tool once it
has been checked against the WideTable schema.

Collapse and Summarize report a WideTable at the miRNA level.
*/
package isomir
