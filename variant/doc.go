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
Package variant describes a single isomiR form and its string key.

An isomiR is identified by the tuple

   (sequence, miRNA, mismatches, 3' addition, 5' trim, 3' trim)

and the key joins the six fields with ':', for example

   AAGCTT:mir-1:::0:0        reference form of mir-1
   AAGCTTA:mir-1:5T>C:A:0:0  one substitution and an "A" addition

Mismatches are written as <pos><observed>><reference>, comma separated. Trims
are "0" when the end matches the reference, upper case bases when the read
extends past the reference end, and lower case bases when the read is
shorter than the reference.
*/
package variant
