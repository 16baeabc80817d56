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

package miraligner

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/isomir/variant"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerFile = `seq	name	freq	mir	start	end	mism	add	t5	t3	s5	s3	DB	ambiguity
TGAGGTAGTAGGTTGTATAGTT	seq_1_x10	10	hsa-let-7a-5p	6	27	0	0	0	0	0	0	miRNA	1
TGAGGTAGTAGGTTGTATAGTTAA	seq_2_x3	3	hsa-let-7a-5p	6	27	0	AA	0	0	0	0	miRNA	1
TGAGGTAGTAGGTTGTATAGT	seq_3_x0	0	hsa-let-7a-5p	6	26	0	0	0	t	0	0	miRNA	1
GAGGTAGTAGGTTGTATAGTT	seq_4_x2	2	hsa-let-7a-5p	7	27	8GT	0	t	0	0	0	miRNA	1
`

func letSeven() []variant.Record {
	return []variant.Record{
		{Identity: variant.Identity{Seq: "TGAGGTAGTAGGTTGTATAGTT", MirnaID: "hsa-let-7a-5p"}, Freq: 10},
		{Identity: variant.Identity{Seq: "TGAGGTAGTAGGTTGTATAGTTAA", MirnaID: "hsa-let-7a-5p", Addition: "AA"}, Freq: 3},
		{Identity: variant.Identity{
			Seq:        "GAGGTAGTAGGTTGTATAGTT",
			MirnaID:    "hsa-let-7a-5p",
			Mismatches: []variant.Mismatch{{Pos: 8, Observed: 'G', Reference: 'T'}},
			Trim5:      variant.Trim{Dir: variant.Deletion, Nts: "T"},
		}, Freq: 2},
	}
}

func TestReadHeader(t *testing.T) {
	recs, err := ReadRecords(strings.NewReader(headerFile), DefaultReadOpts)
	require.NoError(t, err)
	expect.EQ(t, recs, letSeven())
}

func TestReadPositional(t *testing.T) {
	// Without a header the first line is skipped and columns are positional.
	recs, err := ReadRecords(strings.NewReader(headerFile), ReadOpts{Header: false})
	require.NoError(t, err)
	expect.EQ(t, recs, letSeven())

	// An explicit skip drops more lines.
	recs, err = ReadRecords(strings.NewReader(headerFile), ReadOpts{Header: false, Skip: 2})
	require.NoError(t, err)
	expect.EQ(t, recs, letSeven()[1:])
}

func TestReadSkipBeforeHeader(t *testing.T) {
	recs, err := ReadRecords(strings.NewReader("# miraligner 3.2\n"+headerFile), ReadOpts{Header: true, Skip: 1})
	require.NoError(t, err)
	expect.EQ(t, recs, letSeven())
}

func TestReadMalformed(t *testing.T) {
	bad := "seq\tmir\tfreq\tmism\tadd\tt5\tt3\nACGT\tmir-1\t3\tXY\t0\t0\t0\n"
	_, err := ReadRecords(strings.NewReader(bad), DefaultReadOpts)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	// The same row is fine when its count is zero.
	zero := strings.Replace(bad, "\t3\t", "\t0\t", 1)
	recs, err := ReadRecords(strings.NewReader(zero), DefaultReadOpts)
	assert.NoError(t, err)
	assert.Len(t, recs, 0)
}

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, letSeven()))
	recs, err := ReadRecords(&buf, DefaultReadOpts)
	require.NoError(t, err)
	expect.EQ(t, recs, letSeven())
}

func TestReadGzipFile(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(headerFile))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	path := filepath.Join(tmpdir, "sample1.mirna.gz")
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0600))

	recs, err := Read(context.Background(), path, DefaultReadOpts)
	require.NoError(t, err)
	expect.EQ(t, recs, letSeven())

	_, err = Read(context.Background(), filepath.Join(tmpdir, "missing.mirna"), DefaultReadOpts)
	assert.Error(t, err)
}
