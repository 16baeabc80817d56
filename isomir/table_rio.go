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
	"bytes"
	"context"
	"encoding/gob"

	"github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/grailbio/isomir/variant"
)

const (
	// <tableVersionHeader, tableVersion> is stored in a recordio header.
	tableVersionHeader = "isomirtable"
	tableVersion       = "ISOMIR_TABLE_V1"
)

// rioRow is one recordio record.
type rioRow struct {
	Key    string
	Counts []int64
}

// rioTrailer is stored in the recordio trailer.
type rioTrailer struct {
	Samples []string
	NumRows int
	// Fingerprint is keysFingerprint of the row keys, in order.
	Fingerprint uint64
}

func init() {
	recordiozstd.Init()
}

func keysFingerprint(h uint64, key variant.Key) uint64 {
	return farm.Hash64WithSeed([]byte(key), h)
}

// WriteTableRio writes t to path as a zstd-compressed recordio file, one
// record per row.
func WriteTableRio(ctx context.Context, path string, t *WideTable) error {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(tableVersionHeader, tableVersion)
	w.AddHeader(recordio.KeyTrailer, true)

	var (
		e  errors.Once
		fp uint64
	)
	for i := range t.Rows {
		row := &t.Rows[i]
		var b bytes.Buffer
		if err := gob.NewEncoder(&b).Encode(rioRow{Key: string(row.Key), Counts: row.Counts}); err != nil {
			e.Set(err)
			break
		}
		w.Append(b.Bytes())
		fp = keysFingerprint(fp, row.Key)
	}
	var b bytes.Buffer
	e.Set(gob.NewEncoder(&b).Encode(rioTrailer{Samples: t.Samples, NumRows: len(t.Rows), Fingerprint: fp}))
	w.SetTrailer(b.Bytes())
	e.Set(w.Finish())
	e.Set(out.Close(ctx))
	if err := e.Err(); err != nil {
		return errors.E(err, path)
	}
	return nil
}

// ReadTableRio reads a table written by WriteTableRio. It fails if the file
// version is unknown, or if the rows do not match the trailer.
func ReadTableRio(ctx context.Context, path string) (t *WideTable, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	version := ""
	for _, kv := range r.Header() {
		if kv.Key == tableVersionHeader {
			version, _ = kv.Value.(string)
		}
	}
	if version != tableVersion {
		return nil, errors.E(errors.Invalid, path, "table version", version, "expect", tableVersion)
	}
	var trailer rioTrailer
	if err := gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&trailer); err != nil {
		return nil, errors.E(err, path, "trailer")
	}

	t = &WideTable{Samples: trailer.Samples}
	var fp uint64
	for r.Scan() {
		var row rioRow
		if err := gob.NewDecoder(bytes.NewReader(r.Get().([]byte))).Decode(&row); err != nil {
			return nil, errors.E(err, path, "row", len(t.Rows))
		}
		key := variant.Key(row.Key)
		id, err := variant.Decode(key)
		if err != nil {
			return nil, errors.E(err, path)
		}
		if row.Counts == nil {
			row.Counts = make([]int64, len(t.Samples))
		}
		t.Rows = append(t.Rows, Row{Key: key, ID: id, Counts: row.Counts})
		fp = keysFingerprint(fp, key)
	}
	if err := r.Err(); err != nil {
		return nil, errors.E(err, path)
	}
	if len(t.Rows) != trailer.NumRows || fp != trailer.Fingerprint {
		return nil, errors.E(errors.Integrity, path, "rows do not match trailer")
	}
	if err := t.Validate(); err != nil {
		return nil, errors.E(err, path)
	}
	return t, nil
}
