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

package cmd

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/isomir/encoding/fasta"
	"github.com/grailbio/isomir/isomir"
)

type tableFlags struct {
	coldata   string
	out       string
	gzip      bool
	whitelist string
	// whitelistFile is a FASTA file, or a file with one sequence per line.
	whitelistFile string
	opts          isomir.Opts
}

type collapseFlags struct {
	out  string
	opts isomir.CollapseOpts
}

func (f *tableFlags) options(ctx context.Context) (isomir.Opts, error) {
	opts := f.opts
	opts.Whitelist = nil
	if f.whitelist != "" {
		opts.Whitelist = strings.Split(f.whitelist, ",")
	}
	if f.whitelistFile != "" {
		recs, err := fasta.Read(ctx, f.whitelistFile, fasta.Opts{DNA: true})
		if err != nil {
			return opts, err
		}
		opts.Whitelist = append(opts.Whitelist, fasta.Seqs(recs)...)
		log.Printf("Read %d whitelisted sequences from %s", len(recs), f.whitelistFile)
	}
	return opts, nil
}

// sampleTable reads the -coldata table, or creates a table of the given names
// with no column if -coldata is not set.
func (f *tableFlags) sampleTable(ctx context.Context, names func() []string) (*isomir.SampleTable, error) {
	if f.coldata != "" {
		return isomir.ReadSampleTable(ctx, f.coldata)
	}
	n := names()
	return isomir.NewSampleTable(nil, n, make([][]string, len(n)))
}

// sampleName derives a sample name from an input path: "dir/s1.mirna.gz"
// yields "s1".
func sampleName(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}

func runFiles(ctx context.Context, f *tableFlags, paths []string) error {
	samples, err := f.sampleTable(ctx, func() []string {
		names := make([]string, len(paths))
		for i, path := range paths {
			names[i] = sampleName(path)
		}
		return names
	})
	if err != nil {
		return err
	}
	opts, err := f.options(ctx)
	if err != nil {
		return err
	}
	d, err := isomir.FromFiles(ctx, paths, samples, opts)
	if err != nil {
		return err
	}
	return d.Write(ctx, f.out, f.gzip)
}

func runRefilter(ctx context.Context, f *tableFlags, path string) error {
	raw, err := isomir.ReadTable(ctx, path)
	if err != nil {
		return err
	}
	samples, err := f.sampleTable(ctx, func() []string { return raw.Samples })
	if err != nil {
		return err
	}
	opts, err := f.options(ctx)
	if err != nil {
		return err
	}
	d, err := isomir.FromRawTable(raw, samples, opts)
	if err != nil {
		return err
	}
	log.Printf("Stats: %v", d.Stats)
	return d.Write(ctx, f.out, f.gzip)
}

func runExternal(ctx context.Context, f *tableFlags, path string) error {
	ext, err := isomir.ReadExternalTable(ctx, path)
	if err != nil {
		return err
	}
	samples, err := f.sampleTable(ctx, ext.SampleNames)
	if err != nil {
		return err
	}
	opts, err := f.options(ctx)
	if err != nil {
		return err
	}
	d, err := isomir.FromExternalTable(ext, samples, opts)
	if err != nil {
		return err
	}
	log.Printf("Stats: %v", d.Stats)
	return d.Write(ctx, f.out, f.gzip)
}

func runCollapse(ctx context.Context, f *collapseFlags, path string) error {
	raw, err := isomir.ReadTable(ctx, path)
	if err != nil {
		return err
	}
	c := isomir.Collapse(raw, f.opts)
	log.Printf("Collapsed %d isomiRs into %d rows", len(raw.Rows), len(c.Names))
	return isomir.WriteFile(ctx, f.out+".mirna.tsv", func(w io.Writer) error { return c.Write(w) })
}
