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
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/isomir/isomir"
	"v.io/x/lib/cmdline"
)

// addTableFlags registers the flags shared by the subcommands that build a
// dataset.
func addTableFlags(cmd *cmdline.Command, f *tableFlags) {
	f.opts = isomir.DefaultOpts
	cmd.Flags.StringVar(&f.coldata, "coldata", "", `Sample table path. The first column names the samples.
If empty, samples are named after the input and the table has no other column.`)
	cmd.Flags.StringVar(&f.out, "out", "bio-isomir", "Output path prefix")
	cmd.Flags.BoolVar(&f.gzip, "gzip", false, "Gzip the count matrix")
	cmd.Flags.Float64Var(&f.opts.Pct, "pct", isomir.DefaultOpts.Pct,
		"Remove isomiRs below this share of their miRNA's reads in every sample")
	cmd.Flags.IntVar(&f.opts.NSNV, "n-snv", isomir.DefaultOpts.NSNV,
		"Remove isomiRs with more than this many substitutions; negative disables the cap")
	cmd.Flags.StringVar(&f.whitelist, "whitelist", "", "Comma-separated list of sequences never removed by -pct")
	cmd.Flags.StringVar(&f.whitelistFile, "whitelist-file", "",
		"FASTA file, or file with one sequence per line, of sequences never removed by -pct; U is read as T")
	cmd.Flags.StringVar(&f.opts.Design, "design", isomir.DefaultOpts.Design,
		"Model formula; every variable must be a column of the sample table")
	cmd.Flags.BoolVar(&f.opts.FillMissingSamples, "fill-missing", false,
		"Add all-zero columns for samples without data instead of dropping them")
}

func newCmdFiles() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "files",
		Short:    "Build a count matrix from per-sample miraligner files",
		ArgsName: "path...",
	}
	f := &tableFlags{}
	addTableFlags(cmd, f)
	cmd.Flags.Float64Var(&f.opts.Rate, "rate", isomir.DefaultOpts.Rate,
		"Drop records below this share of their miRNA's reads in their sample; 0 disables")
	cmd.Flags.BoolVar(&f.opts.CanonicalAdd, "canonical-add", isomir.DefaultOpts.CanonicalAdd,
		"Clear 3' additions with bases other than A and T(U)")
	cmd.Flags.BoolVar(&f.opts.UniqueMism, "unique-mism", isomir.DefaultOpts.UniqueMism,
		"Drop records with substitutions whose sequence maps to more than one miRNA")
	cmd.Flags.BoolVar(&f.opts.UniqueHits, "unique-hits", isomir.DefaultOpts.UniqueHits,
		"Drop records whose sequence maps to more than one miRNA")
	cmd.Flags.IntVar(&f.opts.MinHits, "min-hits", isomir.DefaultOpts.MinHits,
		"Drop samples with fewer distinct isomiRs after filtering")
	cmd.Flags.BoolVar(&f.opts.Read.Header, "header", isomir.DefaultOpts.Read.Header,
		"Input files have a header row; otherwise columns are in miraligner order")
	cmd.Flags.IntVar(&f.opts.Read.Skip, "skip", isomir.DefaultOpts.Read.Skip,
		"Number of leading lines to skip in each input file")
	cmd.Flags.IntVar(&f.opts.Parallelism, "parallelism", 0,
		"Maximum number of files processed at once; 0 = runtime.NumCPU()")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("files takes at least one pathname argument")
		}
		return runFiles(vcontext.Background(), f, argv)
	})
	return cmd
}

func newCmdRefilter() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "refilter",
		Short:    "Build a count matrix from the raw table of an earlier run",
		Long:     "The table is a <prefix>.raw.rio file, or a TSV file in the same schema.",
		ArgsName: "path",
	}
	f := &tableFlags{}
	addTableFlags(cmd, f)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("refilter takes one pathname argument, but got %v", argv)
		}
		return runRefilter(vcontext.Background(), f, argv[0])
	})
	return cmd
}

func newCmdExternal() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "external",
		Short: "Build a count matrix from a count table produced by another tool",
		Long: `The table is tab-separated, with the columns seq, mir, mism, add, t5 and t3
in any order. Every other column is a sample and must hold nonnegative integers.`,
		ArgsName: "path",
	}
	f := &tableFlags{}
	addTableFlags(cmd, f)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("external takes one pathname argument, but got %v", argv)
		}
		return runExternal(vcontext.Background(), f, argv[0])
	})
	return cmd
}

func newCmdCollapse() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "collapse",
		Short:    "Sum the isomiRs of a raw table by miRNA",
		ArgsName: "path",
	}
	f := &collapseFlags{}
	cmd.Flags.StringVar(&f.out, "out", "bio-isomir", "Output path prefix; the table is written to <prefix>.mirna.tsv")
	cmd.Flags.BoolVar(&f.opts.Ref, "ref", false, "Keep reference reads apart from isomiR reads")
	cmd.Flags.BoolVar(&f.opts.Iso5, "iso5", false, "Keep 5' trims apart")
	cmd.Flags.BoolVar(&f.opts.Iso3, "iso3", false, "Keep 3' trims apart")
	cmd.Flags.BoolVar(&f.opts.Add, "add", false, "Keep 3' additions apart")
	cmd.Flags.BoolVar(&f.opts.SNV, "snv", false, "Keep substitutions apart")
	cmd.Flags.Int64Var(&f.opts.MinCount, "min-count", 0, "Drop rows with fewer reads over all samples")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("collapse takes one pathname argument, but got %v", argv)
		}
		return runCollapse(vcontext.Background(), f, argv[0])
	})
	return cmd
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-isomir",
		Short:    "Tools for building isomiR count matrices",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdFiles(),
			newCmdRefilter(),
			newCmdExternal(),
			newCmdCollapse(),
		},
	}
}

func Run() {
	cmdline.HideGlobalFlagsExcept()
	shutdown := grail.Init()
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(newCmdRoot(), env, os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
