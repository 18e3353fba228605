// denovo: Bayesian de novo variant calling for parent-child trios.
// Copyright (c) 2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/exascience/denovo/blob/master/LICENSE.txt>.

package cmd

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/exascience/denovo/bayes"
	"github.com/exascience/denovo/caller"
	"github.com/exascience/denovo/intervals"
	"github.com/exascience/denovo/internal"
	"github.com/exascience/denovo/reads"
	"github.com/exascience/denovo/store"
	"github.com/exascience/denovo/utils"
	"github.com/exascience/denovo/vcf"
	"github.com/google/uuid"
)

// CallHelp is the help string for this command.
const CallHelp = "call parameters:\n" +
	"denovo call mpileup-file\n" +
	"[--candidates file]\n" +
	"[--output-vcf file]\n" +
	"[--db file]\n" +
	"[--seq-err-rate r]\n" +
	"[--denovo-mut-rate r]\n" +
	"[--method map|lrt]\n" +
	"[--lrt-threshold t]\n" +
	"[--log-priors]\n" +
	"[--weight-by-count]\n" +
	"[--sample-order dad,mom,child]\n" +
	"[--min-base-quality q]\n" +
	"[--min-depth d]\n" +
	"[--chromosomes list]\n" +
	"[--target-regions bed-or-elsites-file]\n" +
	"[--nr-of-threads n]\n" +
	"[--debug-level 0|1|2]\n" +
	"[--timed]\n" +
	"[--log-path path]\n"

// Debug levels for per-site logging.
const (
	DebugErrors = iota
	DebugCandidates
	DebugSites
)

func logSink(debugLevel int) caller.Sink {
	return func(result *caller.Result) error {
		if debugLevel >= DebugSites || (debugLevel >= DebugCandidates && result.Call.Denovo) {
			log.Printf("%v:%v %v\n", result.Site.Chrom, result.Site.Pos, &result.Call)
		}
		return nil
	}
}

// Call implements the denovo call command.
func Call() (err error) {
	env, err := LoadEnvironment()
	if err != nil {
		return err
	}

	var (
		candidatesFile, outputVcf, dbFile       string
		methodName, sampleOrderName, chromList  string
		targetRegions, logPath                  string
		seqErrRate, denovoMutRate, lrtThreshold float64
		logPriors, weightByCount, timed         bool
		minBaseQuality, minDepth, nrOfThreads   int
		debugLevel                              int
	)

	var flags flag.FlagSet
	flags.StringVar(&candidatesFile, "candidates", "", "write a diagnostic record for every de novo candidate to this file")
	flags.StringVar(&outputVcf, "output-vcf", "", "write de novo candidates to this VCF file")
	flags.StringVar(&dbFile, "db", "", "store all calls in this SQLite database")
	flags.Float64Var(&seqErrRate, "seq-err-rate", env.SequenceErrorRate, "probability that a sequenced base is wrong")
	flags.Float64Var(&denovoMutRate, "denovo-mut-rate", env.DenovoMutationRate, "probability of a de novo mutation per site")
	flags.StringVar(&methodName, "method", bayes.MAP.String(), "classification method, map or lrt")
	flags.Float64Var(&lrtThreshold, "lrt-threshold", 0, "log-likelihood ratio above which lrt calls a de novo variant")
	flags.BoolVar(&logPriors, "log-priors", false, "add the log of the prior probabilities to the scores")
	flags.BoolVar(&weightByCount, "weight-by-count", false, "weight base likelihoods by their read counts")
	flags.StringVar(&sampleOrderName, "sample-order", "dad,mom,child", "trio roles of the mpileup samples")
	flags.IntVar(&minBaseQuality, "min-base-quality", 0, "ignore bases with a lower phred quality")
	flags.IntVar(&minDepth, "min-depth", 0, "skip sites where a trio member has fewer reads")
	flags.StringVar(&chromList, "chromosomes", "", "comma-separated list of chromosomes to evaluate")
	flags.StringVar(&targetRegions, "target-regions", "", "only evaluate sites in the regions of this .bed or .elsites file")
	flags.IntVar(&nrOfThreads, "nr-of-threads", env.NrOfThreads, "number of worker threads")
	flags.IntVar(&debugLevel, "debug-level", DebugErrors, "0 logs errors, 1 de novo candidates, 2 all sites")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&logPath, "log-path", env.LogPath, "write log files to the specified directory")

	parseFlags(&flags, 3, CallHelp)

	input := getFilename(os.Args[2], CallHelp)

	if err := setLogOutput(logPath); err != nil {
		return err
	}

	// sanity checks

	sanityChecksFailed := false

	if !checkExist("", input) {
		sanityChecksFailed = true
	}
	if candidatesFile != "" && !checkCreate("--candidates", candidatesFile) {
		sanityChecksFailed = true
	}
	if outputVcf != "" && !checkCreate("--output-vcf", outputVcf) {
		sanityChecksFailed = true
	}
	if dbFile != "" && !checkCreate("--db", dbFile) {
		sanityChecksFailed = true
	}
	if targetRegions != "" && !checkExist("--target-regions", targetRegions) {
		sanityChecksFailed = true
	}
	method, err := bayes.ParseMethod(methodName)
	if err != nil {
		log.Println("Error:", err)
		sanityChecksFailed = true
	}
	sampleOrder, err := reads.ParseSampleOrder(sampleOrderName)
	if err != nil {
		log.Println("Error:", err)
		sanityChecksFailed = true
	}
	chromosomes, err := caller.ParseChromosomes(chromList)
	if err != nil {
		log.Println("Error: --chromosomes:", err)
		sanityChecksFailed = true
	}
	if minBaseQuality < 0 || minDepth < 0 || nrOfThreads < 0 {
		log.Println("Error: --min-base-quality, --min-depth, and --nr-of-threads cannot be negative.")
		sanityChecksFailed = true
	}
	if debugLevel < DebugErrors || debugLevel > DebugSites {
		log.Printf("Error: Invalid debug level %v.\n", debugLevel)
		sanityChecksFailed = true
	}

	cfg := bayes.Config{
		SequenceErrorRate:  seqErrRate,
		DenovoMutationRate: denovoMutRate,
		Method:             method,
		LRTThreshold:       lrtThreshold,
		LogPriors:          logPriors,
		WeightByCount:      weightByCount,
	}
	if err := cfg.Validate(); err != nil {
		log.Println("Error:", err)
		sanityChecksFailed = true
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, CallHelp)
		os.Exit(1)
	}

	if candidatesFile == "" && outputVcf == "" && dbFile == "" && debugLevel < DebugCandidates {
		log.Println("Warning: No --candidates, --output-vcf, or --db given, and --debug-level is 0. Only a summary will be reported.")
	}

	// building the command line

	var command bytes.Buffer
	fmt.Fprint(&command, utils.ProgramName, " call ", input)
	if candidatesFile != "" {
		fmt.Fprint(&command, " --candidates ", candidatesFile)
	}
	if outputVcf != "" {
		fmt.Fprint(&command, " --output-vcf ", outputVcf)
	}
	if dbFile != "" {
		fmt.Fprint(&command, " --db ", dbFile)
	}
	fmt.Fprint(&command, " --seq-err-rate ", seqErrRate, " --denovo-mut-rate ", denovoMutRate, " --method ", method)
	if method == bayes.LRT {
		fmt.Fprint(&command, " --lrt-threshold ", lrtThreshold)
	}
	if logPriors {
		fmt.Fprint(&command, " --log-priors")
	}
	if weightByCount {
		fmt.Fprint(&command, " --weight-by-count")
	}
	fmt.Fprint(&command, " --sample-order ", sampleOrderName)
	if minBaseQuality > 0 {
		fmt.Fprint(&command, " --min-base-quality ", minBaseQuality)
	}
	if minDepth > 0 {
		fmt.Fprint(&command, " --min-depth ", minDepth)
	}
	if chromList != "" {
		fmt.Fprint(&command, " --chromosomes ", chromList)
	}
	if targetRegions != "" {
		fmt.Fprint(&command, " --target-regions ", targetRegions)
	}
	if nrOfThreads > 0 {
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	fmt.Fprint(&command, " --debug-level ", debugLevel)
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}
	log.Println("Executing command:\n", command.String())

	opts := caller.Options{
		Order:          sampleOrder,
		MinBaseQuality: minBaseQuality,
		MinDepth:       minDepth,
		Chromosomes:    chromosomes,
		Threads:        nrOfThreads,
	}
	if targetRegions != "" {
		if err := timedRun(timed, "Loading target regions.", func() (err error) {
			opts.Targets, err = intervals.FromFile(targetRegions)
			return err
		}); err != nil {
			return err
		}
	}

	return timedRun(timed, "Calling de novo variants.", func() error {
		return runCall(input, command.String(), bayes.NewModel(cfg), &opts, candidatesFile, outputVcf, dbFile, debugLevel)
	})
}

func runCall(input, command string, model *bayes.Model, opts *caller.Options, candidatesFile, outputVcf, dbFile string, debugLevel int) (err error) {
	runID := uuid.NewString()
	log.Println("Run ID:", runID)

	in, err := os.Open(input)
	if err != nil {
		return err
	}
	defer internal.Close(in, &err)
	reader, err := utils.HandleGzip(bufio.NewReader(in))
	if err != nil {
		return err
	}
	if rc, ok := reader.(io.Closer); ok {
		defer internal.Close(rc, &err)
	}

	sinks := []caller.Sink{logSink(debugLevel)}

	if candidatesFile != "" {
		f, ferr := internal.FileCreate(candidatesFile)
		if ferr != nil {
			return ferr
		}
		defer internal.Close(f, &err)
		out := bufio.NewWriter(f)
		defer func() {
			if nerr := out.Flush(); err == nil {
				err = nerr
			}
		}()
		sinks = append(sinks, caller.CandidateSink(out))
	}

	if outputVcf != "" {
		output, verr := vcf.Create(outputVcf, false)
		if verr != nil {
			return verr
		}
		defer internal.Close(output, &err)
		header := vcf.NewHeader(utils.ProgramName, model.Config())
		header.RunID = runID
		header.Meta = append(header.Meta, [2]string{"denovoCommand", command})
		if err = header.Format(output.Writer); err != nil {
			return err
		}
		sinks = append(sinks, vcf.Sink(output.Writer, true))
	}

	if dbFile != "" {
		db, serr := store.Open(dbFile)
		if serr != nil {
			return serr
		}
		defer internal.Close(db, &err)
		fullInput, perr := internal.FullPathname(input)
		if perr != nil {
			return perr
		}
		run, rerr := db.NewRun(runID, fullInput, model.Config())
		if rerr != nil {
			return rerr
		}
		writer := db.NewWriter(run.ID, store.DefaultBatchSize)
		defer func() {
			if nerr := writer.Flush(); err == nil {
				err = nerr
			}
		}()
		sinks = append(sinks, writer.Sink(false))
	}

	summary, err := caller.CallSites(reader, model, *opts, caller.Sinks(sinks...))
	if err != nil {
		return err
	}
	log.Printf("Read %v pileup lines, evaluated %v sites, found %v de novo candidates.\n",
		summary.Lines, summary.Sites, summary.DenovoCount())
	if summary.Sites == 0 && summary.Lines > 0 {
		log.Println("Warning: No site passed the filters.")
	}
	return nil
}
