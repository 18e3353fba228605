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

package caller

import (
	"fmt"
	"io"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/carbocation/pfx"
	"github.com/exascience/denovo/bayes"
	"github.com/exascience/denovo/genotype"
	"github.com/exascience/denovo/intervals"
	"github.com/exascience/denovo/reads"
	"github.com/exascience/pargo/pipeline"
)

// Options determine which pileup sites are evaluated, and how.
type Options struct {
	Order          reads.SampleOrder
	MinBaseQuality int

	// Sites where a trio member has fewer reads are skipped.
	MinDepth int

	// If not nil, only sites on these chromosomes are evaluated. Sites
	// whose chromosome name cannot be parsed are then skipped.
	Chromosomes map[genotype.Chromosome]bool

	// If not nil, only sites in these regions are evaluated. The
	// intervals must be normalized.
	Targets map[string][]intervals.Interval

	// Maximum number of goroutines that parse and evaluate sites;
	// 0 means runtime.GOMAXPROCS(0).
	Threads int
}

// DefaultOptions returns options that evaluate all sites of a pileup
// with the samples in the order dad, mom, child.
func DefaultOptions() Options {
	return Options{Order: reads.DefaultSampleOrder}
}

// ParseChromosomes parses a comma-separated list of chromosome names,
// in any spelling genotype.ParseChromosome accepts.
func ParseChromosomes(list string) (map[genotype.Chromosome]bool, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	chroms := make(map[genotype.Chromosome]bool)
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		chrom, err := genotype.ParseChromosome(name)
		if err != nil {
			return nil, err
		}
		chroms[chrom] = true
	}
	return chroms, nil
}

func (opts *Options) selects(site *reads.Site) bool {
	if opts.Chromosomes != nil {
		chrom, err := genotype.ParseChromosome(site.Chrom)
		if err != nil || !opts.Chromosomes[chrom] {
			return false
		}
	}
	if opts.Targets != nil && !intervals.Contains(opts.Targets[site.Chrom], site.Pos) {
		return false
	}
	for _, m := range genotype.Members {
		if site.Reads[m].Total() < opts.MinDepth {
			return false
		}
	}
	return true
}

// A Result is the call for one evaluated site.
type Result struct {
	Ordinal int // position among the evaluated sites, starting at 0
	Site    reads.Site
	Call    bayes.Call
}

// A Sink receives results in input order.
type Sink func(result *Result) error

// Sinks combines sinks into one that calls each of them in turn.
func Sinks(sinks ...Sink) Sink {
	return func(result *Result) error {
		for _, sink := range sinks {
			if err := sink(result); err != nil {
				return err
			}
		}
		return nil
	}
}

// Summary describes a completed run over a pileup.
type Summary struct {
	Lines int // pileup lines read
	Sites int // sites evaluated

	// Ordinals of the evaluated sites that were called de novo.
	Denovo *bitset.BitSet
}

// DenovoCount returns the number of de novo calls.
func (s *Summary) DenovoCount() int {
	return int(s.Denovo.Count())
}

// CallSites evaluates every selected site of an mpileup stream with the
// given model, and hands the results to sink in input order.
func CallSites(reader io.Reader, model *bayes.Model, opts Options, sink Sink) (summary Summary, err error) {
	parseOptions := reads.ParseOptions{
		Order:          opts.Order,
		MinBaseQuality: opts.MinBaseQuality,
	}
	if parseOptions.Order == (reads.SampleOrder{}) {
		parseOptions.Order = reads.DefaultSampleOrder
	}
	summary.Denovo = bitset.New(0)

	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(reader))
	p.Add(
		pipeline.LimitedPar(opts.Threads, func(p *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (receiver pipeline.Receiver, _ pipeline.Finalizer) {
			var sc reads.StringScanner
			receiver = func(_ int, data interface{}) interface{} {
				lines := data.([]string)
				results := make([]Result, 0, len(lines))
				for _, line := range lines {
					if line == "" {
						continue
					}
					sc.Reset(line)
					site := sc.ParseMpileup(&parseOptions)
					if err := sc.Err(); err != nil {
						p.SetErr(pfx.Err(fmt.Errorf("%v, while parsing mpileup line %q", err, line)))
						return nil
					}
					if !opts.selects(&site) {
						continue
					}
					results = append(results, Result{Site: site, Call: model.Infer(site.Reads)})
				}
				return lineBatch{lines: len(lines), results: results}
			}
			return
		}),
		pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
			batch, ok := data.(lineBatch)
			if !ok {
				return data
			}
			summary.Lines += batch.lines
			for i := range batch.results {
				result := &batch.results[i]
				result.Ordinal = summary.Sites
				summary.Sites++
				if result.Call.Denovo {
					summary.Denovo.Set(uint(result.Ordinal))
				}
				if sink != nil {
					if err := sink(result); err != nil {
						p.SetErr(err)
						return nil
					}
				}
			}
			return nil
		})),
	)
	p.Run()
	if err = p.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

type lineBatch struct {
	lines   int
	results []Result
}
