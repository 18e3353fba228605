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

package bayes

import (
	"math"

	"github.com/exascience/denovo/genotype"
	"github.com/exascience/denovo/reads"
)

// GenotypeLogLikelihoods holds a natural log-likelihood per genotype,
// indexed by genotype.Genotype.
type GenotypeLogLikelihoods []float64

// TrioLogLikelihoods holds the genotype log-likelihoods of each trio
// member, indexed by genotype.TrioMember.
type TrioLogLikelihoods [genotype.NMembers]GenotypeLogLikelihoods

type baseLogLikelihoods struct {
	homMatch, hetMatch, mismatch float64
}

func newBaseLogLikelihoods(errorRate float64) baseLogLikelihoods {
	return baseLogLikelihoods{
		homMatch: math.Log(1 - errorRate),
		hetMatch: math.Log(1-2*errorRate/3) - math.Log(2),
		mismatch: math.Log(errorRate) - math.Log(3),
	}
}

// of returns the log-likelihood of observing base under genotype g.
// Sequencing errors are spread uniformly over the three other bases.
func (b *baseLogLikelihoods) of(g genotype.Genotype, base genotype.Allele) float64 {
	switch {
	case !g.Contains(base):
		return b.mismatch
	case g.IsHomozygous():
		return b.homMatch
	default:
		return b.hetMatch
	}
}

// GenotypeLogLikelihood returns the log-likelihood of the reads for
// every genotype. Each distinct observed base contributes once; the
// read counts themselves do not weigh in. An empty summary yields zero
// for every genotype.
func GenotypeLogLikelihood(summary reads.Summary, errorRate float64) GenotypeLogLikelihoods {
	b := newBaseLogLikelihoods(errorRate)
	observed := summary.Observed()
	result := make(GenotypeLogLikelihoods, genotypeCount)
	for _, g := range genotype.Genotypes {
		var ll float64
		for _, base := range observed {
			ll += b.of(g, base)
		}
		result[g] = ll
	}
	return result
}

// WeightedGenotypeLogLikelihood is GenotypeLogLikelihood with the
// contribution of each base weighted by its read count, treating reads
// as independent observations.
func WeightedGenotypeLogLikelihood(summary reads.Summary, errorRate float64) GenotypeLogLikelihoods {
	b := newBaseLogLikelihoods(errorRate)
	result := make(GenotypeLogLikelihoods, genotypeCount)
	for _, g := range genotype.Genotypes {
		var ll float64
		for _, base := range genotype.Alleles {
			if n := summary.Count(base); n > 0 {
				ll += float64(n) * b.of(g, base)
			}
		}
		result[g] = ll
	}
	return result
}

// TrioLogLikelihood computes the genotype log-likelihoods of all trio
// members with the error model of the network's configuration.
func (net *Net) TrioLogLikelihood(trio reads.Trio) (result TrioLogLikelihoods) {
	likelihood := GenotypeLogLikelihood
	if net.config.WeightByCount {
		likelihood = WeightedGenotypeLogLikelihood
	}
	for _, m := range genotype.Members {
		result[m] = likelihood(trio[m], net.config.SequenceErrorRate)
	}
	return result
}
