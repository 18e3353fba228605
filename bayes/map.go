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
	"log"
	"math"

	"github.com/exascience/denovo/genotype"
)

func checkLogLikelihoods(likelihoods *TrioLogLikelihoods) {
	for _, m := range genotype.Members {
		if n := len(likelihoods[m]); n != genotypeCount {
			log.Panicf("log-likelihoods for %v cover %v of %v genotypes", m, n, genotypeCount)
		}
	}
}

// Score returns the joint score of a trio genotype: the read
// log-likelihoods of the three members plus the prior terms of the
// network.
func (net *Net) Score(likelihoods TrioLogLikelihoods, trio genotype.Trio) float64 {
	checkLogLikelihoods(&likelihoods)
	return net.score(&likelihoods, trio[genotype.Dad], trio[genotype.Mom], trio[genotype.Child])
}

func (net *Net) score(likelihoods *TrioLogLikelihoods, dad, mom, child genotype.Genotype) float64 {
	var score float64
	score += likelihoods[genotype.Dad][dad]
	score += likelihoods[genotype.Mom][mom]
	score += likelihoods[genotype.Child][child]
	score += net.parentTerms[genotype.Dad][dad]
	score += net.parentTerms[genotype.Mom][mom]
	score += net.childTerms[dad][mom][child]
	return score
}

type searchResult struct {
	best, consistent, denovo                genotype.Trio
	bestScore, consistentScore, denovoScore float64
}

// search scores all trio genotypes, with the father in the outer loop
// and the child in the inner loop. Ties go to the first trio
// enumerated.
func (net *Net) search(likelihoods *TrioLogLikelihoods) searchResult {
	checkLogLikelihoods(likelihoods)
	result := searchResult{
		bestScore:       math.Inf(-1),
		consistentScore: math.Inf(-1),
		denovoScore:     math.Inf(-1),
	}
	for _, dad := range genotype.Genotypes {
		for _, mom := range genotype.Genotypes {
			for _, child := range genotype.Genotypes {
				score := net.score(likelihoods, dad, mom, child)
				trio := genotype.Trio{dad, mom, child}
				if score > result.bestScore {
					result.best, result.bestScore = trio, score
				}
				if genotype.IsConsistentWithInheritance(dad, mom, child) {
					if score > result.consistentScore {
						result.consistent, result.consistentScore = trio, score
					}
				} else if score > result.denovoScore {
					result.denovo, result.denovoScore = trio, score
				}
			}
		}
	}
	return result
}

// MaxGenotype returns the trio genotype with the highest score, and
// that score. It panics if the log-likelihoods of a member do not cover
// all genotypes.
func MaxGenotype(likelihoods TrioLogLikelihoods, net *Net) (genotype.Trio, float64) {
	result := net.search(&likelihoods)
	return result.best, result.bestScore
}
