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

const genotypeCount = genotype.NGenotypes

// Epsilon is the tolerance for conditional probabilities that should
// add up to one.
const Epsilon = 1e-9

// A ConditionalProbabilityTable gives the probability of the genotype
// of a node given the genotypes of its parents. Entries are indexed by
// the parent genotypes followed by the node genotype, in that order,
// and stored in a flat fixed-size slice.
type ConditionalProbabilityTable struct {
	arity int
	probs []float64
}

func newConditionalProbabilityTable(arity int) ConditionalProbabilityTable {
	size := 1
	for i := 0; i < arity; i++ {
		size *= genotypeCount
	}
	return ConditionalProbabilityTable{arity: arity, probs: make([]float64, size)}
}

// Arity is the number of genotypes in a key: the number of parents
// plus one.
func (t *ConditionalProbabilityTable) Arity() int {
	return t.arity
}

func (t *ConditionalProbabilityTable) index(key []genotype.Genotype) int {
	if len(key) != t.arity {
		log.Panicf("conditional probability table of arity %v indexed with %v genotypes", t.arity, len(key))
	}
	index := 0
	for _, g := range key {
		index = index*genotypeCount + int(g)
	}
	return index
}

// Prob returns the probability for the given parent genotypes followed
// by the node genotype.
func (t *ConditionalProbabilityTable) Prob(key ...genotype.Genotype) float64 {
	return t.probs[t.index(key)]
}

func (t *ConditionalProbabilityTable) set(p float64, key ...genotype.Genotype) {
	t.probs[t.index(key)] = p
}

// newParentCPT returns the uniform prior over genotypes.
func newParentCPT() ConditionalProbabilityTable {
	cpt := newConditionalProbabilityTable(1)
	for _, g := range genotype.Genotypes {
		cpt.set(1.0/genotypeCount, g)
	}
	return cpt
}

// newChildCPT returns the distribution of the child genotype given
// the genotypes of both parents. Each of the k inheritable child
// genotypes receives 1/k - mu*(10-k)/k, every other genotype receives
// mu.
func newChildCPT(mu float64) ConditionalProbabilityTable {
	cpt := newConditionalProbabilityTable(3)
	var consistent [genotypeCount]bool
	for _, dad := range genotype.Genotypes {
		for _, mom := range genotype.Genotypes {
			k := 0
			for _, child := range genotype.Genotypes {
				consistent[child] = genotype.IsConsistentWithInheritance(dad, mom, child)
				if consistent[child] {
					k++
				}
			}
			inherited := 1.0/float64(k) - mu*float64(genotypeCount-k)/float64(k)
			var sum float64
			for _, child := range genotype.Genotypes {
				p := mu
				if consistent[child] {
					p = inherited
				}
				cpt.set(p, dad, mom, child)
				sum += p
			}
			checkRowSum(dad, mom, sum)
		}
	}
	return cpt
}

func checkRowSum(dad, mom genotype.Genotype, sum float64) {
	if math.Abs(sum-1.0) > Epsilon {
		log.Panicf("child genotype probabilities for parents %v and %v not adding up: %v", dad, mom, sum)
	}
}
