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
	"sync"

	"github.com/exascience/denovo/genotype"
)

// A Node of the trio network.
type Node struct {
	Member  genotype.TrioMember
	Parents []*Node // nil for the parents, {Dad, Mom} for the child
	CPT     ConditionalProbabilityTable
}

// A Net is the fixed three-node network relating the genotypes of a
// father, a mother, and their child. A Net is immutable once built and
// can be shared between goroutines without locking.
type Net struct {
	config Config
	nodes  [genotype.NMembers]*Node

	// Prior terms added to trio scores, derived from the CPTs.
	parentTerms [genotype.NMembers - 1][genotypeCount]float64
	childTerms  [genotypeCount][genotypeCount][genotypeCount]float64
}

// NewNet builds the network for the given configuration. It panics if
// a row of the child CPT does not add up to one.
func NewNet(cfg Config) *Net {
	net := &Net{config: cfg}
	dad := &Node{Member: genotype.Dad, CPT: newParentCPT()}
	mom := &Node{Member: genotype.Mom, CPT: newParentCPT()}
	child := &Node{
		Member:  genotype.Child,
		Parents: []*Node{dad, mom},
		CPT:     newChildCPT(cfg.DenovoMutationRate),
	}
	net.nodes = [genotype.NMembers]*Node{dad, mom, child}

	term := func(p float64) float64 {
		if cfg.LogPriors {
			return math.Log(p)
		}
		return p
	}
	for _, m := range []genotype.TrioMember{genotype.Dad, genotype.Mom} {
		for _, g := range genotype.Genotypes {
			net.parentTerms[m][g] = term(net.nodes[m].CPT.Prob(g))
		}
	}
	for _, d := range genotype.Genotypes {
		for _, m := range genotype.Genotypes {
			for _, c := range genotype.Genotypes {
				net.childTerms[d][m][c] = term(child.CPT.Prob(d, m, c))
			}
		}
	}
	return net
}

// Config returns the configuration the network was built with.
func (net *Net) Config() Config {
	return net.config
}

// Node returns the node of the given trio member.
func (net *Net) Node(m genotype.TrioMember) *Node {
	return net.nodes[m]
}

// A Model builds its Net on first use. Concurrent callers share a
// single build.
type Model struct {
	config Config
	once   sync.Once
	net    *Net
}

// NewModel returns a model for the given configuration. The network is
// not built until it is first needed.
func NewModel(cfg Config) *Model {
	return &Model{config: cfg}
}

// Config returns the configuration of the model.
func (model *Model) Config() Config {
	return model.config
}

// Net returns the network of the model, building it if necessary.
func (model *Model) Net() *Net {
	model.once.Do(func() {
		model.net = NewNet(model.config)
	})
	return model.net
}
