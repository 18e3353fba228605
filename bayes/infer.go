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
	"fmt"

	"github.com/exascience/denovo/genotype"
	"github.com/exascience/denovo/reads"
)

// A Call is the outcome of inference for one trio at one site.
type Call struct {
	Reads  reads.Trio
	Trio   genotype.Trio // maximum a posteriori trio genotype
	Score  float64       // score of Trio
	Denovo bool

	// LogLikelihoodRatio is the score of the best de novo trio genotype
	// minus the score of the best inheritance-consistent one.
	LogLikelihoodRatio float64
}

// String renders the diagnostic record of the call.
func (call *Call) String() string {
	return fmt.Sprintf("readCounts=%v,maxGenoType=%v,isDenovo=%v", call.Reads, call.Trio, call.Denovo)
}

// Infer determines the most probable trio genotype for the given reads
// and classifies it.
func Infer(trio reads.Trio, net *Net) Call {
	likelihoods := net.TrioLogLikelihood(trio)
	result := net.search(&likelihoods)
	call := Call{
		Reads:              trio,
		Trio:               result.best,
		Score:              result.bestScore,
		LogLikelihoodRatio: result.denovoScore - result.consistentScore,
	}
	switch net.config.Method {
	case LRT:
		call.Denovo = call.LogLikelihoodRatio > net.config.LRTThreshold
	default:
		call.Denovo = genotype.IsDenovo(call.Trio)
	}
	return call
}

// Infer builds the network of the model if necessary, and then calls
// Infer with it.
func (model *Model) Infer(trio reads.Trio) Call {
	return Infer(trio, model.Net())
}
