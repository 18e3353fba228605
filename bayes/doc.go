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

// Package bayes implements the trio network: the conditional probability
// tables, the read likelihood model, the exhaustive maximum a posteriori
// search over the 1000 trio genotypes, and de novo classification.
//
// By default, log-likelihoods of the reads are summed with the raw prior
// probabilities of the network, and each distinct observed base
// contributes once. Config.LogPriors and Config.WeightByCount switch to
// the textbook log-posterior.
package bayes
