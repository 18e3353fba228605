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
	"strings"

	"github.com/go-playground/validator/v10"
)

// Method selects how a trio call is classified as de novo.
type Method uint8

const (
	// MAP classifies the maximum a posteriori trio genotype with the
	// inheritance predicate.
	MAP Method = iota

	// LRT compares the best de novo trio genotype against the best
	// inheritance-consistent one, and reports a de novo call if the
	// difference in score exceeds Config.LRTThreshold.
	LRT
)

func (m Method) String() string {
	switch m {
	case MAP:
		return "map"
	case LRT:
		return "lrt"
	default:
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
}

// ParseMethod parses "map" or "lrt", ignoring case.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "map":
		return MAP, nil
	case "lrt":
		return LRT, nil
	default:
		return 0, fmt.Errorf("invalid inference method %q", s)
	}
}

// Default rates.
const (
	DefaultSequenceErrorRate  = 1e-2
	DefaultDenovoMutationRate = 1e-8
)

// Config holds the parameters of the trio model. A Config is a plain
// value; it is copied into a Net or Model and never changes afterwards.
//
// With LogPriors and WeightByCount both false, conditional
// probabilities are added to the read log-likelihoods as raw
// probabilities, and every distinct observed base contributes once
// regardless of its read count.
type Config struct {
	// Probability that a sequenced base differs from the true allele.
	SequenceErrorRate float64 `validate:"gt=0,lt=1"`

	// Probability mass given to each child genotype that cannot be
	// inherited from a given pair of parent genotypes.
	DenovoMutationRate float64 `validate:"gt=0,lt=1"`

	Method       Method `validate:"lte=1"`
	LRTThreshold float64

	// LogPriors adds the logarithm of the conditional probabilities to
	// the read log-likelihoods, instead of the raw probabilities.
	LogPriors bool

	// WeightByCount weights the log-likelihood of each observed base by
	// its read count.
	WeightByCount bool
}

// DefaultConfig returns the default rates with MAP classification and
// no score corrections.
func DefaultConfig() Config {
	return Config{
		SequenceErrorRate:  DefaultSequenceErrorRate,
		DenovoMutationRate: DefaultDenovoMutationRate,
		Method:             MAP,
	}
}

var validate = validator.New()

// Validate checks that the rates are probabilities, and that the
// mutation rate leaves positive probability for every inheritable
// child genotype.
func (cfg Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	// A pair of homozygous parents has a single consistent child
	// genotype, which keeps 1 - 9*mu.
	if 1-float64(genotypeCount-1)*cfg.DenovoMutationRate <= 0 {
		return fmt.Errorf("DenovoMutationRate: %v leaves no probability for inherited genotypes", cfg.DenovoMutationRate)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range validationErrs {
		switch e.Tag() {
		case "gt":
			return fmt.Errorf("%s: must be greater than %s, got %v", e.Field(), e.Param(), e.Value())
		case "lt":
			return fmt.Errorf("%s: must be less than %s, got %v", e.Field(), e.Param(), e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s), got %v", e.Field(), e.Tag(), e.Value())
		}
	}
	return err
}
