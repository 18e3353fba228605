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

package genotype

import "fmt"

// Allele is one of the four nucleotide bases.
type Allele uint8

// The nucleotide bases, in alphabet order.
const (
	A Allele = iota
	C
	G
	T
)

// NAlleles is the size of the nucleotide alphabet.
const NAlleles = 4

// Alleles lists all alleles in alphabet order.
var Alleles = [NAlleles]Allele{A, C, G, T}

var alleleBytes = [NAlleles]byte{'A', 'C', 'G', 'T'}

// Byte returns the upper-case symbol of the allele.
func (a Allele) Byte() byte {
	return alleleBytes[a]
}

func (a Allele) String() string {
	if a >= NAlleles {
		return fmt.Sprintf("Allele(%d)", uint8(a))
	}
	return string(alleleBytes[a])
}

// AlleleFromByte maps a base symbol to an Allele. Lower-case symbols
// are accepted. The second result is false for anything that is not
// one of ACGT.
func AlleleFromByte(b byte) (Allele, bool) {
	switch b {
	case 'A', 'a':
		return A, true
	case 'C', 'c':
		return C, true
	case 'G', 'g':
		return G, true
	case 'T', 't':
		return T, true
	default:
		return 0, false
	}
}

// ParseAllele parses a single-letter allele.
func ParseAllele(s string) (Allele, error) {
	if len(s) == 1 {
		if a, ok := AlleleFromByte(s[0]); ok {
			return a, nil
		}
	}
	return 0, fmt.Errorf("invalid allele %q", s)
}

var (
	transitions = [NAlleles][2]Allele{
		A: {C, T},
		C: {A, G},
		G: {C, T},
		T: {A, G},
	}
	transversions = [NAlleles]Allele{
		A: G,
		C: T,
		G: A,
		T: C,
	}
)

// Transition returns the pair of substitution partners of the allele
// in the transition table.
func (a Allele) Transition() [2]Allele {
	return transitions[a]
}

// Transversion returns the single substitution partner of the allele
// in the transversion table.
func (a Allele) Transversion() Allele {
	return transversions[a]
}

// Mutants returns all alleles other than a, in alphabet order.
func (a Allele) Mutants() []Allele {
	result := make([]Allele, 0, NAlleles-1)
	for _, b := range Alleles {
		if b != a {
			result = append(result, b)
		}
	}
	return result
}
