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

import (
	"fmt"
	"strconv"
	"strings"
)

// Chromosome is a human chromosome, CHR1 through CHR22 followed by the
// sex chromosomes and the mitochondrial genome.
type Chromosome uint8

// The non-numbered chromosomes. CHR1 through CHR22 are Chromosome(1)
// through Chromosome(22).
const (
	CHR1  Chromosome = 1
	CHR22 Chromosome = 22
	CHRX  Chromosome = 23
	CHRY  Chromosome = 24
	CHRM  Chromosome = 25
)

func (c Chromosome) String() string {
	switch {
	case c >= CHR1 && c <= CHR22:
		return "chr" + strconv.Itoa(int(c))
	case c == CHRX:
		return "chrX"
	case c == CHRY:
		return "chrY"
	case c == CHRM:
		return "chrM"
	default:
		return fmt.Sprintf("Chromosome(%d)", uint8(c))
	}
}

// ParseChromosome accepts chromosome names with or without a "chr"
// prefix, in any case, such as "chr1", "CHR1", "1", "X", or "chrx".
// The mitochondrial genome may be written as "M" or "MT".
func ParseChromosome(s string) (Chromosome, error) {
	name := strings.ToUpper(s)
	name = strings.TrimPrefix(name, "CHR")
	switch name {
	case "X":
		return CHRX, nil
	case "Y":
		return CHRY, nil
	case "M", "MT":
		return CHRM, nil
	}
	if n, err := strconv.Atoi(name); err == nil && n >= int(CHR1) && n <= int(CHR22) {
		return Chromosome(n), nil
	}
	return 0, fmt.Errorf("invalid chromosome %q", s)
}
