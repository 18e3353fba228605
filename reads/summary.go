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

package reads

import (
	"math"
	"strconv"
	"strings"

	"github.com/exascience/denovo/genotype"
)

// Summary counts how many reads showed each base for one trio member
// at one position.
type Summary [genotype.NAlleles]int32

// SummaryFromCounts builds a Summary from a map of allele counts.
// Negative counts are treated as zero and keys that are not valid
// alleles are ignored. Counts saturate at math.MaxInt32.
func SummaryFromCounts(counts map[genotype.Allele]int) (s Summary) {
	for a, n := range counts {
		if n > 0 {
			s.Add(a, n)
		}
	}
	return s
}

// Count returns the number of reads showing allele a.
func (s Summary) Count(a genotype.Allele) int {
	return int(s[a])
}

// Add records n more reads showing allele a. Invalid alleles are
// ignored, and the count saturates at math.MaxInt32 instead of
// wrapping.
func (s *Summary) Add(a genotype.Allele, n int) {
	if a >= genotype.NAlleles {
		return
	}
	sum := int64(s[a]) + int64(n)
	switch {
	case sum > math.MaxInt32:
		sum = math.MaxInt32
	case sum < 0:
		sum = 0
	}
	s[a] = int32(sum)
}

// Total returns the number of reads over all alleles.
func (s Summary) Total() (total int) {
	for _, n := range s {
		total += int(n)
	}
	return total
}

// Observed returns the alleles seen at least once, in alphabet order.
func (s Summary) Observed() []genotype.Allele {
	result := make([]genotype.Allele, 0, genotype.NAlleles)
	for _, a := range genotype.Alleles {
		if s[a] > 0 {
			result = append(result, a)
		}
	}
	return result
}

// String renders the observed counts as {C=15, T=33}.
func (s Summary) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for _, a := range genotype.Alleles {
		if s[a] == 0 {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteByte(a.Byte())
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(int(s[a])))
	}
	sb.WriteByte('}')
	return sb.String()
}

// Trio holds one Summary per trio member, indexed by
// genotype.TrioMember.
type Trio [genotype.NMembers]Summary

// String renders the summaries in role order as
// DAD:{T=28};MOM:{T=36};CHILD:{C=15, T=33}.
func (t Trio) String() string {
	var sb strings.Builder
	for i, m := range genotype.Members {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(m.String())
		sb.WriteByte(':')
		sb.WriteString(t[m].String())
	}
	return sb.String()
}

// Site is the read evidence of a trio at one genomic position.
type Site struct {
	Chrom string
	Pos   int32 // 1-based
	Ref   byte  // upper case, 'N' if unknown
	Reads Trio
}
