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
	"strings"
)

// Genotype is an unordered pair of alleles.
type Genotype uint8

// The diploid genotypes. The declaration order is the enumeration
// order used for maximum a posteriori search and its tie-breaking.
const (
	AA Genotype = iota
	AC
	AG
	AT
	CC
	CG
	CT
	GG
	GT
	TT
)

// NGenotypes is the number of distinct unordered allele pairs.
const NGenotypes = 10

// Genotypes lists all genotypes in declaration order.
var Genotypes = [NGenotypes]Genotype{AA, AC, AG, AT, CC, CG, CT, GG, GT, TT}

var (
	genotypeAlleles [NGenotypes][2]Allele
	allelePairs     [NAlleles][NAlleles]Genotype
)

func init() {
	var g Genotype
	for i := A; i <= T; i++ {
		for j := i; j <= T; j++ {
			genotypeAlleles[g] = [2]Allele{i, j}
			allelePairs[i][j] = g
			allelePairs[j][i] = g
			g++
		}
	}
}

// Alleles returns the two alleles of the genotype, in alphabet order.
func (g Genotype) Alleles() (Allele, Allele) {
	p := genotypeAlleles[g]
	return p[0], p[1]
}

func (g Genotype) String() string {
	if g >= NGenotypes {
		return fmt.Sprintf("Genotype(%d)", uint8(g))
	}
	p := genotypeAlleles[g]
	return string([]byte{p[0].Byte(), p[1].Byte()})
}

// IsHomozygous is true if both alleles are the same.
func (g Genotype) IsHomozygous() bool {
	p := genotypeAlleles[g]
	return p[0] == p[1]
}

// Contains is true if a is one of the two alleles.
func (g Genotype) Contains(a Allele) bool {
	p := genotypeAlleles[g]
	return p[0] == a || p[1] == a
}

// FromAlleles returns the genotype for a pair of alleles, in any order.
func FromAlleles(a1, a2 Allele) Genotype {
	return allelePairs[a1][a2]
}

// ParseGenotype parses a two-letter genotype such as "CT" or "tc".
func ParseGenotype(s string) (Genotype, error) {
	if len(s) == 2 {
		a1, ok1 := AlleleFromByte(s[0])
		a2, ok2 := AlleleFromByte(s[1])
		if ok1 && ok2 {
			return FromAlleles(a1, a2), nil
		}
	}
	return 0, fmt.Errorf("invalid genotype %q", s)
}

// TrioMember identifies a role in a trio.
type TrioMember uint8

// The trio roles. The order determines output order only.
const (
	Dad TrioMember = iota
	Mom
	Child
)

// NMembers is the number of members in a trio.
const NMembers = 3

// Members lists the trio roles in output order.
var Members = [NMembers]TrioMember{Dad, Mom, Child}

var memberNames = [NMembers]string{"DAD", "MOM", "CHILD"}

func (m TrioMember) String() string {
	if m >= NMembers {
		return fmt.Sprintf("TrioMember(%d)", uint8(m))
	}
	return memberNames[m]
}

// ParseTrioMember parses a role name, ignoring case.
func ParseTrioMember(s string) (TrioMember, error) {
	for m, name := range memberNames {
		if strings.EqualFold(s, name) {
			return TrioMember(m), nil
		}
	}
	return 0, fmt.Errorf("invalid trio member %q", s)
}

// Trio is one genotype per trio member, indexed by TrioMember.
type Trio [NMembers]Genotype

func (t Trio) String() string {
	return "[" + t[Dad].String() + ", " + t[Mom].String() + ", " + t[Child].String() + "]"
}
