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
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlleleTransition(t *testing.T) {
	assert.Equal(t, [2]Allele{C, T}, A.Transition())
	assert.Equal(t, [2]Allele{C, T}, G.Transition())
	assert.Equal(t, [2]Allele{A, G}, C.Transition())
	assert.Equal(t, [2]Allele{A, G}, T.Transition())
}

func TestAlleleTransversion(t *testing.T) {
	assert.Equal(t, G, A.Transversion())
	assert.Equal(t, A, G.Transversion())
	assert.Equal(t, T, C.Transversion())
	assert.Equal(t, C, T.Transversion())
}

func TestAlleleMutants(t *testing.T) {
	assert.Equal(t, []Allele{C, G, T}, A.Mutants())
	assert.Equal(t, []Allele{A, C, G}, T.Mutants())
}

func TestParseAllele(t *testing.T) {
	a, err := ParseAllele("g")
	require.NoError(t, err)
	assert.Equal(t, G, a)

	for _, s := range []string{"", "N", "AC", "-"} {
		_, err := ParseAllele(s)
		assert.Error(t, err, s)
	}
}

func TestFromAlleles(t *testing.T) {
	assert.Equal(t, AA, FromAlleles(A, A))
	assert.Equal(t, CT, FromAlleles(C, T))
	assert.Equal(t, CT, FromAlleles(T, C))
	assert.Equal(t, TT, FromAlleles(T, T))
}

func TestGenotypeAlleles(t *testing.T) {
	seen := make(map[string]bool)
	for _, g := range Genotypes {
		a1, a2 := g.Alleles()
		assert.LessOrEqual(t, uint8(a1), uint8(a2))
		assert.Equal(t, g, FromAlleles(a1, a2))
		assert.Equal(t, a1 == a2, g.IsHomozygous())
		assert.True(t, g.Contains(a1))
		assert.True(t, g.Contains(a2))
		seen[g.String()] = true
	}
	assert.Len(t, seen, NGenotypes)
	assert.Equal(t, "AA", AA.String())
	assert.Equal(t, "GT", GT.String())
}

func TestParseGenotype(t *testing.T) {
	g, err := ParseGenotype("TC")
	require.NoError(t, err)
	assert.Equal(t, CT, g)

	_, err = ParseGenotype("TN")
	assert.Error(t, err)
	_, err = ParseGenotype("T")
	assert.Error(t, err)
}

func TestParseTrioMember(t *testing.T) {
	m, err := ParseTrioMember("child")
	require.NoError(t, err)
	assert.Equal(t, Child, m)
	assert.Equal(t, "MOM", Mom.String())

	_, err = ParseTrioMember("sibling")
	assert.Error(t, err)
}

func TestTrioString(t *testing.T) {
	assert.Equal(t, "[TT, TT, CT]", Trio{TT, TT, CT}.String())
}

func TestIsDenovo(t *testing.T) {
	tests := []struct {
		dad, mom, child Genotype
		denovo          bool
	}{
		{AA, AA, TT, true},
		{AA, AA, AT, true},
		{AA, AC, TT, true},
		{AA, AC, CC, true},
		{AA, AC, AT, true},
		{AA, CG, AA, true},
		{AC, GT, GG, true},
		{AC, GT, AA, true},
		{AC, GT, AC, true},
		{AC, GT, GT, true},

		{AC, GT, AT, false},
		{AC, GT, CT, false},
		{AC, GT, AG, false},
		{AC, GT, CG, false},
		{AA, AC, AA, false},
		{AA, AC, AC, false},
		{AC, AC, AA, false},
		{AC, AC, AC, false},
		{AC, AC, CC, false},
	}
	for _, test := range tests {
		trio := Trio{test.dad, test.mom, test.child}
		assert.Equal(t, test.denovo, IsDenovo(trio), "%v|%v,%v", test.child, test.dad, test.mom)
		assert.Equal(t, !test.denovo, IsConsistentWithInheritance(test.dad, test.mom, test.child))
	}
}

func TestParseChromosome(t *testing.T) {
	for _, s := range []string{"chr1", "CHR1", "1"} {
		c, err := ParseChromosome(s)
		require.NoError(t, err, s)
		assert.Equal(t, CHR1, c)
	}
	for _, s := range []string{"X", "chrx", "chrX"} {
		c, err := ParseChromosome(s)
		require.NoError(t, err, s)
		assert.Equal(t, CHRX, c)
	}
	c, err := ParseChromosome("MT")
	require.NoError(t, err)
	assert.Equal(t, CHRM, c)
	assert.Equal(t, "chr22", CHR22.String())

	for _, s := range []string{"chr100", "chr0", "", "chrUn"} {
		_, err := ParseChromosome(s)
		assert.Error(t, err, s)
	}
}

func genotypeGen() gopter.Gen {
	return gen.IntRange(0, NGenotypes-1).Map(func(i int) Genotype {
		return Genotype(i)
	})
}

func TestInheritanceProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("parent order does not matter", prop.ForAll(
		func(dad, mom, child Genotype) bool {
			return IsConsistentWithInheritance(dad, mom, child) == IsConsistentWithInheritance(mom, dad, child)
		},
		genotypeGen(), genotypeGen(), genotypeGen(),
	))

	properties.Property("de novo is the negation of consistency", prop.ForAll(
		func(dad, mom, child Genotype) bool {
			return IsDenovo(Trio{dad, mom, child}) != IsConsistentWithInheritance(dad, mom, child)
		},
		genotypeGen(), genotypeGen(), genotypeGen(),
	))

	properties.Property("a child of homozygous parents is consistent only as their combination", prop.ForAll(
		func(a1, a2 int) bool {
			dad := FromAlleles(Allele(a1), Allele(a1))
			mom := FromAlleles(Allele(a2), Allele(a2))
			for _, child := range Genotypes {
				if IsConsistentWithInheritance(dad, mom, child) != (child == FromAlleles(Allele(a1), Allele(a2))) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, NAlleles-1), gen.IntRange(0, NAlleles-1),
	))

	properties.TestingRun(t)
}

func TestConsistentChildCount(t *testing.T) {
	for _, dad := range Genotypes {
		for _, mom := range Genotypes {
			k := 0
			for _, child := range Genotypes {
				if IsConsistentWithInheritance(dad, mom, child) {
					k++
				}
			}
			assert.True(t, k >= 1 && k <= 4, "%v x %v: %v", dad, mom, k)
		}
	}
}
