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
	"testing"

	"github.com/exascience/denovo/genotype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	s := SummaryFromCounts(map[genotype.Allele]int{genotype.T: 33, genotype.C: 15, genotype.G: 0})
	assert.Equal(t, 33, s.Count(genotype.T))
	assert.Equal(t, 48, s.Total())
	assert.Equal(t, []genotype.Allele{genotype.C, genotype.T}, s.Observed())
	assert.Equal(t, "{C=15, T=33}", s.String())

	s.Add(genotype.G, 2)
	assert.Equal(t, []genotype.Allele{genotype.C, genotype.G, genotype.T}, s.Observed())

	var empty Summary
	assert.Empty(t, empty.Observed())
	assert.Equal(t, "{}", empty.String())
	assert.Zero(t, empty.Total())
}

func TestTrioString(t *testing.T) {
	trio := Trio{
		genotype.Dad:   SummaryFromCounts(map[genotype.Allele]int{genotype.T: 28}),
		genotype.Mom:   SummaryFromCounts(map[genotype.Allele]int{genotype.T: 36}),
		genotype.Child: SummaryFromCounts(map[genotype.Allele]int{genotype.T: 33, genotype.C: 15}),
	}
	assert.Equal(t, "DAD:{T=28};MOM:{T=36};CHILD:{C=15, T=33}", trio.String())
}

func TestParseSampleOrder(t *testing.T) {
	order, err := ParseSampleOrder("child, dad,MOM")
	require.NoError(t, err)
	assert.Equal(t, SampleOrder{genotype.Child, genotype.Dad, genotype.Mom}, order)

	for _, s := range []string{"dad,mom", "dad,dad,child", "dad,mom,kid", ""} {
		_, err := ParseSampleOrder(s)
		assert.Error(t, err, s)
	}
}

func TestParseMpileupLine(t *testing.T) {
	opts := &ParseOptions{Order: DefaultSampleOrder}
	line := "chrX\t154226820\tt\t5\t..,,.\tIIIII\t4\t.,.,\tIIII\t6\t.C,c$^]cT\tIIIIII"
	site, err := ParseMpileupLine(line, opts)
	require.NoError(t, err)
	assert.Equal(t, "chrX", site.Chrom)
	assert.Equal(t, int32(154226820), site.Pos)
	assert.Equal(t, byte('T'), site.Ref)
	assert.Equal(t, "{T=5}", site.Reads[genotype.Dad].String())
	assert.Equal(t, "{T=4}", site.Reads[genotype.Mom].String())
	assert.Equal(t, "{C=3, T=3}", site.Reads[genotype.Child].String())
}

func TestParseMpileupIndelsAndGaps(t *testing.T) {
	opts := &ParseOptions{Order: DefaultSampleOrder}
	line := "1\t100\tA\t3\t.+2CG,-1t*\tIII\t0\t*\t*\t2\tG>\tII"
	site, err := ParseMpileupLine(line, opts)
	require.NoError(t, err)
	assert.Equal(t, "{A=2}", site.Reads[genotype.Dad].String())
	assert.Zero(t, site.Reads[genotype.Mom].Total())
	assert.Equal(t, "{G=1}", site.Reads[genotype.Child].String())
}

func TestParseMpileupSampleOrder(t *testing.T) {
	opts := &ParseOptions{Order: SampleOrder{genotype.Child, genotype.Mom, genotype.Dad}}
	line := "1\t100\tA\t1\tC\tI\t1\t.\tI\t1\tG\tI"
	site, err := ParseMpileupLine(line, opts)
	require.NoError(t, err)
	assert.Equal(t, "{G=1}", site.Reads[genotype.Dad].String())
	assert.Equal(t, "{A=1}", site.Reads[genotype.Mom].String())
	assert.Equal(t, "{C=1}", site.Reads[genotype.Child].String())
}

func TestParseMpileupBaseQuality(t *testing.T) {
	// '#' is phred 2, 'I' is phred 40
	opts := &ParseOptions{Order: DefaultSampleOrder, MinBaseQuality: 20}
	line := "1\t100\tA\t3\t^].C$G\tI#I\t1\t.\tI\t1\t.\t#"
	site, err := ParseMpileupLine(line, opts)
	require.NoError(t, err)
	assert.Equal(t, "{A=1, G=1}", site.Reads[genotype.Dad].String())
	assert.Equal(t, "{A=1}", site.Reads[genotype.Mom].String())
	assert.Zero(t, site.Reads[genotype.Child].Total())
}

func TestParseMpileupReferenceN(t *testing.T) {
	opts := &ParseOptions{Order: DefaultSampleOrder}
	site, err := ParseMpileupLine("1\t7\tN\t2\t.A\tII\t1\tA\tI\t1\ta\tI", opts)
	require.NoError(t, err)
	assert.Equal(t, byte('N'), site.Ref)
	assert.Equal(t, "{A=1}", site.Reads[genotype.Dad].String())
}

func TestSummaryInvalidAllele(t *testing.T) {
	s := SummaryFromCounts(map[genotype.Allele]int{genotype.A: 3, genotype.NAlleles: 5, 200: 7})
	assert.Equal(t, 3, s.Total())
	s.Add(genotype.NAlleles, 4)
	assert.Equal(t, 3, s.Total())
}

func TestSummarySaturates(t *testing.T) {
	var s Summary
	s.Add(genotype.C, math.MaxInt32-1)
	s.Add(genotype.C, 10)
	assert.Equal(t, math.MaxInt32, s.Count(genotype.C))
	s = SummaryFromCounts(map[genotype.Allele]int{genotype.T: math.MaxInt32 + 5})
	assert.Equal(t, math.MaxInt32, s.Count(genotype.T))
}

func TestParseMpileupErrors(t *testing.T) {
	opts := &ParseOptions{Order: DefaultSampleOrder}
	for _, line := range []string{
		"",
		"1\tx\tA\t1\t.\tI\t1\t.\tI\t1\t.\tI",
		"1\t0\tA\t1\t.\tI\t1\t.\tI\t1\t.\tI",
		"1\t5\tAC\t1\t.\tI\t1\t.\tI\t1\t.\tI",
		"1\t5\tA\t1\t.\tI\t1\t.\tI",
		"1\t5\tA\t1\t.\tI\t1\t.\tI\t1\t.\tI\textra",
		"1\t5\tA\t1\tZ\tI\t1\t.\tI\t1\t.\tI",
		"1\t5\tA\t1\t.+\tI\t1\t.\tI\t1\t.\tI",
		"1\t5\tA\t1\t.+5AC\tI\t1\t.\tI\t1\t.\tI",
		"chr1\t100\tA\t1\t+9223372036854775807A\tI\t1\tA\tI\t1\tA\tI",
		"chr1\t100\tA\t1\t-9223372036854775807A\tI\t1\tA\tI\t1\tA\tI",
		"1\t5\tA\t1\t.\tI\t1\t.\tI\t1\t.\tI\t",
	} {
		_, err := ParseMpileupLine(line, opts)
		assert.Error(t, err, line)
	}
}
