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
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/exascience/denovo/genotype"
)

// SampleOrder maps the sample columns of an mpileup line to trio
// roles: SampleOrder[i] is the role of the i-th sample.
type SampleOrder [genotype.NMembers]genotype.TrioMember

// DefaultSampleOrder expects the father, then the mother, then the
// child, which is the order of
//
//	samtools mpileup dad.bam mom.bam child.bam
var DefaultSampleOrder = SampleOrder{genotype.Dad, genotype.Mom, genotype.Child}

// ParseSampleOrder parses a comma-separated list of the three roles,
// such as "child,dad,mom". Each role must occur exactly once.
func ParseSampleOrder(s string) (order SampleOrder, err error) {
	names := strings.Split(s, ",")
	if len(names) != genotype.NMembers {
		return order, fmt.Errorf("sample order %q does not list %d trio members", s, genotype.NMembers)
	}
	var seen [genotype.NMembers]bool
	for i, name := range names {
		m, err := genotype.ParseTrioMember(strings.TrimSpace(name))
		if err != nil {
			return order, err
		}
		if seen[m] {
			return order, fmt.Errorf("sample order %q lists %v more than once", s, m)
		}
		seen[m] = true
		order[i] = m
	}
	return order, nil
}

// ParseOptions control how mpileup lines are turned into sites.
type ParseOptions struct {
	Order SampleOrder
	// Bases with a phred-scaled quality below MinBaseQuality are not
	// counted. Zero counts every base.
	MinBaseQuality int
}

const mpileupSiteColumns = 3

// ParseMpileup parses one line of samtools mpileup output for three
// samples: chromosome, 1-based position, reference base, followed by
// depth, read bases, and base qualities for each sample.
func (sc *StringScanner) ParseMpileup(opts *ParseOptions) (site Site) {
	chrom, ok := sc.readField()
	if !ok || chrom == "" {
		sc.setErr(fmt.Errorf("missing chromosome"))
		return
	}
	site.Chrom = chrom
	posField, ok := sc.readField()
	if !ok {
		sc.setErr(fmt.Errorf("missing position"))
		return
	}
	pos, err := strconv.ParseInt(posField, 10, 32)
	if err != nil {
		sc.setErr(err)
		return
	}
	if pos < 1 {
		sc.setErr(fmt.Errorf("invalid position %v", pos))
		return
	}
	site.Pos = int32(pos)
	refField, ok := sc.readField()
	if !ok || len(refField) != 1 {
		sc.setErr(fmt.Errorf("invalid reference base %q", refField))
		return
	}
	site.Ref = 'N'
	if a, ok := genotype.AlleleFromByte(refField[0]); ok {
		site.Ref = a.Byte()
	}
	for sample := 0; sample < genotype.NMembers; sample++ {
		depthField, ok1 := sc.readField()
		bases, ok2 := sc.readField()
		quals, ok3 := sc.readField()
		if !(ok1 && ok2 && ok3) {
			sc.setErr(fmt.Errorf("expected %v columns for %v samples", mpileupSiteColumns+3*genotype.NMembers, genotype.NMembers))
			return
		}
		depth, err := strconv.Atoi(depthField)
		if err != nil {
			sc.setErr(err)
			return
		}
		if depth == 0 {
			continue
		}
		summary := &site.Reads[opts.Order[sample]]
		if err := countBases(summary, site.Ref, bases, quals, opts.MinBaseQuality); err != nil {
			sc.setErr(err)
			return
		}
	}
	if sc.Len() > 0 || !sc.done {
		sc.setErr(fmt.Errorf("expected %v columns for %v samples", mpileupSiteColumns+3*genotype.NMembers, genotype.NMembers))
	}
	return
}

// ParseMpileupLine parses a single mpileup line, see
// StringScanner.ParseMpileup.
func ParseMpileupLine(line string, opts *ParseOptions) (Site, error) {
	var sc StringScanner
	sc.Reset(line)
	site := sc.ParseMpileup(opts)
	if err := sc.Err(); err != nil {
		return site, pfx.Err(fmt.Errorf("%v, while parsing mpileup line %q", err, line))
	}
	return site, nil
}

func countBases(summary *Summary, ref byte, bases, quals string, minBaseQuality int) error {
	q := 0
	for i := 0; i < len(bases); i++ {
		c := bases[i]
		switch c {
		case '^':
			// the next byte is the mapping quality of the read
			i++
			continue
		case '$':
			continue
		case '+', '-':
			j := i + 1
			for j < len(bases) && bases[j] >= '0' && bases[j] <= '9' {
				j++
			}
			if j == i+1 {
				return fmt.Errorf("indel without length in read bases %q", bases)
			}
			n, err := strconv.Atoi(bases[i+1 : j])
			if err != nil {
				return err
			}
			if n > len(bases)-j {
				return fmt.Errorf("truncated indel in read bases %q", bases)
			}
			i = j + n - 1
			continue
		}
		qual := q
		q++
		if minBaseQuality > 0 {
			if qual >= len(quals) {
				return fmt.Errorf("read bases %q have more entries than base qualities %q", bases, quals)
			}
			if int(quals[qual])-33 < minBaseQuality {
				continue
			}
		}
		switch c {
		case '.', ',':
			if a, ok := genotype.AlleleFromByte(ref); ok {
				summary.Add(a, 1)
			}
		case '*', '#', '<', '>', 'N', 'n':
		default:
			a, ok := genotype.AlleleFromByte(c)
			if !ok {
				return fmt.Errorf("invalid base %q in read bases %q", c, bases)
			}
			summary.Add(a, 1)
		}
	}
	return nil
}
