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

package vcf

import (
	"github.com/exascience/denovo/bayes"
	"github.com/exascience/denovo/genotype"
	"github.com/google/uuid"
)

// The supported VCF file format version.
const (
	FileFormatVersion     = "VCFv4.3"
	FileFormatVersionLine = "##fileformat=VCFv4.3"
)

// DefaultHeaderColumns for VCF files, before the FORMAT column and the
// sample columns.
var DefaultHeaderColumns = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}

// Type is an enumeration type for the VCF field types used by
// candidate files.
type Type uint

// The different VCF field types
const (
	InvalidType Type = iota
	Integer
	Float
	Flag
	String
)

func (t Type) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Flag:
		return "Flag"
	case String:
		return "String"
	default:
		return "Invalid"
	}
}

// Commonly used VCF entries.
const (
	DN   = "DN"
	LLR  = "LLR"
	MAPS = "MAPS"
	GT   = "GT"
	BC   = "BC"
	PASS = "PASS"
)

// FormatInformation describes an INFO or FORMAT field in the header.
type FormatInformation struct {
	ID          string
	Number      string // a count, or one of "A", "R", "G", "."
	Type        Type
	Description string
}

// Infos are the INFO fields of candidate records.
var Infos = []*FormatInformation{
	{ID: DN, Number: "0", Type: Flag, Description: "The trio genotype is not consistent with Mendelian inheritance"},
	{ID: LLR, Number: "1", Type: Float, Description: "Score of the best de novo trio genotype minus the score of the best inherited one"},
	{ID: MAPS, Number: "1", Type: Float, Description: "Score of the maximum a posteriori trio genotype"},
}

// Formats are the FORMAT fields of candidate records.
var Formats = []*FormatInformation{
	{ID: GT, Number: "1", Type: String, Description: "Genotype"},
	{ID: BC, Number: "4", Type: Integer, Description: "Read counts of the bases A, C, G, and T"},
}

// Header of a candidate VCF file.
type Header struct {
	RunID   string
	Source  string
	Config  bayes.Config
	Meta    [][2]string // extra ##key=value lines
	Samples [genotype.NMembers]string
}

// NewHeader returns a header for a run with the given configuration
// and a fresh run ID. The samples are named after their trio roles.
func NewHeader(source string, cfg bayes.Config) *Header {
	header := &Header{
		RunID:  uuid.NewString(),
		Source: source,
		Config: cfg,
	}
	for _, m := range genotype.Members {
		header.Samples[m] = m.String()
	}
	return header
}
