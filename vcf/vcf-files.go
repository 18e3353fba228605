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
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/exascience/denovo/bayes"
	"github.com/exascience/denovo/caller"
	"github.com/exascience/denovo/genotype"
	"github.com/exascience/denovo/reads"
	"github.com/klauspost/compress/gzip"
)

// FormatString outputs a string to a VCF file, adding necessary double quotes and escapes
func FormatString(out io.ByteWriter, str string) error {
	_ = out.WriteByte('"')
	for i := 0; i < len(str); i++ {
		b := str[i]
		if b == '"' || b == '\\' {
			_ = out.WriteByte('\\')
		}
		_ = out.WriteByte(b)
	}
	return out.WriteByte('"')
}

// FormatFormatInformation outputs VCF info or format information
func FormatFormatInformation(out *bufio.Writer, format *FormatInformation) error {
	_, _ = out.WriteString("<ID=")
	_, _ = out.WriteString(format.ID)
	_, _ = out.WriteString(",Number=")
	_, _ = out.WriteString(format.Number)
	_, _ = out.WriteString(",Type=")
	_, _ = out.WriteString(format.Type.String())
	if format.Description != "" {
		_, _ = out.WriteString(",Description=")
		_ = FormatString(out, format.Description)
	}
	_, err := out.WriteString(">\n")
	return err
}

func formatFloat(out []byte, f float64) []byte {
	return strconv.AppendFloat(out, f, 'g', -1, 64)
}

// Format outputs a VCF header
func (header *Header) Format(out *bufio.Writer) (err error) {
	_, _ = out.WriteString(FileFormatVersionLine)
	_ = out.WriteByte('\n')
	_, _ = out.WriteString("##source=")
	_, _ = out.WriteString(header.Source)
	_ = out.WriteByte('\n')
	_, _ = out.WriteString("##denovoRunID=")
	_, _ = out.WriteString(header.RunID)
	_ = out.WriteByte('\n')

	cfg := &header.Config
	buf := []byte("##denovoConfig=<SequenceErrorRate=")
	buf = formatFloat(buf, cfg.SequenceErrorRate)
	buf = append(buf, ",DenovoMutationRate="...)
	buf = formatFloat(buf, cfg.DenovoMutationRate)
	buf = append(buf, ",Method="...)
	buf = append(buf, cfg.Method.String()...)
	buf = append(buf, ",LRTThreshold="...)
	buf = formatFloat(buf, cfg.LRTThreshold)
	buf = append(buf, ",LogPriors="...)
	buf = strconv.AppendBool(buf, cfg.LogPriors)
	buf = append(buf, ",WeightByCount="...)
	buf = strconv.AppendBool(buf, cfg.WeightByCount)
	buf = append(buf, ">\n"...)
	_, _ = out.Write(buf)

	for _, meta := range header.Meta {
		_, _ = out.WriteString("##")
		_, _ = out.WriteString(meta[0])
		_ = out.WriteByte('=')
		_, _ = out.WriteString(meta[1])
		_ = out.WriteByte('\n')
	}
	for _, info := range Infos {
		_, _ = out.WriteString("##INFO=")
		_ = FormatFormatInformation(out, info)
	}
	for _, format := range Formats {
		_, _ = out.WriteString("##FORMAT=")
		_ = FormatFormatInformation(out, format)
	}
	_ = out.WriteByte('#')
	_, _ = out.WriteString(DefaultHeaderColumns[0])
	for _, col := range DefaultHeaderColumns[1:] {
		_ = out.WriteByte('\t')
		_, _ = out.WriteString(col)
	}
	_, _ = out.WriteString("\tFORMAT")
	for _, sample := range header.Samples {
		_ = out.WriteByte('\t')
		_, _ = out.WriteString(sample)
	}
	return out.WriteByte('\n')
}

// refBase returns the reference base of a site, or the first base
// observed in any trio member if the pileup has no reference base.
func refBase(site *reads.Site) byte {
	if _, ok := genotype.AlleleFromByte(site.Ref); ok {
		return site.Ref
	}
	for _, a := range genotype.Alleles {
		for _, m := range genotype.Members {
			if site.Reads[m].Count(a) > 0 {
				return a.Byte()
			}
		}
	}
	return 'N'
}

// alleles returns the reference base followed by the other alleles of
// the trio genotype in alphabet order.
func alleles(ref byte, trio genotype.Trio) []byte {
	var present [genotype.NAlleles]bool
	for _, g := range trio {
		a1, a2 := g.Alleles()
		present[a1], present[a2] = true, true
	}
	result := []byte{ref}
	for _, a := range genotype.Alleles {
		if present[a] && a.Byte() != ref {
			result = append(result, a.Byte())
		}
	}
	return result
}

func alleleIndex(alleles []byte, a genotype.Allele) int {
	for i, b := range alleles {
		if b == a.Byte() {
			return i
		}
	}
	return -1
}

// FormatRecord appends the VCF record of a call to out.
func FormatRecord(out []byte, site *reads.Site, call *bayes.Call) []byte {
	bases := alleles(refBase(site), call.Trio)

	out = append(out, site.Chrom...)
	out = append(out, '\t')
	out = strconv.AppendInt(out, int64(site.Pos), 10)
	out = append(out, "\t.\t"...)
	out = append(out, bases[0], '\t')
	if len(bases) == 1 {
		out = append(out, '.')
	} else {
		for i, a := range bases[1:] {
			if i > 0 {
				out = append(out, ',')
			}
			out = append(out, a)
		}
	}
	out = append(out, "\t.\t"...)
	out = append(out, PASS...)
	out = append(out, '\t')
	if call.Denovo {
		out = append(out, DN...)
		out = append(out, ';')
	}
	out = append(out, LLR...)
	out = append(out, '=')
	out = strconv.AppendFloat(out, call.LogLikelihoodRatio, 'f', 4, 64)
	out = append(out, ';')
	out = append(out, MAPS...)
	out = append(out, '=')
	out = strconv.AppendFloat(out, call.Score, 'f', 4, 64)
	out = append(out, '\t')
	out = append(out, GT...)
	out = append(out, ':')
	out = append(out, BC...)
	for _, m := range genotype.Members {
		out = append(out, '\t')
		a1, a2 := call.Trio[m].Alleles()
		i1, i2 := alleleIndex(bases, a1), alleleIndex(bases, a2)
		if i1 > i2 {
			i1, i2 = i2, i1
		}
		out = strconv.AppendInt(out, int64(i1), 10)
		out = append(out, '/')
		out = strconv.AppendInt(out, int64(i2), 10)
		out = append(out, ':')
		for i, a := range genotype.Alleles {
			if i > 0 {
				out = append(out, ',')
			}
			out = strconv.AppendInt(out, int64(site.Reads[m].Count(a)), 10)
		}
	}
	return append(out, '\n')
}

// Sink returns a caller.Sink that writes a VCF record for every call,
// or only for the de novo calls if denovoOnly is true.
func Sink(out *bufio.Writer, denovoOnly bool) caller.Sink {
	var buf []byte
	return func(result *caller.Result) error {
		if denovoOnly && !result.Call.Denovo {
			return nil
		}
		buf = FormatRecord(buf[:0], &result.Site, &result.Call)
		_, err := out.Write(buf)
		return err
	}
}

// GzExt is the extension of compressed VCF files.
const GzExt = ".gz"

// OutputFile represents a VCF file for output.
type OutputFile struct {
	wc io.WriteCloser
	gz *gzip.Writer
	*bufio.Writer
}

// Create a VCF file for output.
//
// If the filename extension is .gz, or compressed is true, the output
// is gzip-compressed.
//
// If the name is "/dev/stdout", then the output is written to
// os.Stdout.
func Create(name string, compressed bool) (*OutputFile, error) {
	var wc io.WriteCloser
	if name == "/dev/stdout" {
		wc = os.Stdout
	} else {
		file, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		wc = file
	}
	if filepath.Ext(name) == GzExt || compressed {
		gz := gzip.NewWriter(wc)
		return &OutputFile{wc, gz, bufio.NewWriter(gz)}, nil
	}
	return &OutputFile{wc, nil, bufio.NewWriter(wc)}, nil
}

// Close the VCF output file.
func (output *OutputFile) Close() error {
	if err := output.Flush(); err != nil {
		return err
	}
	if output.gz != nil {
		if err := output.gz.Close(); err != nil {
			return err
		}
	}
	if output.wc != os.Stdout {
		return output.wc.Close()
	}
	return nil
}
