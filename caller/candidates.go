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

package caller

import (
	"io"
	"strconv"
)

// CandidateSink returns a sink that writes one line per de novo call:
// chromosome, position, and the diagnostic record of the call,
// separated by tabs.
func CandidateSink(w io.Writer) Sink {
	var buf []byte
	return func(result *Result) error {
		if !result.Call.Denovo {
			return nil
		}
		buf = append(buf[:0], result.Site.Chrom...)
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(result.Site.Pos), 10)
		buf = append(buf, '\t')
		buf = append(buf, result.Call.String()...)
		buf = append(buf, '\n')
		_, err := w.Write(buf)
		return err
	}
}
