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

// A StringScanner splits tab-separated lines of pileup files into
// fields without allocating.
//
// The zero StringScanner is valid and empty.
type StringScanner struct {
	index int
	data  string
	done  bool
	err   error
}

// Reset resets the scanner, and initializes it with the given string.
func (sc *StringScanner) Reset(s string) {
	sc.index = 0
	sc.data = s
	sc.done = false
	sc.err = nil
}

// Len returns the number of ASCII characters that still need to be
// scanned/parsed.
func (sc *StringScanner) Len() int {
	return len(sc.data) - sc.index
}

// Err returns the first error encountered while parsing, if any.
func (sc *StringScanner) Err() error {
	return sc.err
}

func (sc *StringScanner) setErr(err error) {
	if sc.err == nil {
		sc.err = err
	}
}

func (sc *StringScanner) readUntilByte(c byte) (s string, found bool) {
	start := sc.index
	for end := sc.index; end < len(sc.data); end++ {
		if sc.data[end] == c {
			sc.index = end + 1
			return sc.data[start:end], true
		}
	}
	sc.index = len(sc.data)
	return sc.data[start:], false
}

// readField returns the next tab-separated field. The second result
// is false if there are no fields left.
func (sc *StringScanner) readField() (string, bool) {
	if sc.done {
		return "", false
	}
	s, found := sc.readUntilByte('\t')
	if !found {
		sc.done = true
		if n := len(s); n > 0 && s[n-1] == '\r' {
			s = s[:n-1]
		}
	}
	return s, true
}
