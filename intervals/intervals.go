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

package intervals

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/exascience/denovo/utils"
	"github.com/exascience/pargo/parallel"
	"github.com/exascience/pargo/pipeline"
	psort "github.com/exascience/pargo/sort"
)

// Interval is a range of 1-based chromosome positions, including both
// Start and End.
type Interval struct {
	Start, End int32
}

// SortByStart sorts a slice of Interval by Start position.
func SortByStart(intervals []Interval) {
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start < intervals[j].Start
	})
}

type stableIntervalSorter []Interval

func (s stableIntervalSorter) SequentialSort(i, j int) {
	SortByStart(s[i:j])
}

func (s stableIntervalSorter) NewTemp() psort.StableSorter {
	return stableIntervalSorter(make([]Interval, len(s)))
}

func (s stableIntervalSorter) Len() int {
	return len(s)
}

func (s stableIntervalSorter) Less(i, j int) bool {
	return s[i].Start < s[j].Start
}

func (s stableIntervalSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(stableIntervalSorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// ParallelSortByStart sorts a slice of Interval by Start position using
// a parallel stable sort.
func ParallelSortByStart(intervals []Interval) {
	psort.StableSort(stableIntervalSorter(intervals))
}

// Extend makes interval1 larger if it overlaps with interval2, and
// reports whether they overlap. interval2.Start >= interval1.Start must
// hold.
func (interval1 *Interval) Extend(interval2 Interval) bool {
	if interval2.Start > interval1.End {
		return false
	}
	if interval2.End > interval1.End {
		interval1.End = interval2.End
	}
	return true
}

// Flatten merges overlapping intervals into larger intervals.
// intervals must be sorted by Start before calling Flatten.
// The result shares memory with the intervals argument.
func Flatten(intervals []Interval) []Interval {
	for i, n := 0, len(intervals)-1; i < n; i++ {
		if intervals[i].Extend(intervals[i+1]) {
			n++
			for j := i + 1; j < n; j++ {
				if !intervals[i].Extend(intervals[j]) {
					i++
					intervals[i] = intervals[j]
				}
			}
			return intervals[:i+1]
		}
	}
	return intervals
}

const parallelFlattenGrainSize = 0x1000

// ParallelFlatten is Flatten with a parallel divide-and-conquer
// algorithm.
func ParallelFlatten(intervals []Interval) []Interval {
	if len(intervals) < parallelFlattenGrainSize {
		return Flatten(intervals)
	}
	half := len(intervals) >> 1
	left, right := intervals[:half], intervals[half:]
	parallel.Do(
		func() { left = ParallelFlatten(left) },
		func() { right = ParallelFlatten(right) },
	)
	for len(right) > 0 && left[len(left)-1].Extend(right[0]) {
		right = right[1:]
	}
	return append(left, right...)
}

// Normalize sorts and flattens the intervals of every chromosome in
// place.
func Normalize(intervals map[string][]Interval) {
	chroms := make([]string, 0, len(intervals))
	for chrom := range intervals {
		chroms = append(chroms, chrom)
	}
	flattened := make([][]Interval, len(chroms))
	parallel.Range(0, len(chroms), 0, func(low, high int) {
		for i := low; i < high; i++ {
			ivals := intervals[chroms[i]]
			ParallelSortByStart(ivals)
			flattened[i] = ParallelFlatten(ivals)
		}
	})
	for i, chrom := range chroms {
		intervals[chrom] = flattened[i]
	}
}

// Contains determines whether pos lies in one of the intervals.
// intervals must be flattened and sorted by Start.
func Contains(intervals []Interval, pos int32) bool {
	i := sort.Search(len(intervals), func(i int) bool {
		return intervals[i].End >= pos
	})
	return i < len(intervals) && intervals[i].Start <= pos
}

// ElsitesHeader is the header line that every .elsites file starts with.
const ElsitesHeader = "# elsites format version 1.0\n"

// ToElsitesFile stores intervals in an .elsites file, chromosome by
// chromosome in lexical order.
func ToElsitesFile(intervals map[string][]Interval, filename string) (err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	output, err := os.Create(pathname)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := output.Close(); nerr != nil {
			if err == nil {
				err = nerr
			}
		}
	}()
	if _, err = output.WriteString(ElsitesHeader); err != nil {
		return err
	}
	chroms := make([]string, 0, len(intervals))
	for chrom := range intervals {
		chroms = append(chroms, chrom)
	}
	sort.Strings(chroms)
	for _, chrom := range chroms {
		var buf []byte
		for _, ival := range intervals[chrom] {
			buf = append(buf, chrom...)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(ival.Start), 10)
			buf = append(buf, '\t')
			buf = strconv.AppendInt(buf, int64(ival.End), 10)
			buf = append(buf, '\n')
		}
		if _, err = output.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func parseElsitesLine(str string) (chrom string, interval Interval, err error) {
	fields := strings.Split(str, "\t")
	if len(fields) != 3 || fields[0] == "" {
		return "", interval, fmt.Errorf("invalid sites line %v", str)
	}
	start, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return "", interval, err
	}
	end, err := strconv.ParseInt(fields[2], 10, 32)
	if err != nil {
		return "", interval, err
	}
	if start < 1 || end < start {
		return "", interval, fmt.Errorf("invalid interval in sites line %v", str)
	}
	return fields[0], Interval{Start: int32(start), End: int32(end)}, nil
}

// FromElsitesFile loads intervals from an .elsites file. The result is
// normalized.
func FromElsitesFile(filename string) (intervals map[string][]Interval, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := in.Close(); nerr != nil {
			if err == nil {
				err = nerr
			}
		}
	}()
	input := bufio.NewReader(in)
	header, err := input.ReadString('\n')
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%v is not a .elsites file - %w", filename, err))
	}
	if header != ElsitesHeader {
		return nil, pfx.Err(fmt.Errorf("%v is not a .elsites file - invalid header", filename))
	}
	var p pipeline.Pipeline
	p.Source(pipeline.NewScanner(input))
	p.Add(pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
		intervals := make(map[string][]Interval)
		for _, str := range data.([]string) {
			chrom, interval, err := parseElsitesLine(str)
			if err != nil {
				p.SetErr(err)
				return intervals
			}
			intervals[chrom] = append(intervals[chrom], interval)
		}
		return intervals
	})))
	intervals = make(map[string][]Interval)
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		for chrom, ivals := range data.(map[string][]Interval) {
			intervals[chrom] = append(intervals[chrom], ivals...)
		}
		return data
	})))
	p.Run()
	if err = p.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	Normalize(intervals)
	return intervals, nil
}

// FromBed reads BED entries, converting their 0-based half-open
// coordinates to 1-based closed intervals. Header, track, and browser
// lines are skipped. The result is normalized.
func FromBed(input *bufio.Reader) (map[string][]Interval, error) {
	reader, err := utils.HandleGzip(input)
	if err != nil {
		return nil, pfx.Err(err)
	}
	intervals := make(map[string][]Interval)
	scanner := bufio.NewScanner(reader)
	for lineNr := 1; scanner.Scan(); lineNr++ {
		line := scanner.Text()
		if line == "" ||
			strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") ||
			strings.HasPrefix(line, "browser") {
			continue
		}
		data := strings.Fields(line)
		if len(data) < 3 {
			return nil, pfx.Err(fmt.Errorf("invalid BED line %v: %v", lineNr, line))
		}
		start, err := strconv.ParseInt(data[1], 10, 32)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("invalid BED line %v: %w", lineNr, err))
		}
		end, err := strconv.ParseInt(data[2], 10, 32)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("invalid BED line %v: %w", lineNr, err))
		}
		if start < 0 || end < start {
			return nil, pfx.Err(fmt.Errorf("invalid BED region on line %v: %v", lineNr, line))
		}
		if end == start {
			continue
		}
		intervals[data[0]] = append(intervals[data[0]], Interval{Start: int32(start) + 1, End: int32(end)})
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	Normalize(intervals)
	return intervals, nil
}

// FromBedFile reads a possibly compressed BED file with FromBed.
func FromBedFile(filename string) (intervals map[string][]Interval, err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(pathname)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := in.Close(); nerr != nil {
			if err == nil {
				intervals = nil
				err = nerr
			}
		}
	}()
	return FromBed(bufio.NewReader(in))
}

// FromFile loads intervals from an .elsites file if filename has the
// .elsites extension, and from a BED file otherwise.
func FromFile(filename string) (map[string][]Interval, error) {
	if filepath.Ext(filename) == ".elsites" {
		return FromElsitesFile(filename)
	}
	return FromBedFile(filename)
}
