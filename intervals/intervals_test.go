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
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func intervalsEqual(intervals1, intervals2 []Interval) bool {
	if len(intervals1) != len(intervals2) {
		return false
	}
	for i, interval1 := range intervals1 {
		if interval1 != intervals2[i] {
			return false
		}
	}
	return true
}

func makeLargeIntervalsSlice() (result []Interval) {
	result = make([]Interval, 0x30000)
	result[0].Start = 0
	result[0].End = 3
	for i := 1; i < len(result); i++ {
		if rand.Intn(100) < 20 {
			result[i].Start = result[i-1].End - 1
		} else {
			result[i].Start = result[i-1].End + 1
		}
		result[i].End = result[i].Start + 3
	}
	return result
}

func TestFlatten(t *testing.T) {
	if Flatten(nil) != nil {
		t.Error("empty Flatten failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 3}, {3, 4}}), []Interval{{2, 4}}) {
		t.Error("Flatten 1 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 3}, {4, 5}}), []Interval{{2, 3}, {4, 5}}) {
		t.Error("Flatten 2 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 4}, {3, 5}, {4, 6}}), []Interval{{2, 6}}) {
		t.Error("Flatten 3 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 4}, {3, 5}, {4, 6}, {7, 9}}), []Interval{{2, 6}, {7, 9}}) {
		t.Error("Flatten 4 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 3}, {3, 4}, {5, 6}, {6, 7}}), []Interval{{2, 4}, {5, 7}}) {
		t.Error("Flatten 5 failed")
	}
	if !intervalsEqual(Flatten([]Interval{{2, 3}, {2, 5}, {2, 4}, {2, 3}, {2, 6}, {2, 7}}), []Interval{{2, 7}}) {
		t.Error("Flatten 6 failed")
	}
	intervals := Flatten(makeLargeIntervalsSlice())
	if intervals[0].Start > intervals[0].End {
		t.Error("Flatten 7a failed")
	}
	for i := 1; i < len(intervals); i++ {
		interval := intervals[i]
		if interval.Start > interval.End || interval.Start <= intervals[i-1].End {
			t.Error("Flatten 7b failed")
		}
	}
}
func TestParallelFlatten(t *testing.T) {
	if ParallelFlatten(nil) != nil {
		t.Error("empty ParallelFlatten failed")
	}
	if !intervalsEqual(ParallelFlatten([]Interval{{2, 3}, {3, 4}}), []Interval{{2, 4}}) {
		t.Error("ParallelFlatten 1 failed")
	}
	if !intervalsEqual(ParallelFlatten([]Interval{{2, 3}, {4, 5}}), []Interval{{2, 3}, {4, 5}}) {
		t.Error("ParallelFlatten 2 failed")
	}
	if !intervalsEqual(ParallelFlatten([]Interval{{2, 4}, {3, 5}, {4, 6}}), []Interval{{2, 6}}) {
		t.Error("ParallelFlatten 3 failed")
	}
	if !intervalsEqual(ParallelFlatten([]Interval{{2, 4}, {3, 5}, {4, 6}, {7, 9}}), []Interval{{2, 6}, {7, 9}}) {
		t.Error("ParallelFlatten 4 failed")
	}
	if !intervalsEqual(ParallelFlatten([]Interval{{2, 3}, {3, 4}, {5, 6}, {6, 7}}), []Interval{{2, 4}, {5, 7}}) {
		t.Error("ParallelFlatten 5 failed")
	}
	if !intervalsEqual(ParallelFlatten([]Interval{{2, 3}, {2, 5}, {2, 4}, {2, 3}, {2, 6}, {2, 7}}), []Interval{{2, 7}}) {
		t.Error("ParallelFlatten 6 failed")
	}
	intervals := ParallelFlatten(makeLargeIntervalsSlice())
	if intervals[0].Start > intervals[0].End {
		t.Error("ParallelFlatten 7a failed")
	}
	for i := 1; i < len(intervals); i++ {
		interval := intervals[i]
		if interval.Start > interval.End || interval.Start <= intervals[i-1].End {
			t.Error("ParallelFlatten 7b failed")
		}
	}
}

func BenchmarkFlatten(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		intervals := makeLargeIntervalsSlice()
		b.StartTimer()
		intervals = Flatten(intervals)
	}
}
func BenchmarkParallelFlatten(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		intervals := makeLargeIntervalsSlice()
		b.StartTimer()
		intervals = ParallelFlatten(intervals)
	}
}

func TestContains(t *testing.T) {
	if Contains(nil, 2) {
		t.Error("empty Contains failed")
	}
	intervals := []Interval{{2, 4}, {7, 7}, {10, 20}}
	for _, pos := range []int32{2, 3, 4, 7, 10, 15, 20} {
		if !Contains(intervals, pos) {
			t.Errorf("Contains %v failed", pos)
		}
	}
	for _, pos := range []int32{0, 1, 5, 6, 8, 9, 21, 100} {
		if Contains(intervals, pos) {
			t.Errorf("Contains %v failed", pos)
		}
	}
}

func TestNormalize(t *testing.T) {
	intervals := map[string][]Interval{
		"chr1": {{10, 20}, {2, 3}, {15, 25}, {3, 5}},
		"chr2": {{7, 9}},
		"chrX": nil,
	}
	Normalize(intervals)
	if !intervalsEqual(intervals["chr1"], []Interval{{2, 5}, {10, 25}}) {
		t.Error("Normalize chr1 failed")
	}
	if !intervalsEqual(intervals["chr2"], []Interval{{7, 9}}) {
		t.Error("Normalize chr2 failed")
	}
	if len(intervals["chrX"]) != 0 {
		t.Error("Normalize chrX failed")
	}
}

const testBed = `browser position chr1:1-1000
track name=targets
# comment
chr1	0	10	first
chr1	100	101
chr1	5	20
chr2	41	42	second	0	+

chr3	50	50
`

func checkTestBed(t *testing.T, intervals map[string][]Interval) {
	if !intervalsEqual(intervals["chr1"], []Interval{{1, 20}, {101, 101}}) {
		t.Errorf("chr1 BED intervals %v", intervals["chr1"])
	}
	if !intervalsEqual(intervals["chr2"], []Interval{{42, 42}}) {
		t.Errorf("chr2 BED intervals %v", intervals["chr2"])
	}
	if _, ok := intervals["chr3"]; ok {
		t.Error("empty BED region not skipped")
	}
	if !Contains(intervals["chr1"], 1) || Contains(intervals["chr1"], 21) || !Contains(intervals["chr2"], 42) {
		t.Error("BED coordinates not converted")
	}
}

func TestFromBed(t *testing.T) {
	intervals, err := FromBed(bufio.NewReader(strings.NewReader(testBed)))
	if err != nil {
		t.Fatal(err)
	}
	checkTestBed(t, intervals)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(testBed)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	intervals, err = FromBed(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	checkTestBed(t, intervals)

	for _, bed := range []string{"chr1\t10\n", "chr1\tx\t20\n", "chr1\t20\t10\n", "chr1\t-1\t10\n"} {
		if _, err := FromBed(bufio.NewReader(strings.NewReader(bed))); err == nil {
			t.Errorf("invalid BED %q accepted", bed)
		}
	}
}

func TestElsitesFile(t *testing.T) {
	dir := t.TempDir()
	bedFile := filepath.Join(dir, "targets.bed")
	elsitesFile := filepath.Join(dir, "targets.elsites")
	if err := os.WriteFile(bedFile, []byte(testBed), 0644); err != nil {
		t.Fatal(err)
	}
	intervals, err := FromFile(bedFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := ToElsitesFile(intervals, elsitesFile); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(elsitesFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != ElsitesHeader+"chr1\t1\t20\nchr1\t101\t101\nchr2\t42\t42\n" {
		t.Errorf("unexpected .elsites content %q", content)
	}
	loaded, err := FromFile(elsitesFile)
	if err != nil {
		t.Fatal(err)
	}
	checkTestBed(t, loaded)

	if err := os.WriteFile(elsitesFile, []byte("chr1\t1\t20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromElsitesFile(elsitesFile); err == nil {
		t.Error("missing .elsites header accepted")
	}
	if err := os.WriteFile(elsitesFile, []byte(ElsitesHeader+"chr1\t20\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromElsitesFile(elsitesFile); err == nil {
		t.Error("invalid .elsites line accepted")
	}
}
