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

package cmd

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/exascience/denovo/bayes"
	"github.com/exascience/denovo/caller"
	"github.com/exascience/denovo/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPileup = "chrX\t154226820\tT\t28\t............................\tIIIIIIIIIIIIIIIIIIIIIIIIIIII\t" +
	"2\t..\tII\t4\t..CC\tIIII\n" +
	"chr1\t100\tG\t3\t...\tIII\t3\t...\tIII\t3\t...\tIII\n"

func TestLoadEnvironment(t *testing.T) {
	for _, key := range []string{"DENOVO_SEQ_ERR_RATE", "DENOVO_DENOVO_MUT_RATE", "DENOVO_NR_OF_THREADS", "DENOVO_LOG_PATH"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	env, err := LoadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, bayes.DefaultSequenceErrorRate, env.SequenceErrorRate)
	assert.Equal(t, bayes.DefaultDenovoMutationRate, env.DenovoMutationRate)
	assert.Zero(t, env.NrOfThreads)
	assert.Empty(t, env.LogPath)

	t.Setenv("DENOVO_SEQ_ERR_RATE", "0.001")
	t.Setenv("DENOVO_NR_OF_THREADS", "8")
	t.Setenv("DENOVO_LOG_PATH", "/var/log")
	env, err = LoadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, 0.001, env.SequenceErrorRate)
	assert.Equal(t, 8, env.NrOfThreads)
	assert.Equal(t, "/var/log", env.LogPath)

	t.Setenv("DENOVO_NR_OF_THREADS", "many")
	_, err = LoadEnvironment()
	assert.Error(t, err)
}

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestChecks(t *testing.T) {
	buf := captureLog(t)
	dir := t.TempDir()
	existing := filepath.Join(dir, "trio.mpileup")
	require.NoError(t, os.WriteFile(existing, []byte(testPileup), 0644))

	assert.True(t, checkExist("", existing))
	assert.False(t, checkExist("--target-regions", filepath.Join(dir, "missing.bed")))
	assert.Contains(t, buf.String(), "does not exist for command line parameter --target-regions")
	assert.False(t, checkExist("", ""))
	assert.False(t, checkExist("", "--db"))

	created := filepath.Join(dir, "out", "candidates.txt")
	assert.True(t, checkCreate("--candidates", created))
	_, err := os.Stat(created)
	assert.True(t, os.IsNotExist(err))
	assert.True(t, checkCreate("--candidates", existing))
	assert.False(t, checkCreate("--candidates", ""))
}

func TestCreateLogFilename(t *testing.T) {
	name := createLogFilename()
	assert.True(t, strings.HasPrefix(name, "logs/denovo/denovo-"))
	assert.True(t, strings.HasSuffix(name, ".log"))
}

func TestLogSink(t *testing.T) {
	model := bayes.NewModel(bayes.DefaultConfig())
	for level, expected := range []int{0, 1, 2} {
		buf := captureLog(t)
		_, err := caller.CallSites(strings.NewReader(testPileup), model, caller.DefaultOptions(), logSink(level))
		require.NoError(t, err)
		assert.Equal(t, expected, strings.Count(buf.String(), "readCounts="), "debug level %v", level)
	}
}

func TestRunCall(t *testing.T) {
	captureLog(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "trio.mpileup")
	require.NoError(t, os.WriteFile(input, []byte(testPileup), 0644))
	candidates := filepath.Join(dir, "candidates.txt")
	outputVcf := filepath.Join(dir, "candidates.vcf")
	dbFile := filepath.Join(dir, "calls.db")

	model := bayes.NewModel(bayes.DefaultConfig())
	opts := caller.DefaultOptions()
	require.NoError(t, runCall(input, "denovo call trio.mpileup", model, &opts, candidates, outputVcf, dbFile, DebugErrors))

	content, err := os.ReadFile(candidates)
	require.NoError(t, err)
	assert.Equal(t,
		"chrX\t154226820\treadCounts=DAD:{T=28};MOM:{T=2};CHILD:{C=2, T=2},maxGenoType=[TT, TT, CT],isDenovo=true\n",
		string(content))

	content, err = os.ReadFile(outputVcf)
	require.NoError(t, err)
	vcfText := string(content)
	assert.Contains(t, vcfText, "##denovoCommand=denovo call trio.mpileup\n")
	var records []string
	var runID string
	for _, line := range strings.Split(strings.TrimSuffix(vcfText, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "##denovoRunID="):
			runID = strings.TrimPrefix(line, "##denovoRunID=")
		case !strings.HasPrefix(line, "#"):
			records = append(records, line)
		}
	}
	require.Len(t, records, 1)
	assert.True(t, strings.HasPrefix(records[0], "chrX\t154226820\t.\tT\tC\t"))

	db, err := store.Open(dbFile)
	require.NoError(t, err)
	defer db.Close()
	run, err := db.Run(runID)
	require.NoError(t, err)
	assert.Equal(t, input, run.Input)
	calls, err := db.Calls(runID)
	require.NoError(t, err)
	assert.Len(t, calls, 2)
	denovo, err := db.Denovo(runID)
	require.NoError(t, err)
	require.Len(t, denovo, 1)
	assert.Equal(t, "CT", denovo[0].Child)
}
