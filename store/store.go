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

package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/exascience/denovo/bayes"
	"github.com/exascience/denovo/caller"
	"github.com/exascience/denovo/genotype"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	input TEXT NOT NULL,
	seq_err_rate REAL NOT NULL,
	denovo_mut_rate REAL NOT NULL,
	method TEXT NOT NULL,
	lrt_threshold REAL NOT NULL,
	log_priors INTEGER NOT NULL,
	weight_by_count INTEGER NOT NULL,
	started INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS calls (
	run_id TEXT NOT NULL REFERENCES runs(id),
	ordinal INTEGER NOT NULL,
	chrom TEXT NOT NULL,
	pos INTEGER NOT NULL,
	ref TEXT NOT NULL,
	dad TEXT NOT NULL,
	mom TEXT NOT NULL,
	child TEXT NOT NULL,
	dad_counts TEXT NOT NULL,
	mom_counts TEXT NOT NULL,
	child_counts TEXT NOT NULL,
	score REAL NOT NULL,
	llr REAL NOT NULL,
	denovo INTEGER NOT NULL,
	PRIMARY KEY (run_id, ordinal)
);
CREATE INDEX IF NOT EXISTS calls_denovo ON calls(run_id, denovo);
`

// Run is a row of the runs table.
type Run struct {
	ID                 string  `db:"id"`
	Input              string  `db:"input"`
	SequenceErrorRate  float64 `db:"seq_err_rate"`
	DenovoMutationRate float64 `db:"denovo_mut_rate"`
	Method             string  `db:"method"`
	LRTThreshold       float64 `db:"lrt_threshold"`
	LogPriors          bool    `db:"log_priors"`
	WeightByCount      bool    `db:"weight_by_count"`
	Started            int64   `db:"started"` // unix time
}

// Call is a row of the calls table.
type Call struct {
	RunID       string  `db:"run_id"`
	Ordinal     int     `db:"ordinal"`
	Chrom       string  `db:"chrom"`
	Pos         int32   `db:"pos"`
	Ref         string  `db:"ref"`
	Dad         string  `db:"dad"`
	Mom         string  `db:"mom"`
	Child       string  `db:"child"`
	DadCounts   string  `db:"dad_counts"`
	MomCounts   string  `db:"mom_counts"`
	ChildCounts string  `db:"child_counts"`
	Score       float64 `db:"score"`
	LLR         float64 `db:"llr"`
	Denovo      bool    `db:"denovo"`
}

// A Store keeps runs and their calls in an SQLite database.
type Store struct {
	DB *sqlx.DB
}

// Open opens or creates the SQLite database at path.
func Open(path string) (*Store, error) {
	// URI filenames have to begin with 'file:'.
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	// SQLite serializes writers, and pragmas are per connection.
	db.SetMaxOpenConns(1)
	if _, err = db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, pfx.Err(err)
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, pfx.Err(err)
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// NewRun records a run of the given configuration over input. If id is
// empty, a fresh ID is generated.
func (s *Store) NewRun(id, input string, cfg bayes.Config) (*Run, error) {
	if id == "" {
		id = uuid.NewString()
	}
	run := &Run{
		ID:                 id,
		Input:              input,
		SequenceErrorRate:  cfg.SequenceErrorRate,
		DenovoMutationRate: cfg.DenovoMutationRate,
		Method:             cfg.Method.String(),
		LRTThreshold:       cfg.LRTThreshold,
		LogPriors:          cfg.LogPriors,
		WeightByCount:      cfg.WeightByCount,
		Started:            time.Now().Unix(),
	}
	if _, err := s.DB.NamedExec(`INSERT INTO runs
		(id, input, seq_err_rate, denovo_mut_rate, method, lrt_threshold, log_priors, weight_by_count, started)
		VALUES (:id, :input, :seq_err_rate, :denovo_mut_rate, :method, :lrt_threshold, :log_priors, :weight_by_count, :started)`,
		run); err != nil {
		return nil, pfx.Err(err)
	}
	return run, nil
}

// Run returns the run with the given ID.
func (s *Store) Run(id string) (*Run, error) {
	var run Run
	if err := s.DB.Get(&run, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return nil, pfx.Err(fmt.Errorf("run %v: %w", id, err))
	}
	return &run, nil
}

// NewCall converts a caller result into a row of the given run.
func NewCall(runID string, result *caller.Result) Call {
	site, call := &result.Site, &result.Call
	return Call{
		RunID:       runID,
		Ordinal:     result.Ordinal,
		Chrom:       site.Chrom,
		Pos:         site.Pos,
		Ref:         string(site.Ref),
		Dad:         call.Trio[genotype.Dad].String(),
		Mom:         call.Trio[genotype.Mom].String(),
		Child:       call.Trio[genotype.Child].String(),
		DadCounts:   site.Reads[genotype.Dad].String(),
		MomCounts:   site.Reads[genotype.Mom].String(),
		ChildCounts: site.Reads[genotype.Child].String(),
		Score:       call.Score,
		LLR:         call.LogLikelihoodRatio,
		Denovo:      call.Denovo,
	}
}

const insertCall = `INSERT INTO calls
	(run_id, ordinal, chrom, pos, ref, dad, mom, child, dad_counts, mom_counts, child_counts, score, llr, denovo)
	VALUES (:run_id, :ordinal, :chrom, :pos, :ref, :dad, :mom, :child, :dad_counts, :mom_counts, :child_counts, :score, :llr, :denovo)`

// Insert adds calls in a single transaction.
func (s *Store) Insert(calls []Call) (err error) {
	if len(calls) == 0 {
		return nil
	}
	tx, err := s.DB.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareNamed(insertCall)
	if err != nil {
		return pfx.Err(err)
	}
	defer stmt.Close()
	for i := range calls {
		if _, err = stmt.Exec(&calls[i]); err != nil {
			return pfx.Err(err)
		}
	}
	if err = tx.Commit(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Calls returns all calls of a run in input order.
func (s *Store) Calls(runID string) (calls []Call, err error) {
	if err = s.DB.Select(&calls, "SELECT * FROM calls WHERE run_id = ? ORDER BY ordinal", runID); err != nil {
		return nil, pfx.Err(err)
	}
	return calls, nil
}

// Denovo returns the de novo calls of a run in input order.
func (s *Store) Denovo(runID string) (calls []Call, err error) {
	if err = s.DB.Select(&calls, "SELECT * FROM calls WHERE run_id = ? AND denovo = 1 ORDER BY ordinal", runID); err != nil {
		return nil, pfx.Err(err)
	}
	return calls, nil
}

// DefaultBatchSize is the number of calls a Writer inserts per
// transaction.
const DefaultBatchSize = 4096

// A Writer buffers the results of a run and inserts them in batches.
type Writer struct {
	store     *Store
	runID     string
	batchSize int
	batch     []Call
}

// NewWriter returns a writer of results for the given run.
func (s *Store) NewWriter(runID string, batchSize int) *Writer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Writer{store: s, runID: runID, batchSize: batchSize}
}

// Sink returns a caller.Sink that stores every result, or only the de
// novo calls if denovoOnly is true.
func (w *Writer) Sink(denovoOnly bool) caller.Sink {
	return func(result *caller.Result) error {
		if denovoOnly && !result.Call.Denovo {
			return nil
		}
		w.batch = append(w.batch, NewCall(w.runID, result))
		if len(w.batch) >= w.batchSize {
			return w.Flush()
		}
		return nil
	}
}

// Flush inserts the buffered calls.
func (w *Writer) Flush() error {
	err := w.store.Insert(w.batch)
	w.batch = w.batch[:0]
	return err
}
