// Package batch writes many independent tables concurrently on a reusable worker pool.
package batch

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/gputable/engine/table"
	"github.com/sirupsen/logrus"
)

// Job is one table and the destination it is written to.
type Job struct {
	Label string
	Table table.Table
	Dest  io.Writer
}

// Result reports how one Job went.
type Result struct {
	Label   string
	Written int64
	Elapsed time.Duration
	Err     error
}

// Assembler runs table writes on a bounded set of reusable goroutines.
//
// Jobs submitted together must not share blocks or destinations: a block is consumed
// by the first write, and destinations are written without locking.
type Assembler interface {
	// Write writes every job and waits for all of them to finish.
	//
	// Parameters:
	//   - jobs: the jobs to run
	//
	// Returns:
	//   - []Result: one result per job, in submission order
	//   - error: every failed job's error joined, or nil
	Write(jobs ...Job) ([]Result, error)

	// Workers returns the configured worker count.
	//
	// Returns:
	//   - int: the number of workers
	Workers() int

	// Stop waits for any Write in progress, then ends every worker goroutine.
	// Write returns ErrStopped afterwards. Calling Stop again does nothing.
	Stop()
}

// ErrStopped is returned by Write once the Assembler has been stopped.
var ErrStopped = errors.New("batch: assembler stopped")

type assembler struct {
	workers   int
	queueSize int
	logger    logrus.FieldLogger

	pool    worker.DynamicWorkerPool
	nextID  int
	stopped bool
	mu      sync.Mutex
}

var _ Assembler = &assembler{}

// NewAssembler creates an Assembler. The worker count defaults to one less than the
// number of CPUs. Workers stay up between calls to Write until Stop is called.
//
// Parameters:
//   - opts: variadic list of AssemblerBuilderOption functions to configure the assembler
//
// Returns:
//   - Assembler: the new assembler
func NewAssembler(opts ...AssemblerBuilderOption) Assembler {
	a := &assembler{
		workers:   max(runtime.NumCPU()-1, 1),
		queueSize: 256,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}

	// Created after options so WithWorkers can override the default.
	// The pool's workers never idle out, so the timeout is left unset.
	a.pool = worker.NewDynamicWorkerPool(a.workers, a.queueSize, 0)
	return a
}

func (a *assembler) Workers() int {
	return a.workers
}

func (a *assembler) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.stopped = true

	// One retire task per worker: the worker that takes it exits, so each worker
	// takes exactly one. pool.Stop on its own can hand a worker another worker's
	// stop signal, which it drops.
	var retired sync.WaitGroup
	for range a.workers {
		retired.Add(1)
		a.pool.SubmitTask(worker.Task{
			ID: a.nextID,
			Do: func() (any, error) {
				retired.Done()
				runtime.Goexit()
				return nil, nil
			},
		})
		a.nextID++
	}
	retired.Wait()
	a.pool.Stop()
	a.logger.WithField("workers", a.workers).Debug("[Batch] assembler stopped")
}

func (a *assembler) Write(jobs ...Job) ([]Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return nil, ErrStopped
	}

	results := make([]Result, len(jobs))

	// pool.Wait blocks until workers idle-exit, so completion is tracked per call.
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		idx := i
		j := job
		id := a.nextID
		a.nextID++
		a.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				results[idx] = run(j)
				return nil, results[idx].Err
			},
		})
	}
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			a.logger.WithFields(logrus.Fields{
				"label":   r.Label,
				"written": r.Written,
			}).WithError(r.Err).Warn("[Batch] table write failed")
		}
	}
	return results, errors.Join(errs...)
}

func run(j Job) (r Result) {
	r.Label = j.Label
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			r.Err = fmt.Errorf("write %s: panic: %v", j.Label, p)
		}
		r.Elapsed = time.Since(start)
	}()

	n, err := j.Table.WriteTo(j.Dest)
	r.Written = n
	if err != nil {
		r.Err = fmt.Errorf("write %s: %w", j.Label, err)
	}
	return r
}

// Assemble writes each table into its own exactly-sized buffer using a.
//
// Parameters:
//   - a: the assembler to run the writes on
//   - tables: the tables to assemble; they are consumed
//
// Returns:
//   - [][]byte: one buffer per table, in order; nil where the write failed
//   - error: every failed write's error joined, or nil
func Assemble(a Assembler, tables ...table.Table) ([][]byte, error) {
	bufs := make([][]byte, len(tables))
	jobs := make([]Job, len(tables))
	for i, t := range tables {
		bufs[i] = make([]byte, t.ByteSize())
		jobs[i] = Job{
			Label: fmt.Sprintf("table %d", i),
			Table: t,
			Dest:  table.NewSliceWriter(bufs[i]),
		}
	}
	results, err := a.Write(jobs...)
	for i, r := range results {
		if r.Err != nil {
			bufs[i] = nil
		}
	}
	return bufs, err
}
