package fileproc

import (
	"log/slog"
	"sync"
	"time"
)

// BatchCoordinator iterates a job's file list, invokes the engine per file,
// and aggregates the outcomes into a BatchSummary. One file's failure never
// stops the rest of the batch; only a setup failure before the per-file loop
// aborts the run.
type BatchCoordinator struct {
	engine *ProcessingEngine
	logger *slog.Logger
}

// NewBatchCoordinator creates a coordinator using the given engine.
func NewBatchCoordinator(engine *ProcessingEngine, logger *slog.Logger) *BatchCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = NewProcessingEngine(logger)
	}

	return &BatchCoordinator{
		engine: engine,
		logger: logger,
	}
}

// Run executes the batch. The returned error is non-nil only for setup
// failures; every per-file error is captured inside the summary.
func (bc *BatchCoordinator) Run(job *ProcessingJob) (*BatchSummary, error) {
	lock, err := AcquireBatchLock(job.Config.OutputDir, bc.logger)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	summary := NewBatchSummary(len(job.Paths))
	start := time.Now()

	bc.logger.Info("Starting batch.", "files", len(job.Paths), "workers", job.Config.Workers,
		"strict", job.Config.StrictValidation)

	if job.Config.Workers > 1 && len(job.Paths) > 1 {
		bc.runConcurrent(job, summary)
	} else {
		bc.runSequential(job, summary)
	}

	summary.Duration = time.Since(start)
	bc.logger.Info("Batch complete.", "summary", summary.String())

	return summary, nil
}

// runSequential processes files one at a time in input order.
func (bc *BatchCoordinator) runSequential(job *ProcessingJob, summary *BatchSummary) {
	for i, path := range job.Paths {
		outcome := bc.engine.ProcessFile(path, job)
		bc.recordOutcome(summary, i, outcome)
	}
}

// runConcurrent processes files over a worker pool. Outcomes are keyed by
// input index, not appended as they complete, so the summary's ordering
// matches the job's path order exactly.
func (bc *BatchCoordinator) runConcurrent(job *ProcessingJob, summary *BatchSummary) {
	type task struct {
		index int
		path  string
	}

	tasks := make(chan task)
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := job.Config.Workers
	if workers > len(job.Paths) {
		workers = len(job.Paths)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				outcome := bc.engine.ProcessFile(t.path, job)
				mu.Lock()
				bc.recordOutcome(summary, t.index, outcome)
				mu.Unlock()
			}
		}()
	}

	for i, path := range job.Paths {
		tasks <- task{index: i, path: path}
	}
	close(tasks)
	wg.Wait()
}

// recordOutcome stores one outcome and logs it. Record only fails on an
// out-of-range index, which would be a coordinator bug worth surfacing.
func (bc *BatchCoordinator) recordOutcome(summary *BatchSummary, index int, outcome ProcessingOutcome) {
	if err := summary.Record(index, outcome); err != nil {
		bc.logger.Error("Dropped outcome.", "index", index, "error", err)
		return
	}

	if outcome.Success() {
		bc.logger.Debug("Processed file.", "path", outcome.Path,
			"records", outcome.RecordCount, "warnings", len(outcome.Warnings))
	} else {
		bc.logger.Warn("File failed, continuing batch.", "path", outcome.Path,
			"kind", outcome.Err.Kind.String(), "error", outcome.Err.Message)
	}
}
