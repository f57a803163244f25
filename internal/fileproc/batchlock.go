package fileproc

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".fileflow.lock"

// BatchLock holds an exclusive file lock on the output directory so two runs
// cannot interleave their reports and state files.
type BatchLock struct {
	lock   *flock.Flock
	logger *slog.Logger
}

// AcquireBatchLock creates the output directory and takes the lock. A held
// lock or an uncreatable directory is a setup failure.
func AcquireBatchLock(outputDir string, logger *slog.Logger) (*BatchLock, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, NewSetupError(fmt.Sprintf("could not create output directory %s", outputDir), err)
	}

	lockPath := filepath.Join(outputDir, lockFileName)
	fileLock := flock.New(lockPath)

	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, NewSetupError("could not acquire output directory lock", err)
	}
	if !locked {
		return nil, NewSetupError(fmt.Sprintf("output directory %s is locked by another fileflow run", outputDir), nil)
	}

	logger.Debug("Acquired output directory lock.", "path", lockPath)

	return &BatchLock{lock: fileLock, logger: logger}, nil
}

// Release drops the lock. Safe to call on a nil receiver.
func (bl *BatchLock) Release() {
	if bl == nil || bl.lock == nil {
		return
	}
	if err := bl.lock.Unlock(); err != nil {
		bl.logger.Warn("Failed to release output directory lock.", "error", err)
	}
}
