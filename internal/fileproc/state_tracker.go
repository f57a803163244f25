package fileproc

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const stateFileVersion = "1.0"

// BatchState is the persisted record of which files a resumable batch has
// already processed, keyed by path.
type BatchState struct {
	ProcessedFiles map[string]FileFingerprint `json:"processed_files"`
	LastUpdated    time.Time                  `json:"last_updated"`
	Version        string                     `json:"version"`
}

// FileFingerprint identifies one processed file version. A file whose size
// or modification time changed is treated as new work.
type FileFingerprint struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	RecordCount int       `json:"record_count"`
	ProcessedAt time.Time `json:"processed_at"`
}

// NewBatchState creates an empty state with initialized maps.
func NewBatchState() *BatchState {
	return &BatchState{
		ProcessedFiles: make(map[string]FileFingerprint),
		LastUpdated:    time.Now(),
		Version:        stateFileVersion,
	}
}

// Validate validates a loaded state.
func (bs *BatchState) Validate() error {
	if bs.ProcessedFiles == nil {
		return fmt.Errorf("processed_files map cannot be nil")
	}
	if bs.Version == "" {
		return fmt.Errorf("version cannot be empty")
	}
	return nil
}

// StateTracker persists batch progress so a rerun can skip files that were
// already processed unchanged. It is opt-in: a plain run never consults it.
type StateTracker struct {
	state     *BatchState
	stateFile string
	mutex     sync.RWMutex
}

// NewStateTracker creates a tracker backed by the given state file path.
func NewStateTracker(stateFilePath string) *StateTracker {
	return &StateTracker{
		state:     NewBatchState(),
		stateFile: stateFilePath,
	}
}

// Load reads the state file. A missing or empty file yields a fresh state; a
// corrupted file is backed up and replaced rather than failing the run.
func (st *StateTracker) Load() error {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	data, err := os.ReadFile(st.stateFile)
	if os.IsNotExist(err) {
		st.state = NewBatchState()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		st.state = NewBatchState()
		return nil
	}

	var loaded BatchState
	if err := json.Unmarshal(data, &loaded); err != nil {
		return st.recoverFromCorruption(data, err)
	}
	if err := loaded.Validate(); err != nil {
		return st.recoverFromCorruption(data, err)
	}

	st.state = &loaded
	return nil
}

// recoverFromCorruption backs up an unreadable state file and starts fresh.
// Losing resume state only costs reprocessing, never correctness.
func (st *StateTracker) recoverFromCorruption(data []byte, cause error) error {
	backupPath := st.stateFile + ".corrupted." + time.Now().Format("20060102-150405")
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return fmt.Errorf("state file corrupted (%v) and backup failed: %w", cause, err)
	}

	st.state = NewBatchState()
	return nil
}

// IsProcessed reports whether the path was already processed with the same
// size and modification time.
func (st *StateTracker) IsProcessed(path string, size int64, modTime time.Time) bool {
	st.mutex.RLock()
	defer st.mutex.RUnlock()

	fp, ok := st.state.ProcessedFiles[path]
	return ok && fp.Size == size && fp.ModTime.Equal(modTime)
}

// MarkProcessed records a successfully processed file.
func (st *StateTracker) MarkProcessed(path string, size int64, modTime time.Time, recordCount int) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	st.state.ProcessedFiles[path] = FileFingerprint{
		Path:        path,
		Size:        size,
		ModTime:     modTime,
		RecordCount: recordCount,
		ProcessedAt: time.Now(),
	}
	st.state.LastUpdated = time.Now()
}

// ProcessedCount returns the number of recorded files.
func (st *StateTracker) ProcessedCount() int {
	st.mutex.RLock()
	defer st.mutex.RUnlock()
	return len(st.state.ProcessedFiles)
}

// Save writes the state atomically: a temp file in the same directory, then
// a rename over the target.
func (st *StateTracker) Save() error {
	st.mutex.RLock()
	data, err := json.MarshalIndent(st.state, "", "  ")
	st.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	dir := filepath.Dir(st.stateFile)
	tempFile, err := os.CreateTemp(dir, "state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tempFile.Name(), st.stateFile); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}

// FilterUnprocessed splits paths into those still needing work and those
// whose unchanged fingerprints are already recorded. Paths that cannot be
// stat'ed stay in the pending list so the engine reports them as failures.
func (st *StateTracker) FilterUnprocessed(paths []string) (pending, skipped []string) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err == nil && st.IsProcessed(path, info.Size(), info.ModTime()) {
			skipped = append(skipped, path)
			continue
		}
		pending = append(pending, path)
	}
	return pending, skipped
}

// RecordSummary marks every successful outcome of a finished batch.
func (st *StateTracker) RecordSummary(summary *BatchSummary) {
	for _, outcome := range summary.Outcomes {
		if !outcome.Success() {
			continue
		}
		info, err := os.Stat(outcome.Path)
		if err != nil {
			continue
		}
		st.MarkProcessed(outcome.Path, info.Size(), info.ModTime(), outcome.RecordCount)
	}
}
