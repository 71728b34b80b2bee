package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	historyVersion    = "1.0.0"
	maxHistoryBatches = 100
)

// BatchRecord summarizes one finished batch run for the history file.
type BatchRecord struct {
	BatchID    string        `json:"batch_id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Rules      int           `json:"rules"`
	Files      int           `json:"files"`
	Done       int           `json:"done"`
	Failed     int           `json:"failed"`
	FileRuns   []FileRecord  `json:"file_runs"`
}

// FileRecord is one file's outcome inside a BatchRecord.
type FileRecord struct {
	File     string        `json:"file"`
	Output   string        `json:"output,omitempty"`
	State    FileState     `json:"state"`
	Ops      int           `json:"ops"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Kind     ErrorKind     `json:"error_kind,omitempty"`
}

type historyFile struct {
	Version     string         `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	LastUpdated time.Time      `json:"last_updated"`
	Batches     []*BatchRecord `json:"batches"`
}

// History persists batch run records to a JSON file.
type History struct {
	filePath string
	data     *historyFile
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewHistory opens (or creates) the history file at filePath.
func NewHistory(filePath string, logger *zap.Logger) (*History, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &History{filePath: filePath, logger: logger}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := h.load(); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return h, nil
}

func (h *History) load() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, err := os.Stat(h.filePath); os.IsNotExist(err) {
		h.data = &historyFile{
			Version:   historyVersion,
			CreatedAt: time.Now(),
			Batches:   make([]*BatchRecord, 0),
		}
		return h.saveUnsafe()
	}

	raw, err := os.ReadFile(h.filePath)
	if err != nil {
		return fmt.Errorf("failed to read history file: %w", err)
	}
	var hf historyFile
	if err := json.Unmarshal(raw, &hf); err != nil {
		return fmt.Errorf("failed to parse history file: %w", err)
	}
	if hf.Batches == nil {
		hf.Batches = make([]*BatchRecord, 0)
	}

	h.data = &hf
	h.logger.Debug("loaded styling history",
		zap.String("version", hf.Version),
		zap.Int("batches", len(hf.Batches)))
	return nil
}

// Record converts a finished batch's results into a BatchRecord and appends
// it. The newest batch comes first; older entries beyond the cap fall off.
func (h *History) Record(batchID string, startedAt time.Time, rules int, results []FileResult) error {
	rec := &BatchRecord{
		BatchID:   batchID,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Rules:     rules,
		Files:     len(results),
	}
	for _, r := range results {
		fr := FileRecord{
			File:     r.File,
			Output:   r.Output,
			State:    r.State,
			Ops:      r.Ops,
			Duration: r.Duration,
		}
		if r.Err != nil {
			fr.Error = r.Err.Error()
			fr.Kind = r.Err.Kind
		}
		if r.State == StateDone {
			rec.Done++
		} else {
			rec.Failed++
		}
		rec.FileRuns = append(rec.FileRuns, fr)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.data.Batches = append([]*BatchRecord{rec}, h.data.Batches...)
	if len(h.data.Batches) > maxHistoryBatches {
		h.data.Batches = h.data.Batches[:maxHistoryBatches]
	}
	return h.saveUnsafe()
}

// Recent returns up to n of the newest batch records, newest first.
func (h *History) Recent(n int) []*BatchRecord {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if n <= 0 || n > len(h.data.Batches) {
		n = len(h.data.Batches)
	}
	out := make([]*BatchRecord, n)
	copy(out, h.data.Batches[:n])
	return out
}

func (h *History) saveUnsafe() error {
	h.data.LastUpdated = time.Now()

	raw, err := json.MarshalIndent(h.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tempFile := h.filePath + ".tmp"
	if err := os.WriteFile(tempFile, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write temp history file: %w", err)
	}
	if err := os.Rename(tempFile, h.filePath); err != nil {
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
