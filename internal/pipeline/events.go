package pipeline

import (
	"time"
)

// FileState is a file's position in the per-file state machine. Files move
// QUEUED → LOADING → TAGGING → MATCHING → MUTATING → SERIALIZING → DONE;
// FAILED is reachable from any non-terminal state.
type FileState string

const (
	StateQueued      FileState = "QUEUED"
	StateLoading     FileState = "LOADING"
	StateTagging     FileState = "TAGGING"
	StateMatching    FileState = "MATCHING"
	StateMutating    FileState = "MUTATING"
	StateSerializing FileState = "SERIALIZING"
	StateDone        FileState = "DONE"
	StateFailed      FileState = "FAILED"
)

// Terminal reports whether the state ends a file's traversal.
func (s FileState) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Event is emitted once per file-state transition, in file-queue order.
// The pipeline never blocks on a slow (or absent) consumer.
type Event struct {
	BatchID string
	Index   int
	File    string
	State   FileState
	Err     *FileError
}

// FileResult is the terminal outcome for one file.
type FileResult struct {
	Index    int
	File     string
	Output   string
	State    FileState
	Ops      int
	Duration time.Duration
	Err      *FileError
}
