package pipeline

import (
	"errors"
	"fmt"

	"github.com/inkstone-dev/go-doc-styler/internal/engine"
	"github.com/inkstone-dev/go-doc-styler/internal/tagger"
)

// ErrorKind labels a file failure for reporting. Kinds mirror the failure
// taxonomy the UI layer depends on.
type ErrorKind string

const (
	// ErrorTaggingUnavailable is batch-wide fatal: without classification
	// no rule can match, so remaining unstarted files fail too.
	ErrorTaggingUnavailable ErrorKind = "TaggingUnavailable"

	// ErrorInvalidStyleOpRange is per-file fatal and signals an engine
	// bug, not bad input.
	ErrorInvalidStyleOpRange ErrorKind = "InvalidStyleOpRange"

	ErrorDocumentLoadFailure ErrorKind = "DocumentLoadFailure"
	ErrorDocumentSaveFailure ErrorKind = "DocumentSaveFailure"

	// ErrorCanceled marks files the batch never started because it was
	// asked to stop.
	ErrorCanceled ErrorKind = "Canceled"

	ErrorInternal ErrorKind = "Internal"
)

// FileError is a failure recorded against one file.
type FileError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// classify maps an error from a pipeline stage to its kind. The stage
// default applies unless the error itself says otherwise.
func classify(stage ErrorKind, path string, err error) *FileError {
	kind := stage
	switch {
	case errors.Is(err, tagger.ErrTaggingUnavailable):
		kind = ErrorTaggingUnavailable
	case errors.Is(err, engine.ErrInvalidStyleOpRange):
		kind = ErrorInvalidStyleOpRange
	}
	return &FileError{Kind: kind, Path: path, Err: err}
}
