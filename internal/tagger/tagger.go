package tagger

import (
	"errors"
	"fmt"
	"sync"
)

// ErrTaggingUnavailable signals that no tagging backend can run. The batch
// pipeline treats it as fatal for the whole batch, since no rule can match
// without classification.
var ErrTaggingUnavailable = errors.New("tagging unavailable")

// Token is one classified span of text. Offsets are rune offsets into the
// tagged text, half-open. Tokens cover every run of non-whitespace content
// exactly once; whitespace is skipped.
type Token struct {
	Start int
	End   int
	POS   POS
}

// Tagger classifies text into tokens. Implementations must be deterministic:
// the same text always yields the same token sequence.
type Tagger interface {
	Tag(text string) ([]Token, error)
}

// Memoized wraps a Tagger with a per-processing-run cache, so documents
// with recurring paragraph text are only tagged once.
type Memoized struct {
	backend Tagger

	mu    sync.Mutex
	cache map[string][]Token
}

// NewMemoized wraps backend with memoization.
func NewMemoized(backend Tagger) *Memoized {
	return &Memoized{
		backend: backend,
		cache:   make(map[string][]Token),
	}
}

// Tag returns the backend's tokens, cached by text.
func (m *Memoized) Tag(text string) ([]Token, error) {
	m.mu.Lock()
	cached, ok := m.cache[text]
	m.mu.Unlock()
	if ok {
		return cached, nil
	}

	tokens, err := m.backend.Tag(text)
	if err != nil {
		return nil, fmt.Errorf("tagging %d chars: %w", len(text), err)
	}

	m.mu.Lock()
	m.cache[text] = tokens
	m.mu.Unlock()
	return tokens, nil
}

// Reset drops the cache between processing runs.
func (m *Memoized) Reset() {
	m.mu.Lock()
	m.cache = make(map[string][]Token)
	m.mu.Unlock()
}
