// Package document defines the in-memory document model the styling engine
// operates on, plus the codecs that load and save the supported formats.
package document

import (
	"go.uber.org/zap"
)

// Codec loads and saves one document format. Load parses a file into the
// model; Save serializes a (possibly mutated) model back out. Codecs own
// everything format specific: the engine only ever sees the model.
type Codec interface {
	// Load reads and parses the file at path.
	Load(path string) (*Document, error)

	// Save writes doc to path. The document must have been produced by the
	// same codec's Load.
	Save(doc *Document, path string) error

	// Format returns the format this codec handles.
	Format() Format
}

// CodecFactory builds a codec from options.
type CodecFactory func(opts Options) (Codec, error)

// Options configures codec construction.
type Options struct {
	// InferHeadings enables the plain-text heading heuristic for formats
	// without marker syntax.
	InferHeadings bool

	// HeadingMaxLength is the heuristic's length threshold in runes.
	HeadingMaxLength int

	// Logger defaults to a nop logger when nil.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// DefaultHeadingMaxLength is the inference threshold used when the option
// is left zero.
const DefaultHeadingMaxLength = 64
