package document

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Registry maps formats to codec factories and file extensions to formats.
type Registry struct {
	mu         sync.RWMutex
	factories  map[Format]CodecFactory
	extensions map[string]Format
}

var globalRegistry = &Registry{
	factories:  make(map[Format]CodecFactory),
	extensions: make(map[string]Format),
}

// Register registers a codec factory on the global registry.
func Register(format Format, factory CodecFactory) error {
	return globalRegistry.Register(format, factory)
}

// RegisterExtension maps a file extension to a format on the global registry.
func RegisterExtension(ext string, format Format) {
	globalRegistry.RegisterExtension(ext, format)
}

// CodecFor returns a codec for the given format.
func CodecFor(format Format, opts Options) (Codec, error) {
	return globalRegistry.CodecFor(format, opts)
}

// CodecForPath returns a codec based on the file's extension.
func CodecForPath(path string, opts Options) (Codec, error) {
	return globalRegistry.CodecForPath(path, opts)
}

// RegisteredFormats returns all formats known to the global registry.
func RegisteredFormats() []Format {
	return globalRegistry.RegisteredFormats()
}

// Register registers a codec factory.
func (r *Registry) Register(format Format, factory CodecFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[format]; exists {
		return fmt.Errorf("format %s already registered", format)
	}
	r.factories[format] = factory
	return nil
}

// RegisterExtension maps a file extension to a format.
func (r *Registry) RegisterExtension(ext string, format Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	r.extensions[ext] = format
}

// CodecFor builds a codec for the given format.
func (r *Registry) CodecFor(format Format, opts Options) (Codec, error) {
	r.mu.RLock()
	factory, exists := r.factories[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("no codec registered for format: %s", format)
	}
	return factory(opts)
}

// CodecForPath builds a codec based on the file's extension.
func (r *Registry) CodecForPath(path string, opts Options) (Codec, error) {
	format, ok := r.FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
	return r.CodecFor(format, opts)
}

// FormatForPath resolves a path to a registered format by extension.
func (r *Registry) FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	r.mu.RLock()
	defer r.mu.RUnlock()
	format, ok := r.extensions[ext]
	return format, ok
}

// FormatForPath resolves a path against the global registry.
func FormatForPath(path string) (Format, bool) {
	return globalRegistry.FormatForPath(path)
}

// RegisteredFormats returns all registered formats.
func (r *Registry) RegisteredFormats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.factories))
	for f := range r.factories {
		formats = append(formats, f)
	}
	return formats
}

func init() {
	Register(FormatDOCX, func(opts Options) (Codec, error) {
		return NewDocxCodec(opts)
	})
	Register(FormatMarkdown, func(opts Options) (Codec, error) {
		return NewMarkdownCodec(opts)
	})
	Register(FormatText, func(opts Options) (Codec, error) {
		opts.InferHeadings = true
		return NewMarkdownCodec(opts)
	})

	RegisterExtension(".docx", FormatDOCX)

	RegisterExtension(".md", FormatMarkdown)
	RegisterExtension(".markdown", FormatMarkdown)
	RegisterExtension(".mdown", FormatMarkdown)
	RegisterExtension(".mkd", FormatMarkdown)

	RegisterExtension(".txt", FormatText)
	RegisterExtension(".text", FormatText)
}
