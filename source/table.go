package source

import (
	"fmt"
	"sync"
)

// Registry is the interning surface the cache layer depends on. It is
// implemented by Table for a live host session; the cache never assumes a
// process-wide singleton, only that the registry outlives the encode or
// decode call that uses it.
//
// Registration is idempotent by value: interning the same string or storage
// record twice returns the same handle. Handles are never invalidated.
type Registry interface {
	// InternFilename registers a file path and returns its handle.
	InternFilename(name string) Filename

	// FilenameString resolves a filename handle back to its path.
	FilenameString(f Filename) (string, error)

	// InternSpan registers a span storage record and returns its handle.
	// For Expanded records, both parent spans must already be registered.
	InternSpan(storage SpanStorage) Span

	// SpanContents resolves a span handle back to its storage record.
	SpanContents(s Span) (SpanStorage, error)
}

// Table is an in-memory Registry tied to one host runtime session. Handles
// are assigned sequentially, so the reverse lookup is a slice index.
type Table struct {
	mu          sync.Mutex
	filenameIDs map[string]Filename
	filenames   []string
	spanIDs     map[SpanStorage]Span
	spans       []SpanStorage
}

// NewTable creates an empty interning table.
func NewTable() *Table {
	return &Table{
		filenameIDs: make(map[string]Filename),
		spanIDs:     make(map[SpanStorage]Span),
	}
}

// InternFilename registers a file path, returning the existing handle if the
// path has been seen before.
func (t *Table) InternFilename(name string) Filename {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.filenameIDs[name]; ok {
		return f
	}
	f := Filename(len(t.filenames))
	t.filenames = append(t.filenames, name)
	t.filenameIDs[name] = f
	return f
}

// FilenameString resolves a filename handle back to its path.
func (t *Table) FilenameString(f Filename) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(f) >= len(t.filenames) {
		return "", fmt.Errorf("filename handle %d out of range (%d registered)", f, len(t.filenames))
	}
	return t.filenames[f], nil
}

// InternSpan registers a span storage record, returning the existing handle
// if an equal record has been seen before.
func (t *Table) InternSpan(storage SpanStorage) Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.spanIDs[storage]; ok {
		return s
	}
	s := Span(len(t.spans))
	t.spans = append(t.spans, storage)
	t.spanIDs[storage] = s
	return s
}

// SpanContents resolves a span handle back to its storage record.
func (t *Table) SpanContents(s Span) (SpanStorage, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(s) >= len(t.spans) {
		return SpanStorage{}, fmt.Errorf("span handle %d out of range (%d registered)", s, len(t.spans))
	}
	return t.spans[s], nil
}

// SpanCount returns the number of registered spans.
func (t *Table) SpanCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}

// FilenameCount returns the number of registered filenames.
func (t *Table) FilenameCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.filenames)
}
