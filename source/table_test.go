package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternFilenameIdempotent(t *testing.T) {
	table := NewTable()
	a := table.InternFilename("main.glsp")
	b := table.InternFilename("util.glsp")
	c := table.InternFilename("main.glsp")

	require.Equal(t, a, c)
	require.NotEqual(t, a, b)
	require.Equal(t, 2, table.FilenameCount())

	name, err := table.FilenameString(a)
	require.NoError(t, err)
	require.Equal(t, "main.glsp", name)
}

func TestFilenameStringOutOfRange(t *testing.T) {
	table := NewTable()
	_, err := table.FilenameString(Filename(7))
	require.Error(t, err)
}

func TestInternSpanIdempotent(t *testing.T) {
	table := NewTable()
	file := table.InternFilename("main.glsp")

	a := table.InternSpan(LoadedSpan(file, 10))
	b := table.InternSpan(LoadedSpan(file, 11))
	c := table.InternSpan(LoadedSpan(file, 10))

	require.Equal(t, a, c)
	require.NotEqual(t, a, b)
	require.Equal(t, 2, table.SpanCount())

	storage, err := table.SpanContents(a)
	require.NoError(t, err)
	require.Equal(t, Loaded, storage.Kind)
	require.Equal(t, file, storage.Filename)
	require.Equal(t, 10, storage.Line)
}

func TestInternExpandedSpan(t *testing.T) {
	table := NewTable()
	file := table.InternFilename("macros.glsp")
	site := table.InternSpan(LoadedSpan(file, 3))
	form := table.InternSpan(LoadedSpan(file, 4))

	exp := table.InternSpan(ExpandedSpan("defmacro", site, form))
	storage, err := table.SpanContents(exp)
	require.NoError(t, err)
	require.Equal(t, Expanded, storage.Kind)
	require.Equal(t, "defmacro", storage.Sym)
	require.Equal(t, site, storage.Parent0)
	require.Equal(t, form, storage.Parent1)

	// Parents registered first means expansion edges point backward.
	require.Less(t, uint32(site), uint32(exp))
	require.Less(t, uint32(form), uint32(exp))
}

func TestSpanContentsOutOfRange(t *testing.T) {
	table := NewTable()
	_, err := table.SpanContents(Span(99))
	require.Error(t, err)
}

func TestSpanStorageString(t *testing.T) {
	require.Equal(t, "generated", GeneratedSpan().String())
	require.Equal(t, "loaded(file#0:12)", LoadedSpan(0, 12).String())
	require.Equal(t, "expanded(when, span#1, span#2)", ExpandedSpan("when", 1, 2).String())
	require.Equal(t, "expanded(span#1, span#2)", ExpandedSpan("", 1, 2).String())
}
