// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-archive/internal/pdftext/pdftest"
	"github.com/pdiddy/news-archive/pkg/types"
)

// fakeRuntime implements container.Runtime with canned output.
type fakeRuntime struct {
	imageErr error
	output   string
	runErr   error
	gotInput string
}

func (f *fakeRuntime) Name() string    { return "docker" }
func (f *fakeRuntime) Available() bool { return true }

func (f *fakeRuntime) ImageExists(string) error { return f.imageErr }

func (f *fakeRuntime) Run(ctx context.Context, _ string, stdin io.Reader, stdout io.Writer) error {
	data, _ := io.ReadAll(stdin)
	f.gotInput = string(data)
	if f.runErr != nil {
		return f.runErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMarkitdownOpener(t *testing.T) {
	pdfPath := writeFile(t, "TH Delhi 21-07.pdf", "%PDF-1.7 fake")

	t.Run("splits pages on form feed", func(t *testing.T) {
		rt := &fakeRuntime{output: "MASTHEAD\nbody one\fPAGE TWO\nbody two\f"}
		o, err := NewMarkitdownOpener(rt)
		require.NoError(t, err)

		doc, err := o.Open(context.Background(), pdfPath)
		require.NoError(t, err)
		defer doc.Close()

		assert.Equal(t, "%PDF-1.7 fake", rt.gotInput)
		assert.Equal(t, 2, doc.PageCount())
		text, err := doc.PageText(2)
		require.NoError(t, err)
		assert.Equal(t, "PAGE TWO\nbody two", text)
	})

	t.Run("missing image", func(t *testing.T) {
		_, err := NewMarkitdownOpener(&fakeRuntime{imageErr: errors.New("no such image")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "markitdown image not available in docker")
	})

	t.Run("empty output is an open error", func(t *testing.T) {
		o, err := NewMarkitdownOpener(&fakeRuntime{output: "  \n"})
		require.NoError(t, err)

		_, err = o.Open(context.Background(), pdfPath)
		var openErr *OpenError
		require.ErrorAs(t, err, &openErr)
		assert.Equal(t, pdfPath, openErr.Path)
	})

	t.Run("container failure is an open error", func(t *testing.T) {
		o, err := NewMarkitdownOpener(&fakeRuntime{runErr: errors.New("exit status 1")})
		require.NoError(t, err)

		_, err = o.Open(context.Background(), pdfPath)
		var openErr *OpenError
		assert.ErrorAs(t, err, &openErr)
	})

	t.Run("cancelled context is not an open error", func(t *testing.T) {
		o, err := NewMarkitdownOpener(&fakeRuntime{output: "text"})
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = o.Open(ctx, pdfPath)
		require.ErrorIs(t, err, context.Canceled)
		var openErr *OpenError
		assert.False(t, errors.As(err, &openErr))
	})

	t.Run("missing file", func(t *testing.T) {
		o, err := NewMarkitdownOpener(&fakeRuntime{})
		require.NoError(t, err)

		_, err = o.Open(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
		var openErr *OpenError
		require.ErrorAs(t, err, &openErr)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestTextOpener(t *testing.T) {
	path := writeFile(t, "dump.txt", "page one\n\fpage two\n\f")

	doc, err := TextOpener{}.Open(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, doc.PageCount())

	text, err := doc.PageText(1)
	require.NoError(t, err)
	assert.Equal(t, "page one\n", text)

	_, err = doc.PageText(3)
	assert.Error(t, err)

	_, err = TextOpener{}.Open(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	var openErr *OpenError
	assert.ErrorAs(t, err, &openErr)
}

func TestPDFOpener_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.pdf") },
		},
		{
			name: "not a pdf",
			path: func(t *testing.T) string { return writeFile(t, "notes.pdf", "just some text, no header") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPDFOpener().Open(context.Background(), tt.path(t))
			var openErr *OpenError
			require.ErrorAs(t, err, &openErr)
			assert.Contains(t, err.Error(), "opening document")
		})
	}
}

func TestPDFOpener_LinePerBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TH Delhi 21-07.pdf")
	require.NoError(t, pdftest.Write(path,
		[]string{
			"FIRST STORY HEADLINE",
			"First body text that runs long enough to be an article.",
			"SECOND STORY HEADLINE",
			"Second body text (with brackets) that also runs long.",
		},
		[]string{"PAGE TWO MASTHEAD", "Chennai Edition"},
	))

	doc, err := NewPDFOpener().Open(context.Background(), path)
	require.NoError(t, err)
	defer doc.Close()

	require.Equal(t, 2, doc.PageCount())

	text, err := doc.PageText(1)
	require.NoError(t, err)
	assert.Equal(t, "FIRST STORY HEADLINE\n"+
		"First body text that runs long enough to be an article.\n"+
		"SECOND STORY HEADLINE\n"+
		"Second body text (with brackets) that also runs long.", text)

	text, err = doc.PageText(2)
	require.NoError(t, err)
	assert.Equal(t, "PAGE TWO MASTHEAD\nChennai Edition", text)
}

func TestJoinLines(t *testing.T) {
	runs := []pdf.Text{
		{Y: 720, S: "HEAD"}, {Y: 720, S: "LINE"},
		{Y: 700.2, S: "body "}, {Y: 700, S: "text"},
		{Y: 680, S: "next"},
	}
	assert.Equal(t, "HEADLINE\nbody text\nnext", joinLines(runs))
	assert.Empty(t, joinLines(nil))
}

// stubOpener serves an in-memory document.
type stubOpener struct {
	doc Document
	err error
}

func (s stubOpener) Open(context.Context, string) (Document, error) { return s.doc, s.err }

// failingDoc fails on a given page.
type failingDoc struct {
	Document
	failOn int
}

func (f failingDoc) PageText(n int) (string, error) {
	if n == f.failOn {
		return "", errors.New("bad content stream")
	}
	return f.Document.PageText(n)
}

func TestLoad(t *testing.T) {
	src, err := Load(context.Background(), stubOpener{doc: Pages("a", "b")}, "/scans/TH Delhi 21-07.pdf")
	require.NoError(t, err)
	assert.Equal(t, types.SourceDocument{
		FileName:  "TH Delhi 21-07.pdf",
		PageCount: 2,
		Pages:     []types.PageText{{Number: 1, Raw: "a"}, {Number: 2, Raw: "b"}},
	}, src)

	_, err = Load(context.Background(), stubOpener{doc: failingDoc{Document: Pages("a", "b"), failOn: 2}}, "x.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading page 2 of x.pdf")

	openErr := &OpenError{Path: "x.pdf", Err: os.ErrNotExist}
	_, err = Load(context.Background(), stubOpener{err: openErr}, "x.pdf")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestForBackend(t *testing.T) {
	o, err := ForBackend(types.BackendPDF)
	require.NoError(t, err)
	assert.IsType(t, &PDFOpener{}, o)

	o, err = ForBackend(types.BackendText)
	require.NoError(t, err)
	assert.IsType(t, TextOpener{}, o)

	_, err = ForBackend("ocr")
	assert.ErrorContains(t, err, "unsupported backend")
}
