// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/news-archive/pkg/types"
)

var testHeader = Header{
	Metadata:   types.DocumentMetadata{NewspaperName: "TH", Edition: "Delhi", Date: "21-07"},
	SourceFile: "TH Delhi 21-07.pdf",
	TotalPages: 2,
}

var testArticles = []types.Article{
	{Sequence: 1, Page: 1, Lines: []string{"HEADLINE ONE", "Body text."}},
	{Sequence: 2, Page: 2, Lines: []string{"ANOTHER HEADLINE", "--- not a delimiter ---", "More body."}},
}

func write(t *testing.T, style types.RecordStyle) string {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf, style)
	require.NoError(t, w.WriteHeader(testHeader))
	for _, a := range testArticles {
		require.NoError(t, w.WriteArticle(a))
	}
	require.NoError(t, w.Flush())
	return buf.String()
}

func TestWriter_Full(t *testing.T) {
	want := "# Metadata: newspaper_name=TH, edition=Delhi, date=21-07, source_file=TH Delhi 21-07.pdf, total_pages=2\n" +
		"\n" +
		"---\n" +
		"# Article 1 | Page 1 | Newspaper: TH | Edition: Delhi | Date: 21-07 | Source: TH Delhi 21-07.pdf\n" +
		"HEADLINE ONE\n" +
		"Body text.\n" +
		"\n" +
		"---\n" +
		"# Article 2 | Page 2 | Newspaper: TH | Edition: Delhi | Date: 21-07 | Source: TH Delhi 21-07.pdf\n" +
		"ANOTHER HEADLINE\n" +
		"--- not a delimiter ---\n" +
		"More body.\n" +
		"\n"

	assert.Equal(t, want, write(t, types.StyleFull))
}

func TestWriter_Reduced(t *testing.T) {
	out := write(t, types.StyleReduced)

	assert.Contains(t, out, "---\n# Article 1 | Page 1\nHEADLINE ONE\n")
	assert.Contains(t, out, "---\n# Article 2 | Page 2\nANOTHER HEADLINE\n")
	assert.NotContains(t, out, "Newspaper:")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_WriteError(t *testing.T) {
	w := NewWriter(failingWriter{}, types.StyleFull)
	require.NoError(t, w.WriteHeader(testHeader), "buffered")

	err := w.Flush()
	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.Contains(t, err.Error(), "disk full")
}

func TestParse_RoundTrip(t *testing.T) {
	for _, style := range []types.RecordStyle{types.StyleFull, types.StyleReduced} {
		t.Run(string(style), func(t *testing.T) {
			arc, err := Parse(strings.NewReader(write(t, style)))
			require.NoError(t, err)

			assert.Equal(t, testHeader, arc.Header)
			assert.Equal(t, testArticles, arc.Articles)
		})
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	arc, err := Parse(strings.NewReader(
		"# Metadata: newspaper_name=Unknown, edition=Unknown, date=Unknown, source_file=x.pdf, total_pages=0\n\n"))
	require.NoError(t, err)
	assert.Equal(t, types.UnknownMetadata(), arc.Header.Metadata)
	assert.Empty(t, arc.Articles)
}

func TestParse_NoTrailingBlank(t *testing.T) {
	in := "# Metadata: newspaper_name=A, edition=B, date=C, source_file=a.pdf, total_pages=1\n\n" +
		"---\n# Article 1 | Page 1\nLAST ARTICLE\nno trailing newline"
	arc, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, arc.Articles, 1)
	assert.Equal(t, []string{"LAST ARTICLE", "no trailing newline"}, arc.Articles[0].Lines)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{name: "empty", in: "", wantErr: "missing metadata header"},
		{name: "no header", in: "hello\n", wantErr: "missing metadata header"},
		{
			name:    "text between records",
			in:      "# Metadata: newspaper_name=A, edition=B, date=C, source_file=a.pdf, total_pages=1\n\nstray\n",
			wantErr: "expected \"---\"",
		},
		{
			name:    "bad article header",
			in:      "# Metadata: newspaper_name=A, edition=B, date=C, source_file=a.pdf, total_pages=1\n\n---\n# Article x\n",
			wantErr: "malformed article header",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
