package views

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	templates, err := Load(Files)
	require.NoError(t, err)
	require.Contains(t, templates, AdminIndex)
	require.Contains(t, templates, AdminEdit)

	var buf bytes.Buffer
	data := map[string]interface{}{
		"Slug": "hello",
		"Post": map[string]string{
			"Title":    "Hello <World>",
			"Slug":     "hello",
			"Markdown": "# Hi",
		},
		"Errors": map[string]string{"title": "Title is required"},
	}
	require.NoError(t, templates[AdminEdit].ExecuteTemplate(&buf, "layout", data))

	out := buf.String()
	assert.Contains(t, out, `action="/posts/admin/hello"`)
	assert.Contains(t, out, "Hello &lt;World&gt;")
	assert.Contains(t, out, "Title is required")
	assert.NotContains(t, out, "Slug is required")
}

func TestSlugLinksAreEscaped(t *testing.T) {
	templates, err := Load(Files)
	require.NoError(t, err)

	var buf bytes.Buffer
	data := map[string]interface{}{
		"Posts": []map[string]string{{"Title": "Nested", "Slug": "a/b"}},
	}
	require.NoError(t, templates[AdminIndex].ExecuteTemplate(&buf, "layout", data))
	assert.Contains(t, buf.String(), `href="/posts/admin/a%2Fb"`)

	buf.Reset()
	data = map[string]interface{}{
		"Slug":   "a/b",
		"Post":   map[string]string{"Title": "Nested", "Slug": "a/b", "Markdown": "x"},
		"Errors": map[string]string{},
	}
	require.NoError(t, templates[AdminEdit].ExecuteTemplate(&buf, "layout", data))
	assert.Contains(t, buf.String(), `action="/posts/admin/a%2Fb"`)
	assert.Contains(t, buf.String(), `value="a/b"`)
}

func TestLoadMissingFile(t *testing.T) {
	fsys := fstest.MapFS{
		"layout.html": {Data: []byte(`{{define "layout"}}{{template "content" .}}{{end}}`)},
	}
	_, err := Load(fsys)
	assert.Error(t, err)
}
