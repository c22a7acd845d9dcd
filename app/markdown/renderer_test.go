package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	t.Run("heading and paragraph", func(t *testing.T) {
		out, err := r.Render("# Hello World\n\nFirst post.")
		require.NoError(t, err)
		assert.Contains(t, string(out), `<h1 id="hello-world">Hello World</h1>`)
		assert.Contains(t, string(out), "<p>First post.</p>")
	})

	t.Run("strikethrough from gfm", func(t *testing.T) {
		out, err := r.Render("~~gone~~")
		require.NoError(t, err)
		assert.Contains(t, string(out), "<del>gone</del>")
	})

	t.Run("raw html is not passed through", func(t *testing.T) {
		out, err := r.Render("<script>alert(1)</script>")
		require.NoError(t, err)
		assert.NotContains(t, string(out), "<script>")
	})

	t.Run("empty input", func(t *testing.T) {
		out, err := r.Render("")
		require.NoError(t, err)
		assert.Empty(t, string(out))
	})
}
