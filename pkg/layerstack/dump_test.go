package layerstack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	win, hero := setup(t)
	s, err := Create(win, hero, DefaultOptions())
	require.NoError(t, err)

	out := Dump(s)
	assert.Contains(t, out, ContainerClass+" (live) ")
	assert.Contains(t, out, "width: 404px")
	assert.Contains(t, out, "background-size: cover")
	assert.Contains(t, out, "sheet :root { --xoffset: -30; --yoffset: 4 }")

	// Bottom layer first, as in the DOM.
	assert.Less(t, strings.Index(out, LayerClass+"[2]"), strings.Index(out, LayerClass+"[0]"))

	s.Destroy(DestroyOptions{Immediate: true})
	assert.Contains(t, Dump(s), "(destroyed)")
}
