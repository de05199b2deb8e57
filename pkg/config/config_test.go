package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layerstack/pkg/parallax"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, parallax.DefaultConfig(), cfg.ProjectorConfig())
	assert.Equal(t, 750*time.Millisecond, cfg.StackOptions().DestroyTimeout)
	assert.Equal(t, 1280.0, cfg.Viewport.Width)
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	cfg, err := Decode(`
[viewport]
width = 640

[parallax]
max_rotation = 90

[destroy]
timeout = "2s"
`)
	require.NoError(t, err)
	assert.Equal(t, 640.0, cfg.Viewport.Width)
	assert.Equal(t, 800.0, cfg.Viewport.Height)
	assert.Equal(t, 90.0, cfg.Parallax.MaxRotation)
	assert.Equal(t, 4.0, cfg.Parallax.MaxLayerOffset)
	assert.Equal(t, 2*time.Second, cfg.Destroy.Timeout.Duration)
	assert.Equal(t, 12.0, cfg.Render.LayerSpacing)
}

func TestDecodeUnknownKey(t *testing.T) {
	_, err := Decode("[parallax]\nmax_rotaton = 10\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parallax.max_rotaton")
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode("[destroy]\ntimeout = \"soon\"\n")
	assert.Error(t, err)

	_, err = Decode("[viewport\n")
	assert.Error(t, err)

	_, err = Decode("[viewport]\nwidth = -1\n")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layerstack.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\ntilt = 0.25\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Render.Tilt)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestRenderOptions(t *testing.T) {
	cfg, err := Decode("[render]\nlayer_spacing = 20\ntilt = 0.75\n")
	require.NoError(t, err)
	ro := cfg.RenderOptions()
	assert.Equal(t, 20.0, ro.LayerSpacing)
	assert.Equal(t, 0.75, ro.Tilt)
	assert.Nil(t, ro.Loader)
}
