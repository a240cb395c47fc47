package uiparticle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_OverlaysDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
strict = true

[log]
debug = true

[demo]
frames = 10

[demo.emitter]
space = "world"
trails = true
lifetime = [1.0, 2.0]
`))
	require.NoError(t, err)

	def := DefaultConfig()
	assert.True(t, cfg.Strict)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, def.Log.Prefix, cfg.Log.Prefix)
	assert.Equal(t, def.MaxMaterialSlots, cfg.MaxMaterialSlots)
	assert.Equal(t, 10, cfg.Demo.Frames)
	assert.Equal(t, def.Demo.Elements, cfg.Demo.Elements)
	assert.Equal(t, SpaceWorld, cfg.Demo.Emitter.Space)
	assert.True(t, cfg.Demo.Emitter.Trails)
	assert.Equal(t, [2]float32{1, 2}, cfg.Demo.Emitter.Lifetime)
	assert.Equal(t, def.Demo.Emitter.SpawnRate, cfg.Demo.Emitter.SpawnRate)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "strict = "},
		{"unknown space", "[demo.emitter]\nspace = \"screen\""},
		{"no material slots", "max_material_slots = 0"},
		{"negative epsilon", "alpha_epsilon = -1.0"},
		{"zero frame rate", "[demo]\nframe_rate = 0.0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uiparticle.toml")

	cfg := DefaultConfig()
	cfg.Demo.Emitter.Space = SpaceCustom
	cfg.Demo.StencilDepth = 2
	data, err := cfg.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewLogger_Silent(t *testing.T) {
	l := NewLogger(LogConfig{Silent: true, Debug: true})
	assert.False(t, l.DebugEnabled())

	d := NewLogger(LogConfig{Prefix: "x", Debug: true})
	assert.True(t, d.DebugEnabled())
	d.SetDebug(false)
	assert.False(t, d.DebugEnabled())
}
