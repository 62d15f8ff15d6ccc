package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubModel struct{ ref string }

func (s stubModel) StartChat(history []Content) Session { return nil }

var _ Model = stubModel{}

func TestRegistry(t *testing.T) {
	src := map[string]Model{
		"gemini-1.5-flash":           stubModel{ref: "gemini-1.5-flash"},
		"packagetestv2-nettsfkvxpqs": stubModel{ref: "tunedModels/packagetestv2-nettsfkvxpqs"},
	}
	reg := NewRegistry(src)

	// later writes to the source map must not leak into the registry
	src["late"] = stubModel{ref: "late"}

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"gemini-1.5-flash", "packagetestv2-nettsfkvxpqs"}, reg.Names())

	m, ok := reg.Lookup("packagetestv2-nettsfkvxpqs")
	assert.True(t, ok)
	assert.Equal(t, stubModel{ref: "tunedModels/packagetestv2-nettsfkvxpqs"}, m)

	_, ok = reg.Lookup("late")
	assert.False(t, ok)
	_, ok = reg.Lookup("not-a-real-model")
	assert.False(t, ok)
	_, ok = reg.Lookup("")
	assert.False(t, ok)
}

func TestRegistryNamesIsCopy(t *testing.T) {
	reg := NewRegistry(map[string]Model{"a": stubModel{}, "b": stubModel{}})
	names := reg.Names()
	names[0] = "zzz"
	assert.Equal(t, []string{"a", "b"}, reg.Names())
}

func TestDefaultGenerationConfig(t *testing.T) {
	cfg := DefaultGenerationConfig()
	assert.Equal(t, float32(1), cfg.Temperature)
	assert.Equal(t, float32(0.95), cfg.TopP)
	assert.Equal(t, int32(64), cfg.TopK)
	assert.Equal(t, int32(512), cfg.MaxOutputTokens)
	assert.Equal(t, "text/plain", cfg.ResponseMIMEType)
}
