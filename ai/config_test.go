package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.VisionHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ClassifierHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.VisionModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ClassifierModel)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "gpt-4o-mini", cfg.ClassifierModel)
	})

	t.Run("with shared host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://ai.internal:8080/v1"))

		assert.Equal(t, "http://ai.internal:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://ai.internal:8080/v1", cfg.VisionHost)
		assert.Equal(t, "http://ai.internal:8080/v1", cfg.ClassifierHost)
	})

	t.Run("with per-service settings", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed.internal/v1"),
			WithVisionHost("http://vision.internal/v1"),
			WithClassifierHost("http://classify.internal/v1"),
			WithEmbeddingModel("embeddinggemma"),
			WithVisionModel("llava:13b"),
			WithClassifierModel("qwen2.5:3b"),
		)

		assert.Equal(t, "http://embed.internal/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://vision.internal/v1", cfg.VisionHost)
		assert.Equal(t, "http://classify.internal/v1", cfg.ClassifierHost)
		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
		assert.Equal(t, "llava:13b", cfg.VisionModel)
		assert.Equal(t, "qwen2.5:3b", cfg.ClassifierModel)
	})

	t.Run("later options override earlier", func(t *testing.T) {
		cfg := NewConfig(
			WithHost("http://shared/v1"),
			WithVisionHost("http://special/v1"),
		)

		assert.Equal(t, "http://shared/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://special/v1", cfg.VisionHost)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"already has /v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"missing /v1", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"empty host unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				EmbeddingHost:  tt.host,
				VisionHost:     tt.host,
				ClassifierHost: tt.host,
			}
			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.EmbeddingHost)
			assert.Equal(t, tt.expected, cfg.VisionHost)
			assert.Equal(t, tt.expected, cfg.ClassifierHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("normalizes before validation", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing vision host", func(c *Config) { c.VisionHost = "" }},
		{"missing classifier host", func(c *Config) { c.ClassifierHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing vision model", func(c *Config) { c.VisionModel = "" }},
		{"missing classifier model", func(c *Config) { c.ClassifierModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
