package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "primusgen", cfg.Name)
		assert.Equal(t, "gemini", cfg.LLM.Provider)
		assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	})

	t.Run("file values layer over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "primusgen.yaml")
		content := "llm:\n  model: gemini-2.5-pro\n  timeout: 5m\nlogging:\n  debug_mode: true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
		assert.True(t, cfg.Logging.DebugMode)
		// untouched fields keep defaults
		assert.Equal(t, "primusgen", cfg.Name)
		assert.Equal(t, filepath.Join("data", "micro_rules"), cfg.Data.MicroRulesDir)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("primary key wins over fallback", func(t *testing.T) {
		t.Setenv("PRIMUSGEN_API_KEY", "primary")
		t.Setenv("GEMINI_API_KEY", "fallback")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "primary", cfg.LLM.APIKey)
	})

	t.Run("fallback key used when primary absent", func(t *testing.T) {
		t.Setenv("PRIMUSGEN_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "fallback")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "fallback", cfg.LLM.APIKey)
	})

	t.Run("fallback never overwrites a configured key", func(t *testing.T) {
		t.Setenv("PRIMUSGEN_API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "fallback")
		path := filepath.Join(t.TempDir(), "primusgen.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm:\n  api_key: from-file\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.LLM.APIKey)
	})

	t.Run("model override", func(t *testing.T) {
		t.Setenv("PRIMUSGEN_MODEL", "gemini-2.5-pro")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	})
}

func TestLLMTimeout(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10*time.Minute, cfg.LLMTimeout())

	cfg.LLM.Timeout = "90s"
	assert.Equal(t, 90*time.Second, cfg.LLMTimeout())

	cfg.LLM.Timeout = "not-a-duration"
	assert.Equal(t, 10*time.Minute, cfg.LLMTimeout())

	cfg.LLM.Timeout = "-1m"
	assert.Equal(t, 10*time.Minute, cfg.LLMTimeout())
}
