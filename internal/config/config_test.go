package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/internal/config"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := config.LoadFrom("", "", env(nil))
		require.NoError(t, err)
		assert.Equal(t, config.AdapterJSON, cfg.Adapter)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.NotEmpty(t, cfg.DataDir)
		assert.Zero(t, cfg.KDFIterations)
	})

	t.Run("YAML File", func(t *testing.T) {
		file := writeFile(t, "jotter.yaml", "data_dir: /tmp/notes\nadapter: sqlite\nlog_level: debug\nkdf_iterations: 20000\n")

		cfg, err := config.LoadFrom(file, "", env(nil))
		require.NoError(t, err)
		assert.Equal(t, config.Config{
			DataDir:       "/tmp/notes",
			Adapter:       config.AdapterSQLite,
			LogLevel:      "debug",
			KDFIterations: 20000,
		}, cfg)

		lvl, err := cfg.Level()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, lvl)
	})

	t.Run("Precedence", func(t *testing.T) {
		file := writeFile(t, "jotter.yaml", "data_dir: /from/yaml\nadapter: json\nlog_level: info\n")
		dotenv := writeFile(t, ".env", "JOTTER_DATA_DIR=/from/dotenv\nJOTTER_LOG_LEVEL=error\n")

		cfg, err := config.LoadFrom(file, dotenv, env(map[string]string{
			"JOTTER_LOG_LEVEL": "debug",
			"JOTTER_ADAPTER":   "SQLite",
		}))
		require.NoError(t, err)
		assert.Equal(t, "/from/dotenv", cfg.DataDir, ".env beats yaml")
		assert.Equal(t, "debug", cfg.LogLevel, "environment beats .env")
		assert.Equal(t, config.AdapterSQLite, cfg.Adapter)
	})

	t.Run("Missing DotEnv Is Ignored", func(t *testing.T) {
		_, err := config.LoadFrom("", filepath.Join(t.TempDir(), ".env"), env(nil))
		assert.NoError(t, err)
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name string
			file string
			vars map[string]string
		}{
			{"missing yaml", filepath.Join(t.TempDir(), "nope.yaml"), nil},
			{"bad yaml", writeFile(t, "bad.yaml", "adapter: [\n"), nil},
			{"unknown adapter", "", map[string]string{"JOTTER_ADAPTER": "postgres"}},
			{"bad level", "", map[string]string{"JOTTER_LOG_LEVEL": "loud"}},
			{"bad iterations", "", map[string]string{"JOTTER_KDF_ITERATIONS": "many"}},
			{"weak iterations", "", map[string]string{"JOTTER_KDF_ITERATIONS": "10"}},
			{"empty data dir", "", map[string]string{"JOTTER_DATA_DIR": ""}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := config.LoadFrom(tt.file, "", env(tt.vars))
				assert.Error(t, err)
			})
		}
	})
}
