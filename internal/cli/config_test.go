package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pablof036/liblauncher/pkg/config"
)

func TestWriteSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.SetValue("max_concurrent", "12"))
	require.NoError(t, cfg.SetValue("log_level", "debug"))

	var buf bytes.Buffer
	require.NoError(t, writeSettings(&buf, cfg))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(config.Keys()))

	byKey := make(map[string]string, len(lines))
	for i, line := range lines {
		key := config.Keys()[i]
		assert.True(t, strings.HasPrefix(line, key), "line %q should start with %s", line, key)
		byKey[key] = line
	}

	assert.Contains(t, byKey["max_concurrent"], "= 12")
	assert.NotContains(t, byKey["max_concurrent"], "(default)")
	assert.Contains(t, byKey["log_level"], "= debug")
	assert.NotContains(t, byKey["log_level"], "(default)")
	assert.Contains(t, byKey["http_timeout"], "(default)")
	assert.Equal(t, strings.Index(byKey["root_dir"], "="), strings.Index(byKey["asset_base_url"], "="))
}
