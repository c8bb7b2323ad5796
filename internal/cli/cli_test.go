package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("positional container path", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-flight", "f1", "/data/container"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "/data/container", cfg.ContainerPath)
		assert.Equal(t, "f1", cfg.FlightID)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("container flag", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-container", "/data/c", "-flight", "f1"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "/data/c", cfg.ContainerPath)
	})

	t.Run("all options", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{
			"-flight", "f1",
			"-profile", "/etc/derive/profiles",
			"-dot", "/tmp/graph.dot",
			"-airport-url", "http://lookup.internal",
			"-log-format", "text",
			"-log-level", "debug",
			"/data/c",
		}, &out)
		require.NoError(t, err)
		assert.Equal(t, "/etc/derive/profiles", cfg.ProfilePath)
		assert.Equal(t, "/tmp/graph.dot", cfg.DotPath)
		assert.Equal(t, "http://lookup.internal", cfg.AirportURL)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("no container path prints usage", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-flight", "f1"}, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("missing flight id", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"/data/c"}, &out)
		require.Error(t, err)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
		assert.Contains(t, exitErr.Message, "flight id")
	})

	t.Run("invalid log format", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-flight", "f1", "-log-format", "xml", "/data/c"}, &out)
		require.Error(t, err)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log level", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-flight", "f1", "-log-level", "loud", "/data/c"}, &out)
		require.Error(t, err)
	})

	t.Run("help exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		_, exit, err := Parse([]string{"-h"}, &out)
		require.NoError(t, err)
		assert.True(t, exit)
	})
}
