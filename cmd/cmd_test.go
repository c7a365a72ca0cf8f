package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/holidayquest/internal/config"
	"github.com/frostline/holidayquest/internal/games"
)

func TestParseGame(t *testing.T) {
	g, err := parseGame("3")
	require.NoError(t, err)
	assert.Equal(t, games.SlugPuzzle, g.Slug)

	g, err = parseGame("networking")
	require.NoError(t, err)
	assert.Equal(t, 5, g.Number)

	_, err = parseGame("7")
	assert.Error(t, err)
	_, err = parseGame("chess")
	assert.Error(t, err)
}

func TestBindFlagsOnlyOverridesChangedFlags(t *testing.T) {
	t.Setenv("HOLIDAYQUEST_SERVER_PORT", "9000")
	t.Setenv("HOLIDAYQUEST_DATABASE_DSN", "/tmp/env.db")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 8080, "")
	fs.String("db", "", "")
	require.NoError(t, fs.Parse([]string{"--db", "/tmp/flag.db"}))

	v, err := config.New("")
	require.NoError(t, err)
	bindFlags(v, fs)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/tmp/flag.db", cfg.Database.DSN)
}
