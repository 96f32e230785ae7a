package options

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shadertuner.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	o, err := Parse(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *o)
}

func TestParseFlags(t *testing.T) {
	o, err := Parse([]string{"-width", "640", "-height", "360", "-collapsed", "-log-level", "debug"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 640, o.Width)
	assert.Equal(t, 360, o.Height)
	assert.True(t, o.Collapsed)

	level, err := o.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestConfigMergesOntoDefaults(t *testing.T) {
	path := writeConfig(t, `
width = 1920
title = "tuning"
record = true
fps = 30
`)
	o, err := Parse([]string{"-config", path}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 1920, o.Width)
	assert.Equal(t, 720, o.Height, "unset keys keep the default")
	assert.Equal(t, "tuning", o.Title)
	assert.True(t, o.Record)
	assert.Equal(t, 30, o.FPS)
	assert.Equal(t, "output.mp4", o.OutputFile)
	assert.Equal(t, path, o.Config)
}

func TestExplicitFlagsBeatConfig(t *testing.T) {
	path := writeConfig(t, `
width = 1920
record = true
`)
	o, err := Parse([]string{"-config", path, "-width", "800", "-record=false"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 800, o.Width)
	assert.False(t, o.Record)
}

func TestConfigErrors(t *testing.T) {
	_, err := Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, io.Discard)
	assert.ErrorContains(t, err, "failed to read config")

	path := writeConfig(t, `colour = "red"`)
	_, err = Parse([]string{"-config", path}, io.Discard)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	o := Defaults()
	assert.NoError(t, o.Validate())

	o.Width = 0
	o.LogLevel = "chatty"
	err := o.Validate()
	assert.ErrorContains(t, err, "invalid size 0x720")
	assert.ErrorContains(t, err, `invalid log level "chatty"`)

	o = Defaults()
	o.Record = true
	o.FPS = 0
	assert.ErrorContains(t, o.Validate(), "invalid fps 0")

	// fps is only checked when recording
	o.Record = false
	assert.NoError(t, o.Validate())
}

func TestHelp(t *testing.T) {
	_, err := Parse([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}
