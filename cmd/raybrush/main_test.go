package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `^raybrush version \S+\n$`, out)
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "../../examples/scenes/gallery.yaml", "../../examples/scripts/vr-stroke.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "gallery.yaml: valid scene")
	assert.Contains(t, out, "vr-stroke.yaml: valid script")

	_, err = execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "validation failed")
}

func TestScenesCommand(t *testing.T) {
	out, err := execute(t, "scenes", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--scenes", "../../examples/scenes")
	require.NoError(t, err)
	assert.Equal(t, "gallery\n", out)
}

func TestRunCommand_JSON(t *testing.T) {
	out, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--scenes", "../../examples/scenes", "--json", "../../examples/scripts/vr-stroke.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"type":"summary"`)
	assert.Contains(t, out, `"scene":"gallery"`)
}
