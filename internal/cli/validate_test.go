package cli_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/raybrush/internal/cli"
)

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	kind, err := cli.ValidateFile(writeFile(t, dir, "stroke.yaml", strokeScript))
	require.NoError(t, err)
	assert.Equal(t, cli.KindScript, kind)

	kind, err = cli.ValidateFile(writeFile(t, dir, "floor.json",
		`{"name":"floor","surfaces":[{"kind":"plane","point":[0,0,0],"normal":[0,1,0]}]}`))
	require.NoError(t, err)
	assert.Equal(t, cli.KindScene, kind)

	kind, err = cli.ValidateFile(writeFile(t, dir, "bad.yaml", "steps:\n  - event: wave\n"))
	assert.Equal(t, cli.KindScript, kind)
	assert.Error(t, err)

	kind, err = cli.ValidateFile(writeFile(t, dir, "broken.yaml", "name: x\nsurfaces:\n  - kind: quad\n"))
	assert.Equal(t, cli.KindScene, kind)
	assert.Error(t, err)

	_, err = cli.ValidateFile(writeFile(t, dir, "junk.yaml", "::: [\n"))
	assert.Error(t, err)
}

func TestValidateFile_Examples(t *testing.T) {
	for path, want := range map[string]cli.Kind{
		"../../examples/scenes/gallery.yaml":     cli.KindScene,
		"../../examples/scripts/vr-stroke.yaml":  cli.KindScript,
		"../../examples/scripts/mobile-aim.yaml": cli.KindScript,
	} {
		kind, err := cli.ValidateFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, kind, path)
	}
}

func TestSetup_ExampleConfig(t *testing.T) {
	app, err := cli.Setup(context.Background(), cli.Options{
		ConfigPath: "../../examples/raybrush.yaml",
		ScenesDir:  "../../examples/scenes",
	})
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, ":9090", app.Config.Metrics.Addr)
	doc, err := app.ResolveScene(context.Background(), "gallery")
	require.NoError(t, err)
	assert.Len(t, doc.Surfaces, 4)
}
