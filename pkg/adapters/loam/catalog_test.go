package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/raybrush/internal/testutils"
	"github.com/aretw0/raybrush/pkg/domain"
)

const floorMD = `---
name: floor
surfaces:
  - kind: plane
    point: [0, 0, 0]
    normal: [0, 1, 0]
tool:
  position: [0, 1, 0]
  forward: [0, -1, 0]
---
A single floor plane.`

const wallJSON = `{
  "id": "wall.json",
  "surfaces": [{"kind": "quad", "origin": [-1, 0, -2], "u": [2, 0, 0], "v": [0, 2, 0]}],
  "tool": {"position": [0, 1, 0], "forward": [0, 0, -1]}
}`

func TestCatalog_List(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"floor.md":  floorMD,
		"wall.json": wallJSON,
	})

	catalog := New(loam.NewTypedRepository[SceneMetadata](repo))
	ids, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"floor", "wall"}, ids)
}

func TestCatalog_Get(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"floor.md":  floorMD,
		"wall.json": wallJSON,
	})
	catalog := New(loam.NewTypedRepository[SceneMetadata](repo))
	ctx := context.Background()

	doc, err := catalog.Get(ctx, "floor")
	require.NoError(t, err)
	assert.Equal(t, "floor", doc.Name)
	assert.Equal(t, "A single floor plane.", doc.Description)

	rc, err := doc.Build()
	require.NoError(t, err)
	pose := doc.Tool.Domain()
	out, err := rc.Cast(pose.Position, pose.Forward)
	require.NoError(t, err)
	assert.True(t, out.Hit)

	doc, err = catalog.Get(ctx, "wall")
	require.NoError(t, err)
	assert.Equal(t, "wall", doc.Name)

	_, err = catalog.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrStageNotFound)
}

func TestCatalog_Collision(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"wall.md":   "---\nid: wall\nsurfaces: []\n---\n",
		"wall.json": wallJSON,
	})

	catalog := New(loam.NewTypedRepository[SceneMetadata](repo))
	_, err := catalog.List(context.Background())
	assert.ErrorContains(t, err, "collision detected")
}

func TestCatalog_InvalidScene(t *testing.T) {
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"bad.md": "---\nsurfaces:\n  - kind: sphere\ntool:\n  forward: [0, 0, -1]\n---\n",
	})

	catalog := New(loam.NewTypedRepository[SceneMetadata](repo))
	_, err := catalog.Get(context.Background(), "bad")
	assert.ErrorContains(t, err, "sphere")
}
