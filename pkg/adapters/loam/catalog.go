package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/scene"
)

// Catalog serves scene documents from a loam repository. Scenes can be
// markdown files with frontmatter (the body becomes the description), JSON or YAML.
type Catalog struct {
	Repo *loam.TypedRepository[SceneMetadata]
}

var _ scene.Catalog = (*Catalog)(nil)

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[SceneMetadata]) *Catalog {
	return &Catalog{Repo: repo}
}

// Open initializes a read-only repository rooted at dir.
func Open(dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithVersioning(false),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[SceneMetadata](repo)), nil
}

// List returns the IDs of every scene, sorted, with file extensions stripped.
// Two documents resolving to the same ID is an error.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		id := sceneID(doc.Data.ID, doc.ID)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: scene '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Get loads and validates the scene with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (*scene.Document, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	for _, doc := range docs {
		if sceneID(doc.Data.ID, doc.ID) != id {
			continue
		}
		return toDocument(id, doc.Data, doc.Content)
	}
	return nil, fmt.Errorf("%w: scene %q", domain.ErrStageNotFound, id)
}

func toDocument(id string, meta SceneMetadata, content string) (*scene.Document, error) {
	raw := map[string]any{
		"name":         meta.Name,
		"description":  meta.Description,
		"surfaces":     toAnySlice(meta.Surfaces),
		"tool":         meta.Tool,
		"max_distance": meta.MaxDistance,
	}
	if meta.Name == "" {
		raw["name"] = id
	}
	if meta.Description == "" {
		raw["description"] = strings.TrimSpace(content)
	}
	doc, err := scene.FromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", id, err)
	}
	return doc, nil
}

func toAnySlice(in []map[string]any) []any {
	out := make([]any, len(in))
	for i, m := range in {
		out[i] = m
	}
	return out
}

func sceneID(metaID, docID string) string {
	raw := metaID
	if raw == "" {
		raw = docID
	}
	return trimExtension(raw)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
