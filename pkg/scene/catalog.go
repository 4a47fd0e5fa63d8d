package scene

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/raybrush/pkg/domain"
)

// Catalog looks scene documents up by ID.
type Catalog interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*Document, error)
}

// Static is a fixed in-memory catalog keyed by document name.
type Static map[string]*Document

var _ Catalog = Static(nil)

// NewStatic indexes docs by name. The default scene is always present.
func NewStatic(docs ...*Document) Static {
	s := Static{}
	def := Default()
	s[def.Name] = def
	for _, d := range docs {
		s[d.Name] = d
	}
	return s
}

func (s Static) List(context.Context) ([]string, error) {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s Static) Get(_ context.Context, id string) (*Document, error) {
	doc, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("%w: scene %q", domain.ErrStageNotFound, id)
	}
	return doc, nil
}
