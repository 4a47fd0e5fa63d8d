// Package scene defines the scene documents a stage is built from: the
// surfaces a ray can hit and where the tool starts.
//
// Documents are YAML or JSON files, loam documents, or loose maps from HTTP
// and MCP payloads.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/raybrush/pkg/adapters/memory"
	"github.com/aretw0/raybrush/pkg/domain"
)

// Surface kinds.
const (
	KindPlane    = "plane"
	KindQuad     = "quad"
	KindTriangle = "triangle"
)

// Vec is a point or direction written as [x, y, z].
type Vec [3]float64

// R3 converts v to a gonum vector.
func (v Vec) R3() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// FromR3 converts a gonum vector.
func FromR3(v r3.Vec) Vec {
	return Vec{v.X, v.Y, v.Z}
}

// Surface is one piece of geometry. Which fields apply depends on Kind.
type Surface struct {
	Kind string `yaml:"kind" json:"kind" mapstructure:"kind"`

	// plane
	Point  Vec `yaml:"point,omitempty" json:"point,omitempty" mapstructure:"point"`
	Normal Vec `yaml:"normal,omitempty" json:"normal,omitempty" mapstructure:"normal"`

	// quad
	Origin Vec `yaml:"origin,omitempty" json:"origin,omitempty" mapstructure:"origin"`
	U      Vec `yaml:"u,omitempty" json:"u,omitempty" mapstructure:"u"`
	V      Vec `yaml:"v,omitempty" json:"v,omitempty" mapstructure:"v"`

	// triangle
	Vertices []Vec `yaml:"vertices,omitempty" json:"vertices,omitempty" mapstructure:"vertices"`
}

// Pose is where the tool sits and where it points.
type Pose struct {
	Position Vec `yaml:"position" json:"position" mapstructure:"position"`
	Forward  Vec `yaml:"forward" json:"forward" mapstructure:"forward"`
}

// Domain converts the pose.
func (p Pose) Domain() domain.Pose {
	return domain.Pose{Position: p.Position.R3(), Forward: p.Forward.R3()}
}

// Document is a complete scene.
type Document struct {
	Name        string    `yaml:"name" json:"name" mapstructure:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty" mapstructure:"description"`
	Surfaces    []Surface `yaml:"surfaces" json:"surfaces" mapstructure:"surfaces"`
	Tool        Pose      `yaml:"tool" json:"tool" mapstructure:"tool"`
	MaxDistance float64   `yaml:"max_distance,omitempty" json:"max_distance,omitempty" mapstructure:"max_distance"`
}

// Default is a floor with a wall in front of a tool held at chest height,
// pointing down and forward.
func Default() *Document {
	return &Document{
		Name:        "studio",
		Description: "Floor plane with a 4x3 wall five meters ahead.",
		Surfaces: []Surface{
			{Kind: KindPlane, Point: Vec{0, 0, 0}, Normal: Vec{0, 1, 0}},
			{Kind: KindQuad, Origin: Vec{-2, 0, -5}, U: Vec{4, 0, 0}, V: Vec{0, 3, 0}},
		},
		Tool: Pose{Position: Vec{0, 1.5, 0}, Forward: Vec{0, -0.5, -1}},
	}
}

// Parse decodes a document. ext selects JSON for ".json" and YAML otherwise.
func Parse(data []byte, ext string) (*Document, error) {
	var doc Document
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse scene json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse scene yaml: %w", err)
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a scene file. A missing name defaults to the file name.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	ext := filepath.Ext(path)
	doc, err := Parse(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return doc, nil
}

// Validate checks every surface has the geometry its kind needs.
func (d *Document) Validate() error {
	var errs []error
	if len(d.Surfaces) == 0 {
		errs = append(errs, errors.New("scene has no surfaces"))
	}
	for i, s := range d.Surfaces {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("surface %d: %w", i, err))
		}
	}
	if d.Tool.Forward == (Vec{}) {
		errs = append(errs, errors.New("tool forward must not be zero"))
	}
	if d.MaxDistance < 0 {
		errs = append(errs, fmt.Errorf("max distance must not be negative, got %v", d.MaxDistance))
	}
	return errors.Join(errs...)
}

func (s Surface) validate() error {
	switch s.Kind {
	case KindPlane:
		if s.Normal == (Vec{}) {
			return errors.New("plane normal must not be zero")
		}
	case KindQuad:
		if r3.Norm2(r3.Cross(s.U.R3(), s.V.R3())) == 0 {
			return errors.New("quad edges must not be parallel or zero")
		}
	case KindTriangle:
		if len(s.Vertices) != 3 {
			return fmt.Errorf("triangle needs 3 vertices, got %d", len(s.Vertices))
		}
		a, b, c := s.Vertices[0].R3(), s.Vertices[1].R3(), s.Vertices[2].R3()
		if r3.Norm2(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) == 0 {
			return errors.New("triangle is degenerate")
		}
	default:
		return fmt.Errorf("unknown surface kind %q", s.Kind)
	}
	return nil
}

func (s Surface) build() memory.Surface {
	switch s.Kind {
	case KindPlane:
		return memory.NewPlane(s.Point.R3(), s.Normal.R3())
	case KindQuad:
		return memory.Quad{Origin: s.Origin.R3(), U: s.U.R3(), V: s.V.R3()}
	default:
		return memory.NewTriangle(s.Vertices[0].R3(), s.Vertices[1].R3(), s.Vertices[2].R3())
	}
}

// Build validates the document and returns a raycaster over its surfaces.
func (d *Document) Build() (*memory.Scene, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	surfaces := make([]memory.Surface, len(d.Surfaces))
	for i, s := range d.Surfaces {
		surfaces[i] = s.build()
	}
	return memory.NewScene(surfaces, memory.WithMaxDistance(d.MaxDistance)), nil
}
