package loam

// SceneMetadata is the frontmatter (or JSON/YAML body) of a scene document.
// Geometry stays loosely typed here and is decoded by the scene package.
type SceneMetadata struct {
	ID          string           `json:"id" mapstructure:"id"`
	Name        string           `json:"name" mapstructure:"name"`
	Description string           `json:"description" mapstructure:"description"`
	Surfaces    []map[string]any `json:"surfaces" mapstructure:"surfaces"`
	Tool        map[string]any   `json:"tool" mapstructure:"tool"`
	MaxDistance float64          `json:"max_distance" mapstructure:"max_distance"`
}
