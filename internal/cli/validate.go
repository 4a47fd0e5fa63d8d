package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/raybrush/pkg/scene"
	"github.com/aretw0/raybrush/pkg/script"
)

// Kind is what a validated file turned out to be.
type Kind string

const (
	KindScene  Kind = "scene"
	KindScript Kind = "script"
)

// ValidateFile checks a scene or script file. Files with a steps list are scripts.
func ValidateFile(path string) (Kind, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	// YAML is a superset of JSON, so one probe covers both formats.
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	if _, ok := probe["steps"]; ok {
		sc, err := script.Parse(data, filepath.Ext(path))
		if err != nil {
			return KindScript, err
		}
		return KindScript, sc.Validate()
	}
	_, err = scene.Parse(data, filepath.Ext(path))
	return KindScene, err
}
