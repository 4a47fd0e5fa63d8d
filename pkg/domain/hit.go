package domain

import "gonum.org/v1/gonum/spatial/r3"

// Outcome is the result of a raycast: a hit with point and surface normal, or a miss.
type Outcome struct {
	Hit    bool   `json:"hit"`
	Point  r3.Vec `json:"point"`
	Normal r3.Vec `json:"normal"`
}

// Miss is the outcome of a raycast that found no surface.
var Miss = Outcome{}

// HitAt builds a hit outcome.
func HitAt(point, normal r3.Vec) Outcome {
	return Outcome{Hit: true, Point: point, Normal: normal}
}
