package domain

import "time"

// CameraPhase is the state of the camera sequencer.
type CameraPhase string

const (
	PhaseThirdPerson        CameraPhase = "third_person"
	PhaseToFirstPerson      CameraPhase = "to_first_person"
	PhaseFirstPersonFocused CameraPhase = "first_person_focused"
	PhaseToThirdPerson      CameraPhase = "to_third_person"
)

// Easing names the interpolation curve of a camera transition.
type Easing string

const (
	EaseLinear    Easing = "linear"
	EaseIn        Easing = "ease_in"
	EaseOut       Easing = "ease_out"
	EaseInOut     Easing = "ease_in_out"
	DefaultEasing        = EaseInOut
)

// Valid reports whether e is a known easing curve.
func (e Easing) Valid() bool {
	switch e {
	case EaseLinear, EaseIn, EaseOut, EaseInOut:
		return true
	}
	return false
}

// TransitionSpec describes an animated camera mode change.
type TransitionSpec struct {
	Duration time.Duration `json:"duration"`
	Easing   Easing        `json:"easing"`
}
