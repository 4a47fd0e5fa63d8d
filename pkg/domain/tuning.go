package domain

import (
	"fmt"
	"time"
)

// Default tuning values, sized for a scene measured in meters.
const (
	DefaultBuryDepth        = 0.02
	DefaultRaiseHeight      = 0.005
	DefaultFarDistance      = 100.0
	DefaultCameraTransition = 500 * time.Millisecond
	DefaultEraseDelay       = 200 * time.Millisecond
)

// Offsets are the surface-relative trail offsets, as positive magnitudes.
// Bury moves against the normal, raise moves along it.
type Offsets struct {
	BuryDepth   float64 `json:"bury_depth" yaml:"bury_depth"`
	RaiseHeight float64 `json:"raise_height" yaml:"raise_height"`
}

// Tuning gathers every numeric knob of the controller.
type Tuning struct {
	Offsets     Offsets        `json:"offsets"`
	FarDistance float64        `json:"far_distance"`
	Transition  TransitionSpec `json:"transition"`
	EraseDelay  time.Duration  `json:"erase_delay"`
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Offsets: Offsets{
			BuryDepth:   DefaultBuryDepth,
			RaiseHeight: DefaultRaiseHeight,
		},
		FarDistance: DefaultFarDistance,
		Transition: TransitionSpec{
			Duration: DefaultCameraTransition,
			Easing:   DefaultEasing,
		},
		EraseDelay: DefaultEraseDelay,
	}
}

// Validate checks the tuning is usable.
func (t Tuning) Validate() error {
	if t.Offsets.BuryDepth <= 0 {
		return fmt.Errorf("bury depth must be positive, got %v", t.Offsets.BuryDepth)
	}
	if t.Offsets.RaiseHeight <= 0 {
		return fmt.Errorf("raise height must be positive, got %v", t.Offsets.RaiseHeight)
	}
	if t.FarDistance <= 0 {
		return fmt.Errorf("far distance must be positive, got %v", t.FarDistance)
	}
	if t.Transition.Duration < 0 {
		return fmt.Errorf("camera transition must not be negative, got %v", t.Transition.Duration)
	}
	if !t.Transition.Easing.Valid() {
		return fmt.Errorf("unknown camera easing %q", t.Transition.Easing)
	}
	if t.EraseDelay < 0 {
		return fmt.Errorf("erase delay must not be negative, got %v", t.EraseDelay)
	}
	return nil
}
