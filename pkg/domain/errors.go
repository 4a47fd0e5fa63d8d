package domain

import "errors"

// ErrMissingResource is returned when a required resource handle is not configured.
var ErrMissingResource = errors.New("required resource not configured")

// ErrUnsupportedDevice is returned when the grabbing agent's device class is not recognized.
var ErrUnsupportedDevice = errors.New("unsupported device class")

// ErrResolverUnavailable is returned when the raycaster cannot answer a query.
var ErrResolverUnavailable = errors.New("raycast resolver unavailable")

// ErrNotGrabbed is returned when an operation needs an active grab.
var ErrNotGrabbed = errors.New("tool is not grabbed")

// ErrStageNotFound is returned when a stage ID cannot be found.
var ErrStageNotFound = errors.New("stage not found")

// ErrUnknownEvent is returned for input event names the controller does not understand.
var ErrUnknownEvent = errors.New("unknown input event")
