package domain

// EventName is a logical input event the controller can subscribe to.
type EventName string

// Lifecycle events.
const (
	EventGrabStart EventName = "grab-start"
	EventGrabEnd   EventName = "grab-end"
)

// Tracked controller events.
const (
	EventTriggerDown   EventName = "trigger-down"
	EventTriggerUp     EventName = "trigger-up"
	EventSecondaryDown EventName = "secondary-down"
	EventTick          EventName = "tick"
)

// Pointer device events.
const (
	EventAimPressed        EventName = "aim-pressed"
	EventErasePressed      EventName = "erase-pressed"
	EventReturnPressed     EventName = "return-pressed"
	EventFocusedStarted    EventName = "focused-input-started"
	EventFocusedMoved      EventName = "focused-input-moved"
	EventFocusedEnded      EventName = "focused-input-ended"
	EventFocusedForcedExit EventName = "focused-mode-forced-exit"
)

// KnownEvents lists every event name the controller understands.
var KnownEvents = []EventName{
	EventGrabStart, EventGrabEnd,
	EventTriggerDown, EventTriggerUp, EventSecondaryDown, EventTick,
	EventAimPressed, EventErasePressed, EventReturnPressed,
	EventFocusedStarted, EventFocusedMoved, EventFocusedEnded, EventFocusedForcedExit,
}

// IsKnown reports whether n is one of KnownEvents.
func (n EventName) IsKnown() bool {
	for _, k := range KnownEvents {
		if k == n {
			return true
		}
	}
	return false
}

// InputEvent is a single event delivered through the input bus.
type InputEvent struct {
	Name EventName `json:"name"`

	// Agent is set for grab-start.
	Agent *Agent `json:"agent,omitempty"`

	// Ray is set for focused-input-started and focused-input-moved.
	Ray *RayQuery `json:"ray,omitempty"`
}
