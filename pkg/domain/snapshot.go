package domain

// Snapshot is a read-only view of a controller, for inspection and reports.
type Snapshot struct {
	Grabbed              bool          `json:"grabbed"`
	GrabID               string        `json:"grab_id,omitempty"`
	Agent                *Agent        `json:"agent,omitempty"`
	Modality             InputModality `json:"modality,omitempty"`
	Phase                CameraPhase   `json:"phase"`
	Draw                 DrawState     `json:"draw"`
	Generation           uint64        `json:"generation"`
	GrabSubscriptions    int           `json:"grab_subscriptions"`
	FocusedSubscriptions int           `json:"focused_subscriptions"`
	EmissionStopped      bool          `json:"emission_stopped"`
}
