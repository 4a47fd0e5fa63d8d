package domain

// DeviceClass is the kind of device the controlling agent uses.
type DeviceClass string

const (
	DeviceVR      DeviceClass = "vr"
	DeviceMobile  DeviceClass = "mobile"
	DeviceDesktop DeviceClass = "desktop"
)

// InputModality is the input method selected for one grab.
type InputModality string

const (
	// ModalityNone means no grab is active.
	ModalityNone InputModality = ""
	// ModalityTracked is beam-and-trigger drawing from a motion-tracked controller.
	ModalityTracked InputModality = "tracked"
	// ModalityPointer is button-driven focused drawing from a touch/pointer device.
	ModalityPointer InputModality = "pointer"
)

// ModalityFor maps a device class to its input modality.
// Only VR and mobile devices are recognized.
func ModalityFor(device DeviceClass) (InputModality, bool) {
	switch device {
	case DeviceVR:
		return ModalityTracked, true
	case DeviceMobile:
		return ModalityPointer, true
	default:
		return ModalityNone, false
	}
}

// AgentID identifies a controlling agent (player).
type AgentID string

// Agent is the entity holding the tool.
type Agent struct {
	ID     AgentID     `json:"id" yaml:"id" mapstructure:"id"`
	Device DeviceClass `json:"device" yaml:"device" mapstructure:"device"`
}

// EntityID identifies a scene entity such as the trail effect or the beam.
type EntityID string

// OwnerID identifies the owner of an entity.
type OwnerID string

// DefaultOwner is the neutral owner entities return to on release.
const DefaultOwner OwnerID = "server"

// OwnerOf returns the owner id for an agent.
func OwnerOf(agent Agent) OwnerID {
	return OwnerID(agent.ID)
}
