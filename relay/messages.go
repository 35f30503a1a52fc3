package relay

// Recognized inbound message types. Anything else well-formed takes the
// legacy raw-relay path and is forwarded verbatim.
const (
	TypeStateUpdate  = "state_update"
	TypeToggleDevice = "toggle_device"
	TypeLEDControl   = "led_control"
)

// Outbound envelope types.
const (
	TypeDeviceUpdate = "device_update"
	TypeDeviceStatus = "device_status"
)

// TypeDeviceConnected is announced by devices themselves and reaches
// dashboards through the raw-relay path.
const TypeDeviceConnected = "device_connected"

// envelope is the shared shape of structured wire messages. Devices and
// dashboards were bootstrapped independently, so every field is optional.
type envelope struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier,omitempty"`
	IP         string `json:"ip,omitempty"`
	State      string `json:"state,omitempty"`
	Status     string `json:"status,omitempty"`
}
