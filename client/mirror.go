package client

import (
	"encoding/json"
	"sync"
)

// Device is one entry of the dashboard's local view of the fleet.
type Device struct {
	Identifier string `json:"identifier"`
	IP         string `json:"ip"`
	State      string `json:"state"`
	Status     string `json:"status"`
}

// Mirror is the dashboard-side view of the device set, built up from relay
// broadcasts. Apply is idempotent: replaying a message leaves the mirror
// unchanged.
type Mirror struct {
	mu      sync.RWMutex
	devices []Device
}

func NewMirror() *Mirror {
	return &Mirror{}
}

type mirrorMsg struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
	IP         string `json:"ip"`
	State      string `json:"state"`
	Status     string `json:"status"`
}

// Apply folds one relay broadcast into the mirror. Unrecognized or
// malformed payloads are ignored. Reports whether the view changed.
func (m *Mirror) Apply(raw []byte) bool {
	var msg mirrorMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch msg.Type {
	case "device_connected":
		// Append only if the ip+identifier pair is unseen
		for _, d := range m.devices {
			if d.IP == msg.IP && d.Identifier == msg.Identifier {
				return false
			}
		}
		m.devices = append(m.devices, Device{Identifier: msg.Identifier, IP: msg.IP, State: "off"})
		return true
	case "device_update", "state_update":
		if i := m.indexOf(msg.Identifier, msg.IP); i >= 0 {
			if m.devices[i].State == msg.State {
				return false
			}
			m.devices[i].State = msg.State
			return true
		}
		return false
	case "device_status":
		changed := false
		for i := range m.devices {
			if m.devices[i].IP == msg.IP && m.devices[i].Status != msg.Status {
				m.devices[i].Status = msg.Status
				changed = true
			}
		}
		return changed
	}
	return false
}

// indexOf matches by identifier first, falling back to address. Caller
// holds the lock.
func (m *Mirror) indexOf(identifier, ip string) int {
	if identifier != "" {
		for i, d := range m.devices {
			if d.Identifier == identifier {
				return i
			}
		}
	}
	if ip != "" {
		for i, d := range m.devices {
			if d.IP == ip {
				return i
			}
		}
	}
	return -1
}

// Devices returns a snapshot of the mirrored device set.
func (m *Mirror) Devices() []Device {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Device, len(m.devices))
	copy(out, m.devices)
	return out
}
