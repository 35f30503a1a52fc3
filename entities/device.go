package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Device status values. A device that connects but has not been configured
// from the dashboard stays "unconfigured"; disconnecting always resets to it.
const (
	StatusUnconfigured = "unconfigured"
	StatusConfigured   = "configured"
	StatusError        = "error"
)

// DefaultType is assigned to devices created on first contact.
const DefaultType = "switch"

// DefaultData is the state payload of a freshly registered device.
const DefaultData = `{"state":"off"}`

type Device struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	// stable external id; globally unique when present, empty rows excluded
	// from the index
	Identifier string `gorm:"index:idx_devices_identifier,unique,where:identifier <> ''" json:"identifier,omitempty"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	IP         string         `gorm:"index" json:"ip"` // last seen network address
	Status     string         `json:"status"`
	Data       string         `gorm:"type:jsonb" json:"data"` // free-form state payload
	CreatedAt  string         `json:"created_at"`
	UpdatedAt  string         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (d *Device) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Status == "" {
		d.Status = StatusUnconfigured
	}
	if d.Type == "" {
		d.Type = DefaultType
	}
	if d.Data == "" {
		d.Data = DefaultData
	}
	d.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	d.UpdatedAt = d.CreatedAt
	return
}

// State extracts the "state" field from the data payload, "" if absent.
func (d *Device) State() string {
	var payload struct {
		State string `json:"state"`
	}
	if err := json.Unmarshal([]byte(d.Data), &payload); err != nil {
		return ""
	}
	return payload.State
}

// SetState rewrites the "state" field, preserving other payload keys.
func (d *Device) SetState(state string) {
	payload := map[string]interface{}{}
	_ = json.Unmarshal([]byte(d.Data), &payload)
	payload["state"] = state
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	d.Data = string(b)
}
