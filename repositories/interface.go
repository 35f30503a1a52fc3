package repositories

import "iot-panel/entities"

type DeviceRepository interface {
	Create(device *entities.Device) error
	GetByID(id string) (*entities.Device, error)
	GetAll() ([]entities.Device, error)
	Update(device *entities.Device) error
	Delete(id string) error

	// Relay-facing operations, keyed by network address.
	FindByIP(ip string) (*entities.Device, error)
	FindOrCreateByIP(ip string) (*entities.Device, error)
	UpdateState(ip, state string) (*entities.Device, error)
	UpdateStatus(ip, status string) (*entities.Device, error)
	FindByIdentifier(identifier string) (*entities.Device, error)
	BindIdentifier(ip, identifier string) error
}
