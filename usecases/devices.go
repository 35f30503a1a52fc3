package usecases

import (
	"errors"

	"iot-panel/entities"
	"iot-panel/repositories"
)

type DeviceUseCase struct {
	DeviceRepo repositories.DeviceRepository
}

func NewDeviceUseCase(deviceRepo repositories.DeviceRepository) *DeviceUseCase {
	return &DeviceUseCase{DeviceRepo: deviceRepo}
}

// CreateDevice creates a new device record
func (uc *DeviceUseCase) CreateDevice(device *entities.Device) error {
	if device.IP == "" {
		return errors.New("device ip is required")
	}
	return uc.DeviceRepo.Create(device)
}

// GetDevice retrieves a device by ID
func (uc *DeviceUseCase) GetDevice(id string) (*entities.Device, error) {
	if id == "" {
		return nil, errors.New("device id is required")
	}
	return uc.DeviceRepo.GetByID(id)
}

// GetAllDevices retrieves all devices
func (uc *DeviceUseCase) GetAllDevices() ([]entities.Device, error) {
	return uc.DeviceRepo.GetAll()
}

// UpdateDevice updates a device
func (uc *DeviceUseCase) UpdateDevice(device *entities.Device) error {
	if device.ID == "" {
		return errors.New("device id is required")
	}

	existing, err := uc.DeviceRepo.GetByID(device.ID)
	if err != nil {
		return errors.New("device not found")
	}

	// Update only provided fields
	if device.Name != "" {
		existing.Name = device.Name
	}
	if device.Type != "" {
		existing.Type = device.Type
	}
	if device.Status != "" {
		existing.Status = device.Status
	}
	if device.Identifier != "" {
		existing.Identifier = device.Identifier
	}
	if device.Data != "" {
		existing.Data = device.Data
	}

	return uc.DeviceRepo.Update(existing)
}

// DeleteDevice deletes a device
func (uc *DeviceUseCase) DeleteDevice(id string) error {
	if id == "" {
		return errors.New("device id is required")
	}

	if _, err := uc.DeviceRepo.GetByID(id); err != nil {
		return errors.New("device not found")
	}

	return uc.DeviceRepo.Delete(id)
}

// ============= Relay-facing operations =============

// ResolveOnConnect finds or creates the device row for a connecting address.
func (uc *DeviceUseCase) ResolveOnConnect(ip string) (*entities.Device, error) {
	if ip == "" {
		return nil, errors.New("device ip is required")
	}
	return uc.DeviceRepo.FindOrCreateByIP(ip)
}

// UpdateState persists a new state payload value for the device at ip.
// Returns nil when no device row matches the address.
func (uc *DeviceUseCase) UpdateState(ip, state string) (*entities.Device, error) {
	if ip == "" {
		return nil, errors.New("device ip is required")
	}
	if state == "" {
		return nil, errors.New("state is required")
	}
	return uc.DeviceRepo.UpdateState(ip, state)
}

// UpdateStatus persists a status transition for the device at ip.
func (uc *DeviceUseCase) UpdateStatus(ip, status string) (*entities.Device, error) {
	if ip == "" {
		return nil, errors.New("device ip is required")
	}
	return uc.DeviceRepo.UpdateStatus(ip, status)
}

// FindByIdentifier resolves a device by its stable external identifier.
func (uc *DeviceUseCase) FindByIdentifier(identifier string) (*entities.Device, error) {
	if identifier == "" {
		return nil, errors.New("identifier is required")
	}
	return uc.DeviceRepo.FindByIdentifier(identifier)
}

// BindIdentifier records an identifier seen on the wire against the row at ip.
func (uc *DeviceUseCase) BindIdentifier(ip, identifier string) error {
	if ip == "" || identifier == "" {
		return errors.New("ip and identifier are required")
	}
	return uc.DeviceRepo.BindIdentifier(ip, identifier)
}
