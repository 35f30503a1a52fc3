package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"iot-panel/db"
	"iot-panel/entities"
)

type devicePgRepository struct {
	db db.Database
}

func NewDevicePgRepository(database db.Database) DeviceRepository {
	return &devicePgRepository{db: database}
}

func (r *devicePgRepository) Create(device *entities.Device) error {
	return r.db.GetDB().Create(device).Error
}

func (r *devicePgRepository) GetByID(id string) (*entities.Device, error) {
	var device entities.Device
	err := r.db.GetDB().Where("id = ?", id).First(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *devicePgRepository) GetAll() ([]entities.Device, error) {
	var devices []entities.Device
	err := r.db.GetDB().Order("created_at DESC").Find(&devices).Error
	return devices, err
}

func (r *devicePgRepository) Update(device *entities.Device) error {
	device.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Save(device).Error
}

func (r *devicePgRepository) Delete(id string) error {
	return r.db.GetDB().Where("id = ?", id).Delete(&entities.Device{}).Error
}

func (r *devicePgRepository) FindByIP(ip string) (*entities.Device, error) {
	var device entities.Device
	err := r.db.GetDB().Where("ip = ?", ip).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// FindOrCreateByIP resolves the device row for an address, creating it with
// registration defaults when absent. Runs in a transaction so two concurrent
// first contacts from the same address cannot produce two rows.
func (r *devicePgRepository) FindOrCreateByIP(ip string) (*entities.Device, error) {
	var device entities.Device
	err := r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		return tx.Where("ip = ?", ip).
			Attrs(entities.Device{
				IP:     ip,
				Type:   entities.DefaultType,
				Status: entities.StatusUnconfigured,
				Data:   entities.DefaultData,
			}).
			FirstOrCreate(&device).Error
	})
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *devicePgRepository) UpdateState(ip, state string) (*entities.Device, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res := r.db.GetDB().Model(&entities.Device{}).Where("ip = ?", ip).
		Updates(map[string]interface{}{
			"data":       gorm.Expr("jsonb_set(COALESCE(data, '{}'::jsonb), '{state}', to_jsonb(?::text))", state),
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByIP(ip)
}

func (r *devicePgRepository) UpdateStatus(ip, status string) (*entities.Device, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res := r.db.GetDB().Model(&entities.Device{}).Where("ip = ?", ip).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByIP(ip)
}

func (r *devicePgRepository) FindByIdentifier(identifier string) (*entities.Device, error) {
	var device entities.Device
	err := r.db.GetDB().Where("identifier = ?", identifier).First(&device).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// BindIdentifier records a stable identifier against the row for an address.
// An identifier is globally unique: any other row still claiming it is
// released in the same transaction, so a device reconnecting from a new
// address carries its identity to the new row. A row that already holds a
// different identifier keeps it.
func (r *devicePgRepository) BindIdentifier(ip, identifier string) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Device{}).
			Where("identifier = ? AND ip <> ?", identifier, ip).
			Update("identifier", "").Error; err != nil {
			return err
		}
		return tx.Model(&entities.Device{}).
			Where("ip = ? AND (identifier IS NULL OR identifier = '' OR identifier = ?)", ip, identifier).
			Update("identifier", identifier).Error
	})
}
