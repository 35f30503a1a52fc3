package httpHandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iot-panel/entities"
	"iot-panel/usecases"
)

type DeviceHandler struct {
	useCase *usecases.DeviceUseCase
}

func NewDeviceHandler(useCase *usecases.DeviceUseCase) *DeviceHandler {
	return &DeviceHandler{
		useCase: useCase,
	}
}

func validStatus(status string) bool {
	switch status {
	case entities.StatusUnconfigured, entities.StatusConfigured, entities.StatusError:
		return true
	}
	return false
}

// CreateDevice handles POST /api/v1/devices
func (h *DeviceHandler) CreateDevice(c *gin.Context) {
	var device entities.Device

	if err := c.ShouldBindJSON(&device); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	if device.IP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device ip is required"})
		return
	}
	if device.Status != "" && !validStatus(device.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid status, must be one of: unconfigured, configured, error",
		})
		return
	}

	if err := h.useCase.CreateDevice(&device); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, device)
}

// GetDevice handles GET /api/v1/devices/:id
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	id := c.Param("id")

	device, err := h.useCase.GetDevice(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	c.JSON(http.StatusOK, device)
}

// GetAllDevices handles GET /api/v1/devices
func (h *DeviceHandler) GetAllDevices(c *gin.Context) {
	devices, err := h.useCase.GetAllDevices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve devices"})
		return
	}
	if devices == nil {
		devices = []entities.Device{}
	}

	c.JSON(http.StatusOK, devices)
}

// UpdateDevice handles PUT /api/v1/devices/:id
// Name, type, status, identifier and the state payload are editable from
// the dashboard; the network address is owned by the relay and rejected
// here.
func (h *DeviceHandler) UpdateDevice(c *gin.Context) {
	id := c.Param("id")

	var device entities.Device
	if err := c.ShouldBindJSON(&device); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	if device.IP != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device ip is managed by the relay"})
		return
	}
	if device.Status != "" && !validStatus(device.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid status, must be one of: unconfigured, configured, error",
		})
		return
	}

	device.ID = id

	if err := h.useCase.UpdateDevice(&device); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.useCase.GetDevice(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteDevice handles DELETE /api/v1/devices/:id
func (h *DeviceHandler) DeleteDevice(c *gin.Context) {
	id := c.Param("id")

	if err := h.useCase.DeleteDevice(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
