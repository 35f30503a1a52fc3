package httpHandler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iot-panel/entities"
	"iot-panel/usecases"
)

type fakeDeviceRepo struct {
	byID map[string]*entities.Device
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{byID: make(map[string]*entities.Device)}
}

func (r *fakeDeviceRepo) Create(d *entities.Device) error {
	if d.ID == "" {
		d.ID = "dev-" + d.IP
	}
	r.byID[d.ID] = d
	return nil
}

func (r *fakeDeviceRepo) GetByID(id string) (*entities.Device, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return d, nil
}

func (r *fakeDeviceRepo) GetAll() ([]entities.Device, error) { return nil, nil }

func (r *fakeDeviceRepo) Update(d *entities.Device) error {
	r.byID[d.ID] = d
	return nil
}

func (r *fakeDeviceRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeDeviceRepo) FindByIP(ip string) (*entities.Device, error) { return nil, nil }
func (r *fakeDeviceRepo) FindOrCreateByIP(ip string) (*entities.Device, error) {
	return nil, nil
}
func (r *fakeDeviceRepo) UpdateState(ip, state string) (*entities.Device, error) {
	return nil, nil
}
func (r *fakeDeviceRepo) UpdateStatus(ip, status string) (*entities.Device, error) {
	return nil, nil
}
func (r *fakeDeviceRepo) FindByIdentifier(identifier string) (*entities.Device, error) {
	return nil, nil
}
func (r *fakeDeviceRepo) BindIdentifier(ip, identifier string) error { return nil }

func newTestRouter(repo *fakeDeviceRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDeviceHandler(usecases.NewDeviceUseCase(repo))
	router := gin.New()
	router.POST("/devices", h.CreateDevice)
	router.PUT("/devices/:id", h.UpdateDevice)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateDeviceRequiresIP(t *testing.T) {
	router := newTestRouter(newFakeDeviceRepo())

	w := doJSON(t, router, http.MethodPost, "/devices", `{"name":"lamp"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ip is required")
}

func TestCreateDeviceRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(newFakeDeviceRepo())

	w := doJSON(t, router, http.MethodPost, "/devices",
		`{"ip":"10.0.0.5","status":"blinking"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid status")
}

func TestCreateDeviceOK(t *testing.T) {
	repo := newFakeDeviceRepo()
	router := newTestRouter(repo)

	w := doJSON(t, router, http.MethodPost, "/devices",
		`{"name":"lamp","ip":"10.0.0.5","identifier":"led_1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, repo.byID, 1)
}

func TestUpdateDeviceRejectsAddressChange(t *testing.T) {
	repo := newFakeDeviceRepo()
	repo.byID["d1"] = &entities.Device{ID: "d1", IP: "10.0.0.5", Status: entities.StatusUnconfigured}
	router := newTestRouter(repo)

	w := doJSON(t, router, http.MethodPut, "/devices/d1", `{"ip":"10.0.0.6"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "managed by the relay")
	assert.Equal(t, "10.0.0.5", repo.byID["d1"].IP)
}

func TestUpdateDeviceMergesFields(t *testing.T) {
	repo := newFakeDeviceRepo()
	repo.byID["d1"] = &entities.Device{ID: "d1", IP: "10.0.0.5", Name: "old", Status: entities.StatusUnconfigured}
	router := newTestRouter(repo)

	w := doJSON(t, router, http.MethodPut, "/devices/d1",
		`{"name":"porch light","status":"configured"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "porch light", repo.byID["d1"].Name)
	assert.Equal(t, entities.StatusConfigured, repo.byID["d1"].Status)
	assert.Equal(t, "10.0.0.5", repo.byID["d1"].IP)
}
