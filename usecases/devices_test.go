package usecases

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iot-panel/entities"
)

type fakeDeviceRepo struct {
	byID    map[string]*entities.Device
	created []*entities.Device
	updated []*entities.Device
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{byID: make(map[string]*entities.Device)}
}

func (r *fakeDeviceRepo) Create(d *entities.Device) error {
	r.created = append(r.created, d)
	if d.ID != "" {
		r.byID[d.ID] = d
	}
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
	r.updated = append(r.updated, d)
	return nil
}

func (r *fakeDeviceRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeDeviceRepo) FindByIP(ip string) (*entities.Device, error) { return nil, nil }

func (r *fakeDeviceRepo) FindOrCreateByIP(ip string) (*entities.Device, error) {
	d := &entities.Device{IP: ip, Status: entities.StatusUnconfigured, Data: entities.DefaultData}
	r.created = append(r.created, d)
	return d, nil
}

func (r *fakeDeviceRepo) UpdateState(ip, state string) (*entities.Device, error) {
	return &entities.Device{IP: ip, Data: `{"state":"` + state + `"}`}, nil
}

func (r *fakeDeviceRepo) UpdateStatus(ip, status string) (*entities.Device, error) {
	return &entities.Device{IP: ip, Status: status}, nil
}

func (r *fakeDeviceRepo) FindByIdentifier(identifier string) (*entities.Device, error) {
	return nil, nil
}

func (r *fakeDeviceRepo) BindIdentifier(ip, identifier string) error { return nil }

func TestCreateDeviceRequiresIP(t *testing.T) {
	uc := NewDeviceUseCase(newFakeDeviceRepo())

	err := uc.CreateDevice(&entities.Device{Name: "lamp"})
	assert.Error(t, err)

	err = uc.CreateDevice(&entities.Device{Name: "lamp", IP: "10.0.0.5"})
	assert.NoError(t, err)
}

func TestUpdateDeviceMergesProvidedFields(t *testing.T) {
	repo := newFakeDeviceRepo()
	existing := &entities.Device{ID: "d1", Name: "old", Type: "switch", Status: entities.StatusUnconfigured}
	repo.byID["d1"] = existing

	uc := NewDeviceUseCase(repo)
	err := uc.UpdateDevice(&entities.Device{ID: "d1", Name: "new", Status: entities.StatusConfigured})
	require.NoError(t, err)

	require.Len(t, repo.updated, 1)
	got := repo.updated[0]
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "switch", got.Type, "unset fields keep their value")
	assert.Equal(t, entities.StatusConfigured, got.Status)
}

func TestUpdateDeviceUnknownID(t *testing.T) {
	uc := NewDeviceUseCase(newFakeDeviceRepo())
	err := uc.UpdateDevice(&entities.Device{ID: "missing", Name: "x"})
	assert.Error(t, err)
}

func TestResolveOnConnectRequiresIP(t *testing.T) {
	repo := newFakeDeviceRepo()
	uc := NewDeviceUseCase(repo)

	_, err := uc.ResolveOnConnect("")
	assert.Error(t, err)

	d, err := uc.ResolveOnConnect("10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", d.IP)
	assert.Equal(t, entities.StatusUnconfigured, d.Status)
}

func TestUpdateStateValidation(t *testing.T) {
	uc := NewDeviceUseCase(newFakeDeviceRepo())

	_, err := uc.UpdateState("", "on")
	assert.Error(t, err)
	_, err = uc.UpdateState("10.0.0.5", "")
	assert.Error(t, err)

	d, err := uc.UpdateState("10.0.0.5", "on")
	require.NoError(t, err)
	assert.Equal(t, "on", d.State())
}

func TestBindIdentifierValidation(t *testing.T) {
	uc := NewDeviceUseCase(newFakeDeviceRepo())
	assert.Error(t, uc.BindIdentifier("", "sw_1"))
	assert.Error(t, uc.BindIdentifier("10.0.0.5", ""))
	assert.NoError(t, uc.BindIdentifier("10.0.0.5", "sw_1"))
}
