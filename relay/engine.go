package relay

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"iot-panel/entities"
	"iot-panel/ws"
)

// ErrNotConnected is returned for a targeted command whose device has no
// live connection.
var ErrNotConnected = errors.New("device not connected")

// DeviceStore is the persistence surface the engine needs. Each operation
// completes or fails atomically; lookups return nil when no row matches.
type DeviceStore interface {
	ResolveOnConnect(ip string) (*entities.Device, error)
	UpdateState(ip, state string) (*entities.Device, error)
	UpdateStatus(ip, status string) (*entities.Device, error)
	FindByIdentifier(identifier string) (*entities.Device, error)
	BindIdentifier(ip, identifier string) error
}

// Engine routes messages between device and dashboard connections: raw
// payloads are relayed verbatim, state updates are persisted and fanned
// out, and targeted commands go to exactly one addressed connection.
type Engine struct {
	reg   *ws.Registry
	store DeviceStore
	log   zerolog.Logger

	// serializes the resolve-or-create path per address
	addrMu    sync.Mutex
	addrLocks map[string]*sync.Mutex

	// identifier -> last seen address, fed by inbound payloads
	idMu    sync.RWMutex
	idIndex map[string]string
}

func NewEngine(reg *ws.Registry, store DeviceStore, log zerolog.Logger) *Engine {
	return &Engine{
		reg:       reg,
		store:     store,
		log:       log.With().Str("component", "relay").Logger(),
		addrLocks: make(map[string]*sync.Mutex),
		idIndex:   make(map[string]string),
	}
}

func (e *Engine) lockFor(addr string) *sync.Mutex {
	e.addrMu.Lock()
	defer e.addrMu.Unlock()
	mu, ok := e.addrLocks[addr]
	if !ok {
		mu = &sync.Mutex{}
		e.addrLocks[addr] = mu
	}
	return mu
}

// Connect resolves or creates the device row for the connecting address and
// admits the connection. Two simultaneous first contacts from one address
// are serialized so only a single row can be created.
func (e *Engine) Connect(addr string, p ws.Peer) error {
	mu := e.lockFor(addr)
	mu.Lock()
	defer mu.Unlock()

	if _, err := e.store.ResolveOnConnect(addr); err != nil {
		return err
	}
	e.reg.Admit(addr, p)
	e.log.Info().Str("ip", addr).Msg("connection admitted")
	return nil
}

// Disconnect evicts the connection and, exactly once per live connection,
// marks the device unconfigured and announces the status change. Safe to
// call multiple times (close and error both fire it).
func (e *Engine) Disconnect(addr string, p ws.Peer) {
	if !e.reg.Evict(addr, p) {
		return
	}
	e.dropBindings(addr)
	e.releaseLock(addr)

	if _, err := e.store.UpdateStatus(addr, entities.StatusUnconfigured); err != nil {
		e.log.Error().Err(err).Str("ip", addr).Msg("status update failed on disconnect")
	}
	out, _ := json.Marshal(envelope{Type: TypeDeviceStatus, IP: addr, Status: entities.StatusUnconfigured})
	e.reg.Broadcast(out, nil)
	e.log.Info().Str("ip", addr).Msg("connection closed")
}

// HandleMessage classifies one inbound payload from addr and routes it.
// Malformed payloads are dropped and logged; the connection stays open.
func (e *Engine) HandleMessage(addr string, raw []byte) {
	if !json.Valid(raw) {
		e.log.Warn().Str("ip", addr).Msg("dropping malformed payload")
		return
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Well-formed JSON that isn't our envelope shape: dumb-pipe fallback.
		e.relayRaw(addr, raw)
		return
	}

	switch env.Type {
	case TypeStateUpdate:
		// a device reporting its own state; safe to learn its identity
		if env.Identifier != "" {
			e.bindIdentifier(addr, env.Identifier)
		}
		e.handleStateUpdate(addr, env)
	case TypeToggleDevice, TypeLEDControl:
		// identifier names the target here, not the sender; learning a
		// binding from it would route the command back to its origin
		if err := e.sendToTarget(env.Identifier, env.IP, raw); err != nil {
			// Baseline behavior: the command is dropped, the sender is not
			// notified on the wire. Kept observable in the logs.
			e.log.Warn().Str("ip", addr).Str("identifier", env.Identifier).
				Str("type", env.Type).Msg("targeted command has no live destination")
		}
	default:
		if env.Type == TypeDeviceConnected && env.Identifier != "" {
			e.bindIdentifier(addr, env.Identifier)
		}
		e.relayRaw(addr, raw)
	}
}

func (e *Engine) handleStateUpdate(addr string, env envelope) {
	device, err := e.store.UpdateState(addr, env.State)
	if err != nil {
		// State change is lost; suppress the broadcast so dashboards never
		// see a state the store doesn't hold.
		e.log.Error().Err(err).Str("ip", addr).Str("state", env.State).Msg("state persist failed")
		return
	}
	if device == nil {
		e.log.Warn().Str("ip", addr).Msg("state update for unknown device")
		return
	}

	out, _ := json.Marshal(envelope{
		Type:       TypeDeviceUpdate,
		Identifier: env.Identifier,
		IP:         addr,
		State:      env.State,
	})
	n := e.reg.Broadcast(out, func(a string) bool { return a != addr })
	e.log.Debug().Str("ip", addr).Str("state", env.State).Int("fanout", n).Msg("state update relayed")
}

// relayRaw forwards an unrecognized payload verbatim to every other live
// connection, preserving the legacy dumb-pipe path.
func (e *Engine) relayRaw(addr string, raw []byte) {
	n := e.reg.Broadcast(raw, func(a string) bool { return a != addr })
	e.log.Debug().Str("ip", addr).Int("fanout", n).Msg("raw payload relayed")
}

// SendCommand delivers a toggle command to the device known by identifier.
// Returns ErrNotConnected when no live connection resolves for it.
func (e *Engine) SendCommand(identifier, state string) error {
	raw, _ := json.Marshal(envelope{Type: TypeToggleDevice, Identifier: identifier, State: state})
	return e.sendToTarget(identifier, "", raw)
}

func (e *Engine) sendToTarget(identifier, fallbackIP string, raw []byte) error {
	addr := e.resolveAddr(identifier)
	if addr == "" {
		addr = fallbackIP
	}
	if addr == "" {
		return ErrNotConnected
	}
	p, ok := e.reg.Lookup(addr)
	if !ok {
		return ErrNotConnected
	}
	if err := p.Send(raw); err != nil {
		_ = p.Close()
		return ErrNotConnected
	}
	return nil
}

// ConnectedAddresses lists the addresses with a live connection.
func (e *Engine) ConnectedAddresses() []string {
	return e.reg.Addresses()
}

func (e *Engine) resolveAddr(identifier string) string {
	if identifier == "" {
		return ""
	}
	e.idMu.RLock()
	addr, ok := e.idIndex[identifier]
	e.idMu.RUnlock()
	if ok {
		return addr
	}
	device, err := e.store.FindByIdentifier(identifier)
	if err != nil || device == nil {
		return ""
	}
	return device.IP
}

func (e *Engine) bindIdentifier(addr, identifier string) {
	e.idMu.Lock()
	known := e.idIndex[identifier] == addr
	e.idIndex[identifier] = addr
	e.idMu.Unlock()
	if known {
		return
	}
	if err := e.store.BindIdentifier(addr, identifier); err != nil {
		e.log.Error().Err(err).Str("ip", addr).Str("identifier", identifier).Msg("identifier bind failed")
	}
}

// releaseLock prunes the per-address lock once no connection remains for
// the address, so the map tracks live addresses only. A racing connect
// that still holds the old mutex is covered by the store's atomic
// find-or-create.
func (e *Engine) releaseLock(addr string) {
	if _, ok := e.reg.Lookup(addr); ok {
		return
	}
	e.addrMu.Lock()
	delete(e.addrLocks, addr)
	e.addrMu.Unlock()
}

func (e *Engine) dropBindings(addr string) {
	e.idMu.Lock()
	for id, a := range e.idIndex {
		if a == addr {
			delete(e.idIndex, id)
		}
	}
	e.idMu.Unlock()
}
