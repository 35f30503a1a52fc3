package ws

import "sync"

// Registry keeps track of active websocket connections, keyed by peer
// network address. At most one live connection per address; a reconnect
// from the same address replaces the prior entry.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Peer
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Peer)}
}

// Admit registers a connection under addr, closing any superseded one
// first to avoid leaked sockets.
func (r *Registry) Admit(addr string, p Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.conns[addr]; ok && old != p {
		_ = old.Close()
	}
	r.conns[addr] = p
}

// Evict removes and closes the connection at addr. When p is non-nil the
// entry is only removed if it still is p, so a superseded connection's
// late cleanup cannot evict its replacement. Reports whether an entry
// was removed.
func (r *Registry) Evict(addr string, p Peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.conns[addr]
	if !ok {
		return false
	}
	if p != nil && cur != p {
		return false
	}
	_ = cur.Close()
	delete(r.conns, addr)
	return true
}

// Lookup returns the live connection at addr, if any.
func (r *Registry) Lookup(addr string) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.conns[addr]
	return p, ok
}

// Broadcast delivers payload to every connection whose address satisfies
// include (nil means all). Sends fan out in parallel so one stalled
// destination never delays the rest; an individual failed send is
// swallowed and its destination closed. Returns the number of deliveries
// attempted.
func (r *Registry) Broadcast(payload []byte, include func(addr string) bool) int {
	r.mu.RLock()
	targets := make([]Peer, 0, len(r.conns))
	for addr, p := range r.conns {
		if include == nil || include(addr) {
			targets = append(targets, p)
		}
	}
	r.mu.RUnlock()

	for _, p := range targets {
		go func(p Peer) {
			if err := p.Send(payload); err != nil {
				_ = p.Close()
			}
		}(p)
	}
	return len(targets)
}

// Addresses returns a copy of the currently connected peer addresses.
func (r *Registry) Addresses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addrs := make([]string, 0, len(r.conns))
	for addr := range r.conns {
		addrs = append(addrs, addr)
	}
	return addrs
}
