// Package iface holds the mutable state of one emulated radio station and
// the registry that collects all of them at boot. Interfaces own the
// lifetime bookkeeping of their attached Connections; a Connection only
// ever holds a non-owning back-reference to its Interface (see §4.2/§9 of
// the spec this package implements).
package iface

import (
	"sync"

	"github.com/PaulOfford/js8emu/pkg/clock"
	"github.com/PaulOfford/js8emu/pkg/protocol"
)

// Writer is the minimal surface an attached connection must offer so an
// Interface can notify it without importing the connection package back
// (which would create an import cycle between interface state and
// connection handling).
type Writer interface {
	Enqueue(protocol.Message)
	ID() string
}

// Interface represents one emulated station: a callsign, a grid locator,
// a dial frequency that can change at runtime, a fixed audio offset, and
// the set of clients currently attached to it.
type Interface struct {
	port     int
	callsign string
	grid     string
	offsetHz int
	mu       sync.RWMutex
	dialHz   int
	conns    map[Writer]struct{}
}

// New creates an Interface with its boot-time configuration.
func New(port int, callsign, grid string, dialHz, offsetHz int) *Interface {
	return &Interface{
		port:     port,
		callsign: callsign,
		grid:     grid,
		dialHz:   dialHz,
		offsetHz: offsetHz,
		conns:    make(map[Writer]struct{}),
	}
}

func (i *Interface) Port() int        { return i.port }
func (i *Interface) Callsign() string { return i.callsign }
func (i *Interface) Grid() string     { return i.grid }
func (i *Interface) Offset() int      { return i.offsetHz }

// Dial returns the current dial frequency in Hz.
func (i *Interface) Dial() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dialHz
}

// Freq returns dial + offset. It is always derived, never stored.
func (i *Interface) Freq() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dialHz + i.offsetHz
}

// SetDial updates the dial frequency and notifies every attached
// connection with a STATION.STATUS frame. The update, the status frame and
// the snapshot of attached connections are taken under the same lock that
// guards connection-set enumeration, so no broadcast ever observes a
// half-updated interface; the frames are enqueued after the lock is
// released.
func (i *Interface) SetDial(newDialHz int) {
	i.mu.Lock()
	i.dialHz = newDialHz
	status := protocol.StationStatus(i.dialHz, i.offsetHz, clock.StationStatusID())
	writers := i.snapshotLocked()
	i.mu.Unlock()

	for _, w := range writers {
		w.Enqueue(status)
	}
}

// AddConn attaches a connection to this interface.
func (i *Interface) AddConn(w Writer) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.conns[w] = struct{}{}
}

// RemoveConn detaches a connection, e.g. on close or write failure.
func (i *Interface) RemoveConn(w Writer) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.conns, w)
}

// Conns returns a stable snapshot of attached connections, safe to range
// over without holding any lock. Used for the transmit scheduler's
// sender/receiver broadcasts and the debug status endpoint; SetDial takes
// its own snapshot while it holds the write lock.
func (i *Interface) Conns() []Writer {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.snapshotLocked()
}

func (i *Interface) snapshotLocked() []Writer {
	out := make([]Writer, 0, len(i.conns))
	for w := range i.conns {
		out = append(out, w)
	}
	return out
}
