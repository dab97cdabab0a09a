// Package conn implements one accepted TCP connection: its inbound
// reader, its strictly-ordered outbound writer, and the dispatch table
// that turns decoded frames into replies or scheduler submissions.
package conn

import (
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/PaulOfford/js8emu/pkg/iface"
	"github.com/PaulOfford/js8emu/pkg/logging"
	"github.com/PaulOfford/js8emu/pkg/protocol"
	"github.com/PaulOfford/js8emu/pkg/verbose"
)

// Submitter is the scheduler surface a connection needs to hand off a
// TX.SEND_MESSAGE. Kept narrow so this package never imports pkg/transmit
// back into pkg/iface's side of the dependency graph.
type Submitter interface {
	Submit(origin *iface.Interface, payload string)
}

// nextConnID hands out small, log-friendly connection identifiers.
var (
	nextConnID   uint64
	nextConnIDMu sync.Mutex
)

func allocID() string {
	nextConnIDMu.Lock()
	defer nextConnIDMu.Unlock()
	nextConnID++
	return fmt.Sprintf("conn-%d", nextConnID)
}

// Connection owns one accepted socket. Inbound frames are read and
// dispatched on one goroutine; outbound frames are queued by Enqueue and
// drained in FIFO order by a second goroutine, so a slow or wedged peer
// can never reorder its own replies and a broadcast fan-out can never
// starve other connections on the same interface.
type Connection struct {
	id  string
	nc  net.Conn
	ifc *iface.Interface
	tx  Submitter
	log *logging.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []protocol.Message
	closed bool
}

// New wraps an accepted socket for the given interface. The connection
// attaches itself to ifc immediately so STATION.STATUS and broadcast
// traffic can reach it from the moment it exists.
func New(nc net.Conn, ifc *iface.Interface, tx Submitter, log *logging.Logger) *Connection {
	c := &Connection{
		id:  allocID(),
		nc:  nc,
		ifc: ifc,
		tx:  tx,
		log: log,
	}
	c.cond = sync.NewCond(&c.mu)
	ifc.AddConn(c)
	return c
}

// ID satisfies iface.Writer.
func (c *Connection) ID() string { return c.id }

// Enqueue appends msg to the outbound FIFO and wakes the writer. It never
// blocks and never drops a message while the connection is open.
func (c *Connection) Enqueue(msg protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.queue = append(c.queue, msg)
	c.cond.Signal()
}

// Serve runs the connection's reader and writer loops and blocks until
// both finish, which happens once the peer disconnects or a write fails.
// Callers run this in its own goroutine per accepted connection.
func (c *Connection) Serve() {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writeLoop()
	}()

	c.readLoop()

	c.mu.Lock()
	c.closed = true
	c.cond.Signal()
	c.mu.Unlock()

	wg.Wait()
	c.ifc.RemoveConn(c)
	c.nc.Close()
}

func (c *Connection) readLoop() {
	r := protocol.NewReader(c.nc)
	for {
		msg, err := r.Next(func(line string, err error) {
			if c.log != nil {
				c.log.Warnf("conn", "%s: malformed frame ignored: %v", c.id, err)
			}
		})
		if err != nil {
			if err != io.EOF && c.log != nil {
				c.log.Debugf("conn", "%s: read error: %v", c.id, err)
			}
			return
		}
		c.dispatch(msg)
	}
}

func (c *Connection) writeLoop() {
	for {
		c.mu.Lock()
		for len(c.queue) == 0 && !c.closed {
			c.cond.Wait()
		}
		if len(c.queue) == 0 && c.closed {
			c.mu.Unlock()
			return
		}
		msg := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		encoded, err := protocol.Encode(msg)
		if err != nil {
			if c.log != nil {
				c.log.Errorf("conn", "%s: encode failed: %v", c.id, err)
			}
			continue
		}
		if _, err := c.nc.Write(encoded); err != nil {
			if c.log != nil {
				c.log.Debugf("conn", "%s: write error: %v", c.id, err)
			}
			c.mu.Lock()
			c.closed = true
			c.mu.Unlock()
			return
		}
	}
}

// handlerFunc processes one inbound message against its originating
// connection's interface. Registered in a type-string keyed table rather
// than a type switch, matching the reference service's dispatch style.
type handlerFunc func(c *Connection, msg protocol.Message)

var handlers = map[string]handlerFunc{
	protocol.TypeStationGetCallsign: handleGetCallsign,
	protocol.TypeRigGetFreq:         handleGetFreq,
	protocol.TypeRigSetFreq:         handleSetFreq,
	protocol.TypeTxSendMessage:      handleSendMessage,
}

func (c *Connection) dispatch(msg protocol.Message) {
	if verbose.IsEnabled() {
		verbose.Printf("Conn: %s: dispatching %s", c.id, msg.Type)
	}
	h, ok := handlers[msg.Type]
	if !ok {
		if c.log != nil {
			c.log.Warnf("conn", "%s: unhandled message type %q", c.id, msg.Type)
		}
		return
	}
	h(c, msg)
}

func echoedID(msg protocol.Message) int {
	id, ok := protocol.EchoID(msg.Params)
	if !ok {
		return 0
	}
	return id
}

func handleGetCallsign(c *Connection, msg protocol.Message) {
	c.Enqueue(protocol.StationCallsign(c.ifc.Callsign(), echoedID(msg)))
}

func handleGetFreq(c *Connection, msg protocol.Message) {
	c.Enqueue(protocol.RigFreq(c.ifc.Dial(), c.ifc.Offset(), echoedID(msg)))
}

// handleSetFreq updates the interface's dial frequency. The STATION.STATUS
// notification this triggers (see iface.Interface.SetDial) reaches every
// connection attached to the interface, this one included, so no direct
// reply is enqueued here.
func handleSetFreq(c *Connection, msg protocol.Message) {
	dial, ok := msg.Params["DIAL"]
	if !ok {
		if c.log != nil {
			c.log.Warnf("conn", "%s: %s without DIAL ignored", c.id, msg.Type)
		}
		return
	}
	dialHz, ok := toInt(dial)
	if !ok {
		if c.log != nil {
			c.log.Warnf("conn", "%s: %s with non-numeric DIAL %v ignored", c.id, msg.Type, dial)
		}
		return
	}
	c.ifc.SetDial(dialHz)
}

func handleSendMessage(c *Connection, msg protocol.Message) {
	if c.tx == nil {
		return
	}
	c.tx.Submit(c.ifc, msg.Value)
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		var out int
		if _, err := fmt.Sscanf(n, "%d", &out); err != nil {
			return 0, false
		}
		return out, true
	default:
		return 0, false
	}
}
