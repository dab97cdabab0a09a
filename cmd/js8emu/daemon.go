package main

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/PaulOfford/js8emu/pkg/broadcast"
	"github.com/PaulOfford/js8emu/pkg/config"
	"github.com/PaulOfford/js8emu/pkg/conn"
	"github.com/PaulOfford/js8emu/pkg/debugserver"
	"github.com/PaulOfford/js8emu/pkg/iface"
	"github.com/PaulOfford/js8emu/pkg/logging"
	"github.com/PaulOfford/js8emu/pkg/transmit"
)

// shutdownGrace bounds how long Stop waits for the debug server to shut
// down. The wait for in-flight transmit jobs is not bounded by it.
const shutdownGrace = 5 * time.Second

// Daemon owns one TCP listener per configured interface, the shared
// broadcast fabric, and the transmit scheduler every connection submits
// jobs to.
type Daemon struct {
	cfg       *config.Config
	log       *logging.Logger
	registry  *iface.Registry
	scheduler *transmit.Scheduler
	debug     *debugserver.Server

	listeners []net.Listener
	wg        sync.WaitGroup
}

// NewDaemon builds every interface, the registry, and the scheduler from
// cfg, but does not yet open any sockets.
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	log := logging.GetGlobalLogger()

	interfaces := make([]*iface.Interface, 0, len(cfg.Interfaces))
	for _, ic := range cfg.Interfaces {
		interfaces = append(interfaces, iface.New(ic.Port, ic.Callsign, ic.Maidenhead, ic.Frequency, ic.Offset))
	}
	registry := iface.NewRegistry(interfaces)
	fabric := broadcast.NewFabric(registry)
	scheduler := transmit.NewScheduler(fabric, cfg.FragmentSize, cfg.FrameTime, time.Now().UnixNano(), log)

	d := &Daemon{
		cfg:       cfg,
		log:       log,
		registry:  registry,
		scheduler: scheduler,
	}

	if cfg.DebugPort != 0 {
		d.debug = debugserver.New(cfg.DebugPort, registry, log)
	}

	return d, nil
}

// Start opens one listener per interface and begins accepting
// connections. It returns once every listener is bound.
func (d *Daemon) Start() error {
	for _, ifc := range d.registry.All() {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", ifc.Port()))
		if err != nil {
			d.closeListeners()
			return fmt.Errorf("interface %s: listen on port %d: %w", ifc.Callsign(), ifc.Port(), err)
		}
		d.listeners = append(d.listeners, ln)

		d.log.Infof("daemon", "interface %s listening on port %d (dial %d Hz)", ifc.Callsign(), ifc.Port(), ifc.Dial())

		d.wg.Add(1)
		go d.acceptLoop(ln, ifc)
	}

	if d.debug != nil {
		d.debug.Start()
		d.log.Infof("daemon", "debug status endpoint listening on port %d", d.cfg.DebugPort)
	}

	return nil
}

func (d *Daemon) acceptLoop(ln net.Listener, ifc *iface.Interface) {
	defer d.wg.Done()
	for {
		nc, err := ln.Accept()
		if err != nil {
			return
		}
		c := conn.New(nc, ifc, d.scheduler, d.log)
		go c.Serve()
	}
}

// Stop closes every listener so no new connections are accepted, lets
// in-flight transmit jobs run to completion, and shuts down the debug
// server. Accepted connections are closed by their own Serve loop once
// their peer disconnects; Stop does not force them closed.
func (d *Daemon) Stop() {
	d.closeListeners()
	d.wg.Wait()

	d.scheduler.Wait()

	if d.debug != nil {
		if err := d.debug.Shutdown(shutdownGrace); err != nil {
			d.log.Warnf("daemon", "debug server shutdown: %v", err)
		}
	}
}

func (d *Daemon) closeListeners() {
	for _, ln := range d.listeners {
		ln.Close()
	}
}
