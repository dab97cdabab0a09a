// Package debugserver exposes a minimal, read-only HTTP status endpoint
// for inspecting a running emulator. It never touches the JS8Call wire
// protocol; it is purely an operator convenience, gated by the optional
// debug_port configuration key and off by default.
package debugserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PaulOfford/js8emu/pkg/iface"
	"github.com/PaulOfford/js8emu/pkg/logging"
)

// Server wraps the gin engine and HTTP server lifecycle.
type Server struct {
	http *http.Server
	log  *logging.Logger
}

// interfaceStatus is the JSON shape returned by GET /status for one
// interface.
type interfaceStatus struct {
	Port     int    `json:"port"`
	Callsign string `json:"callsign"`
	Grid     string `json:"grid"`
	DialHz   int    `json:"dial_hz"`
	OffsetHz int    `json:"offset_hz"`
	FreqHz   int    `json:"freq_hz"`
	Conns    int    `json:"connections"`
}

// New builds a server bound to port that reports the live state of every
// interface in registry. It does not start listening until Start is called.
func New(port int, registry *iface.Registry, log *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/status", func(c *gin.Context) {
		statuses := make([]interfaceStatus, 0, len(registry.All()))
		for _, ifc := range registry.All() {
			statuses = append(statuses, interfaceStatus{
				Port:     ifc.Port(),
				Callsign: ifc.Callsign(),
				Grid:     ifc.Grid(),
				DialHz:   ifc.Dial(),
				OffsetHz: ifc.Offset(),
				FreqHz:   ifc.Freq(),
				Conns:    len(ifc.Conns()),
			})
		}
		c.JSON(http.StatusOK, gin.H{"interfaces": statuses})
	})

	return &Server{
		http: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		},
		log: log,
	}
}

// Start runs the HTTP server in the background. ListenAndServe errors
// other than a clean shutdown are logged but never fatal to the emulator.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.log != nil {
				s.log.Errorf("debugserver", "listen failed: %v", err)
			}
		}
	}()
}

// Shutdown stops the server within the given grace period.
func (s *Server) Shutdown(grace time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return s.http.Shutdown(ctx)
}
