// Package broadcast implements the broadcast fabric: given a transmitting
// interface, it answers which other interfaces share its dial frequency
// and should therefore receive the transmission.
package broadcast

import "github.com/PaulOfford/js8emu/pkg/iface"

// Fabric resolves destination sets against a fixed interface registry.
type Fabric struct {
	registry *iface.Registry
}

// NewFabric wraps a registry for destination-set lookups.
func NewFabric(registry *iface.Registry) *Fabric {
	return &Fabric{registry: registry}
}

// Destinations returns every interface other than origin whose dial
// frequency equals origin's, evaluated at the moment of the call. A
// TransmitJob must call this exactly once, at job start, and keep the
// result for the job's lifetime — interfaces retuning mid-job must not
// affect a job already in flight.
func (f *Fabric) Destinations(origin *iface.Interface) []*iface.Interface {
	dial := origin.Dial()
	var dests []*iface.Interface
	for _, candidate := range f.registry.All() {
		if candidate == origin {
			continue
		}
		if candidate.Dial() == dial {
			dests = append(dests, candidate)
		}
	}
	return dests
}
