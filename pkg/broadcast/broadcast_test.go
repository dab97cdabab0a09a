package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PaulOfford/js8emu/pkg/iface"
)

func TestDestinationsExcludesOriginAndOffFrequencyInterfaces(t *testing.T) {
	a := iface.New(2442, "A1CALL", "JO01", 7078000, 1500)
	b := iface.New(2443, "B2CALL", "JO02", 7078000, 1500)
	c := iface.New(2444, "C3CALL", "JO03", 14078000, 1500)

	fabric := NewFabric(iface.NewRegistry([]*iface.Interface{a, b, c}))

	dests := fabric.Destinations(a)

	assert.Len(t, dests, 1)
	assert.Equal(t, b, dests[0])
}

func TestDestinationsReflectsDialAtCallTime(t *testing.T) {
	a := iface.New(2442, "A1CALL", "JO01", 7078000, 1500)
	b := iface.New(2443, "B2CALL", "JO02", 14078000, 1500)

	fabric := NewFabric(iface.NewRegistry([]*iface.Interface{a, b}))
	assert.Empty(t, fabric.Destinations(a))

	b.SetDial(7078000)
	assert.Len(t, fabric.Destinations(a), 1)
}

func TestDestinationsEmptyWhenAlone(t *testing.T) {
	a := iface.New(2442, "A1CALL", "JO01", 7078000, 1500)
	fabric := NewFabric(iface.NewRegistry([]*iface.Interface{a}))
	assert.Empty(t, fabric.Destinations(a))
}
