package iface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaulOfford/js8emu/pkg/protocol"
)

type fakeWriter struct {
	id  string
	got []protocol.Message
}

func (f *fakeWriter) Enqueue(msg protocol.Message) { f.got = append(f.got, msg) }
func (f *fakeWriter) ID() string                   { return f.id }

func TestFreqIsDerived(t *testing.T) {
	ifc := New(2442, "2E0FGO", "JO01", 7078000, 1500)
	assert.Equal(t, 7078000, ifc.Dial())
	assert.Equal(t, 1500, ifc.Offset())
	assert.Equal(t, 7079500, ifc.Freq())
}

func TestSetDialNotifiesAllAttachedConnections(t *testing.T) {
	ifc := New(2442, "2E0FGO", "JO01", 7078000, 1500)
	a := &fakeWriter{id: "a"}
	b := &fakeWriter{id: "b"}
	ifc.AddConn(a)
	ifc.AddConn(b)

	ifc.SetDial(7200000)

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Equal(t, protocol.TypeStationStatus, a.got[0].Type)
	assert.Equal(t, 7200000, a.got[0].Params["DIAL"])
	assert.Equal(t, 7201500, a.got[0].Params["FREQ"])
}

func TestSetDialDoesNotNotifyRemovedConnections(t *testing.T) {
	ifc := New(2442, "2E0FGO", "JO01", 7078000, 1500)
	a := &fakeWriter{id: "a"}
	ifc.AddConn(a)
	ifc.RemoveConn(a)

	ifc.SetDial(7200000)

	assert.Empty(t, a.got)
}

func TestConnsIsASnapshot(t *testing.T) {
	ifc := New(2442, "2E0FGO", "JO01", 7078000, 1500)
	a := &fakeWriter{id: "a"}
	ifc.AddConn(a)

	snapshot := ifc.Conns()
	ifc.AddConn(&fakeWriter{id: "b"})

	assert.Len(t, snapshot, 1)
	assert.Len(t, ifc.Conns(), 2)
}
