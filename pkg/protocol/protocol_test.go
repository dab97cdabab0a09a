package protocol

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := StationCallsign("2E0FGO", 1)

	encoded, err := Encode(msg)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(encoded), "\n"))
	assert.Equal(t, 1, strings.Count(string(encoded), "\n"))

	r := NewReader(strings.NewReader(string(encoded)))
	decoded, err := r.Next(nil)
	require.NoError(t, err)
	assert.Equal(t, TypeStationCallsign, decoded.Type)
	assert.Equal(t, "2E0FGO", decoded.Value)
	assert.EqualValues(t, 1, decoded.Params["_ID"])
}

func TestReaderSkipsMalformedLines(t *testing.T) {
	input := "not json\n" + `{"type":"RIG.GET_FREQ","value":"","params":{"_ID":"2"}}` + "\n"
	r := NewReader(strings.NewReader(input))

	var malformedCount int
	msg, err := r.Next(func(line string, err error) { malformedCount++ })
	require.NoError(t, err)
	assert.Equal(t, 1, malformedCount)
	assert.Equal(t, TypeRigGetFreq, msg.Type)

	_, err = r.Next(nil)
	assert.ErrorIs(t, err, io.EOF)
}

func TestEchoID(t *testing.T) {
	t.Run("decimal string", func(t *testing.T) {
		id, ok := EchoID(map[string]interface{}{"_ID": "1769098601798"})
		require.True(t, ok)
		assert.Equal(t, 1769098601798, id)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := EchoID(map[string]interface{}{})
		assert.False(t, ok)
	})

	t.Run("not an integer", func(t *testing.T) {
		_, ok := EchoID(map[string]interface{}{"_ID": "abc"})
		assert.False(t, ok)
	})
}

func TestFreqParamsInvariant(t *testing.T) {
	params := map[string]interface{}{}
	FreqParams(params, 7078000, 1500)
	assert.Equal(t, 7078000, params["DIAL"])
	assert.Equal(t, 1500, params["OFFSET"])
	assert.Equal(t, 7079500, params["FREQ"])
}

func TestRxDirectedTextMatchesSample(t *testing.T) {
	payload := "ABCDEFGHI"
	text := payload + " \xe2\x99\xa6 "
	msg := RxDirected(text, "2E0FGO", "", 7078000, 1500, 10, 0.5, 1000)

	assert.Equal(t, text, msg.Value)
	assert.Equal(t, text, msg.Params["TEXT"])

	encoded, err := Encode(msg)
	require.NoError(t, err)
	var roundTripped map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded[:len(encoded)-1], &roundTripped))
	assert.Equal(t, text, roundTripped["value"])
}

func TestRxSpotGridHasLeadingSpace(t *testing.T) {
	msg := RxSpot("2E0FGO", "JO01", 7078000, 1500, 10)
	assert.Equal(t, " JO01", msg.Params["GRID"])
}

func TestSecondWord(t *testing.T) {
	cases := map[string]string{
		"M0PXO: 2E0FGO +E65": "2E0FGO",
		"CQ":                 "",
		"":                   "",
		"A B C":               "B",
	}
	for input, want := range cases {
		assert.Equal(t, want, SecondWord(input), "input=%q", input)
	}
}
