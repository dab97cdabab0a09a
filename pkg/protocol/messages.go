package protocol

import "strings"

// FreqParams fills in the DIAL/OFFSET/FREQ triple every frequency-bearing
// message carries. FREQ is always derived, never passed in independently,
// so the invariant freq_hz == dial_hz + offset_hz can't drift.
func FreqParams(params map[string]interface{}, dialHz, offsetHz int) {
	params["DIAL"] = dialHz
	params["OFFSET"] = offsetHz
	params["FREQ"] = dialHz + offsetHz
}

// StationCallsign builds the STATION.CALLSIGN reply to STATION.GET_CALLSIGN.
func StationCallsign(callsign string, echoedID int) Message {
	msg := New(TypeStationCallsign, callsign)
	msg.Params["_ID"] = echoedID
	return msg
}

// RigFreq builds the RIG.FREQ reply to RIG.GET_FREQ.
func RigFreq(dialHz, offsetHz, echoedID int) Message {
	msg := New(TypeRigFreq, "")
	FreqParams(msg.Params, dialHz, offsetHz)
	msg.Params["_ID"] = echoedID
	return msg
}

// StationStatus builds the STATION.STATUS notification sent whenever an
// interface's dial frequency changes.
func StationStatus(dialHz, offsetHz int, statusID int64) Message {
	msg := New(TypeStationStatus, "")
	FreqParams(msg.Params, dialHz, offsetHz)
	msg.Params["_ID"] = statusID
	msg.Params["SELECTED"] = ""
	msg.Params["SPEED"] = 1
	return msg
}

// RigPTT builds a RIG.PTT notification to the sending interface's clients.
func RigPTT(on bool, utcMillis int64) Message {
	value := "off"
	if on {
		value = "on"
	}
	msg := New(TypeRigPTT, value)
	msg.Params["PTT"] = on
	msg.Params["UTC"] = utcMillis
	msg.Params["_ID"] = AsyncID
	return msg
}

// RxActivity builds one RX.ACTIVITY fragment frame for a receiving interface.
func RxActivity(fragment string, dialHz, offsetHz int, snr int, tdrift float64, utcMillis int64) Message {
	msg := New(TypeRxActivity, fragment)
	FreqParams(msg.Params, dialHz, offsetHz)
	msg.Params["SNR"] = snr
	msg.Params["SPEED"] = 1
	msg.Params["TDRIFT"] = tdrift
	msg.Params["UTC"] = utcMillis
	msg.Params["_ID"] = AsyncID
	return msg
}

// RxDirected builds the terminating directed-message frame for a job.
func RxDirected(text, from, to string, dialHz, offsetHz, snr int, tdrift float64, utcMillis int64) Message {
	msg := New(TypeRxDirected, text)
	msg.Params["CMD"] = " "
	FreqParams(msg.Params, dialHz, offsetHz)
	msg.Params["FROM"] = from
	msg.Params["TO"] = to
	msg.Params["GRID"] = ""
	msg.Params["EXTRA"] = ""
	msg.Params["SNR"] = snr
	msg.Params["SPEED"] = 1
	msg.Params["TDRIFT"] = tdrift
	msg.Params["UTC"] = utcMillis
	msg.Params["_ID"] = AsyncID
	msg.Params["TEXT"] = text
	return msg
}

// RxSpot builds the spot companion that immediately follows RX.DIRECTED.
func RxSpot(callsign, grid string, dialHz, offsetHz, snr int) Message {
	msg := New(TypeRxSpot, "")
	msg.Params["CALL"] = callsign
	FreqParams(msg.Params, dialHz, offsetHz)
	msg.Params["GRID"] = " " + grid
	msg.Params["SNR"] = snr
	msg.Params["_ID"] = AsyncID
	return msg
}

// SecondWord returns the second whitespace-delimited word of s, or "" if
// there isn't one. Used to extract the directed-message addressee.
func SecondWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}
