// Package protocol implements the newline-delimited JSON wire dialect that
// every TCP interface speaks: one JSON object per line, always carrying
// exactly the keys "type", "value", "params".
package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Message-type tags, both directions.
const (
	TypeStationGetCallsign = "STATION.GET_CALLSIGN"
	TypeStationCallsign    = "STATION.CALLSIGN"
	TypeRigGetFreq         = "RIG.GET_FREQ"
	TypeRigFreq            = "RIG.FREQ"
	TypeRigSetFreq         = "RIG.SET_FREQ"
	TypeStationStatus      = "STATION.STATUS"
	TypeTxSendMessage      = "TX.SEND_MESSAGE"
	TypeRigPTT             = "RIG.PTT"
	TypeRxActivity         = "RX.ACTIVITY"
	TypeRxDirected         = "RX.DIRECTED"
	TypeRxSpot             = "RX.SPOT"
)

// AsyncID is the "_ID" value used on every message the emulator originates
// asynchronously (not in direct reply to a request): RX.* and RIG.PTT.
const AsyncID = -1

// Message is the in-memory form of one wire frame. It is never persisted;
// it is built, encoded, and discarded.
type Message struct {
	Type   string                 `json:"type"`
	Value  string                 `json:"value"`
	Params map[string]interface{} `json:"params"`
}

// New builds a Message with an initialized params map, so handlers can
// always write into msg.Params without a nil check.
func New(msgType, value string) Message {
	return Message{Type: msgType, Value: value, Params: map[string]interface{}{}}
}

// Encode serializes a Message as UTF-8 JSON followed by a single line feed.
func Encode(msg Message) ([]byte, error) {
	if msg.Params == nil {
		msg.Params = map[string]interface{}{}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return append(data, '\n'), nil
}

// Reader decodes a stream of newline-delimited JSON messages. Malformed
// lines are reported through onMalformed but never stop the stream — the
// caller's connection stays alive per the decode-error contract in §7.
type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Reader{scanner: scanner}
}

// Next reads and decodes the next line. It returns io.EOF when the stream
// ends cleanly. Malformed lines are skipped internally and never surfaced
// as a fatal error; onMalformed, if non-nil, is invoked with the raw line
// and the parse error for logging.
func (r *Reader) Next(onMalformed func(line string, err error)) (Message, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			continue
		}
		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			if onMalformed != nil {
				onMalformed(line, err)
			}
			continue
		}
		if msg.Params == nil {
			msg.Params = map[string]interface{}{}
		}
		return msg, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Message{}, err
	}
	return Message{}, io.EOF
}

// EchoID parses the string-typed inbound "_ID" param into the integer form
// every reply must echo it as. The second return value is false when
// "_ID" is missing or not a base-10 integer.
func EchoID(params map[string]interface{}) (int, bool) {
	raw, ok := params["_ID"]
	if !ok {
		return 0, false
	}
	s, ok := raw.(string)
	if !ok {
		// Tolerate a client that already sent a JSON number.
		if n, ok := raw.(float64); ok {
			return int(n), true
		}
		return 0, false
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return id, true
}
