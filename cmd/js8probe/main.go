// Command js8probe is a small diagnostic client for exercising a running
// emulator interface by hand: it sends one typed frame and prints
// whatever comes back until the connection goes idle.
package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/PaulOfford/js8emu/pkg/protocol"
)

var (
	addr       = flag.String("addr", "127.0.0.1:2442", "host:port of the interface to probe")
	msgType    = flag.String("type", "", "message type to send (e.g. STATION.GET_CALLSIGN)")
	value      = flag.String("value", "", "message value")
	idleWindow = flag.Duration("idle", 2*time.Second, "how long to wait for more frames before exiting")
)

func main() {
	flag.Parse()

	if *msgType == "" {
		showHelp()
		os.Exit(1)
	}

	nc, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer nc.Close()

	msg := protocol.New(*msgType, *value)
	msg.Params["_ID"] = fmt.Sprintf("%d", time.Now().UnixMilli())

	encoded, err := protocol.Encode(msg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error encoding request: %v\n", err)
		os.Exit(1)
	}
	if _, err := nc.Write(encoded); err != nil {
		fmt.Fprintf(os.Stderr, "error writing request: %v\n", err)
		os.Exit(1)
	}

	r := protocol.NewReader(nc)
	for {
		nc.SetReadDeadline(time.Now().Add(*idleWindow))
		frame, err := r.Next(func(line string, err error) {
			fmt.Fprintf(os.Stderr, "malformed frame: %v\n", err)
		})
		if err != nil {
			if err == io.EOF {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return
			}
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}
		fmt.Printf("%s %q %v\n", frame.Type, frame.Value, frame.Params)
	}
}

func showHelp() {
	fmt.Println("js8probe - JS8Call emulator diagnostic client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s -addr <host:port> -type <TYPE> [-value <text>]\n", os.Args[0])
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s -addr 127.0.0.1:2442 -type STATION.GET_CALLSIGN\n", os.Args[0])
	fmt.Printf("  %s -addr 127.0.0.1:2442 -type TX.SEND_MESSAGE -value 'N0CALL Hello'\n", os.Args[0])
}
