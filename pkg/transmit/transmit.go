// Package transmit implements the transmit scheduler: the central
// algorithm that turns one accepted TX.SEND_MESSAGE into a timed sequence
// of PTT, RX.ACTIVITY, RX.DIRECTED, and RX.SPOT frames across every
// co-frequency interface.
package transmit

import (
	"math/rand"
	"sync"
	"time"

	"github.com/PaulOfford/js8emu/pkg/broadcast"
	"github.com/PaulOfford/js8emu/pkg/clock"
	"github.com/PaulOfford/js8emu/pkg/idgen"
	"github.com/PaulOfford/js8emu/pkg/iface"
	"github.com/PaulOfford/js8emu/pkg/logging"
	"github.com/PaulOfford/js8emu/pkg/protocol"
	"github.com/PaulOfford/js8emu/pkg/verbose"
)

// directedSuffix is the five-byte " ♦ " terminator every transmission's
// finalized text carries: space, black diamond suit, space.
const directedSuffix = " \xe2\x99\xa6 "

// Scheduler owns job fragmentation, pacing, and fan-out. One Scheduler
// serves every interface; each accepted TX.SEND_MESSAGE runs as its own
// goroutine so that one job's frame_time sleeps never block another job
// or any connection's read/write loop.
type Scheduler struct {
	fabric       *broadcast.Fabric
	fragmentSize int
	frameTime    time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	log *logging.Logger

	wg sync.WaitGroup
}

// NewScheduler builds a scheduler. seed controls the SNR/TDRIFT draws;
// pass a fixed seed for deterministic tests, or a clock-derived seed in
// production (see §9's design note on randomness).
func NewScheduler(fabric *broadcast.Fabric, fragmentSize int, frameTime float64, seed int64, log *logging.Logger) *Scheduler {
	return &Scheduler{
		fabric:       fabric,
		fragmentSize: fragmentSize,
		frameTime:    time.Duration(frameTime * float64(time.Second)),
		rng:          rand.New(rand.NewSource(seed)),
		log:          log,
	}
}

// Submit accepts one TX.SEND_MESSAGE payload from origin and runs its job
// asynchronously. It returns immediately; the connection that sent the
// message gets no inline reply (per §4.3 — the scheduler decides when the
// sender sees its PTT events).
func (s *Scheduler) Submit(origin *iface.Interface, payload string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(origin, payload)
	}()
}

// Wait blocks until every in-flight job has completed. Used during
// shutdown to let jobs run to completion rather than truncating them.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) run(origin *iface.Interface, payload string) {
	jobID := idgen.NewJobID()
	fragments := Fragment([]byte(payload), s.fragmentSize)
	dests := s.fabric.Destinations(origin)

	if s.log != nil {
		s.log.Debugf("transmit", "job %s: %d fragment(s) from %s to %d destination(s)",
			jobID, len(fragments), origin.Callsign(), len(dests))
	}
	verbose.Printf("Transmit: job %s starting, %d fragment(s) from %s", jobID, len(fragments), origin.Callsign())

	for i, frag := range fragments {
		s.emitPTT(origin, true)
		verbose.Printf("Transmit: job %s fragment %d/%d PTT ON", jobID, i+1, len(fragments))
		time.Sleep(s.frameTime)
		s.emitPTT(origin, false)
		verbose.Printf("Transmit: job %s fragment %d/%d PTT OFF", jobID, i+1, len(fragments))
		s.emitActivity(dests, string(frag))
	}

	s.finalize(origin, dests, payload)
	verbose.Printf("Transmit: job %s complete", jobID)
}

func (s *Scheduler) emitPTT(origin *iface.Interface, on bool) {
	msg := protocol.RigPTT(on, clock.NowMillis())
	for _, w := range origin.Conns() {
		w.Enqueue(msg)
	}
}

func (s *Scheduler) emitActivity(dests []*iface.Interface, fragment string) {
	for _, dest := range dests {
		snr := s.randSNR()
		tdrift := s.randTDrift()
		msg := protocol.RxActivity(fragment, dest.Dial(), dest.Offset(), snr, tdrift, clock.NowMillis())
		for _, w := range dest.Conns() {
			w.Enqueue(msg)
		}
	}
}

func (s *Scheduler) finalize(origin *iface.Interface, dests []*iface.Interface, payload string) {
	text := payload + directedSuffix
	to := protocol.SecondWord(payload)

	for _, dest := range dests {
		snr := s.randSNR()
		tdrift := s.randTDrift()
		now := clock.NowMillis()

		directed := protocol.RxDirected(text, origin.Callsign(), to, dest.Dial(), dest.Offset(), snr, tdrift, now)
		spot := protocol.RxSpot(origin.Callsign(), origin.Grid(), dest.Dial(), dest.Offset(), snr)

		for _, w := range dest.Conns() {
			w.Enqueue(directed)
			w.Enqueue(spot)
		}
	}
}

// randSNR draws a uniform integer in [-20, 20].
func (s *Scheduler) randSNR() int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(41) - 20
}

// randTDrift draws a uniform float in [-2.0, 2.0].
func (s *Scheduler) randTDrift() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()*4.0 - 2.0
}

// Fragment splits payload into consecutive slices of length size, with no
// padding on the final, possibly-shorter slice. Splitting on a raw byte
// boundary can cut inside a multi-byte UTF-8 character; that matches the
// reference service and is intentional.
func Fragment(payload []byte, size int) [][]byte {
	if size <= 0 {
		if len(payload) == 0 {
			return nil
		}
		return [][]byte{payload}
	}
	var frags [][]byte
	for start := 0; start < len(payload); start += size {
		end := start + size
		if end > len(payload) {
			end = len(payload)
		}
		frags = append(frags, payload[start:end])
	}
	return frags
}
