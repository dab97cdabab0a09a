// Package clock centralizes the wall-clock readings that go on the wire
// (UTC fields and the STATION.STATUS "_ID"). Keeping them in one place makes
// it the one seam a test would need to fake for deterministic wire
// timestamps; log timestamps and the scheduler's RNG seed still read
// time.Now directly.
package clock

import "time"

// NowMillis returns the current wall time as milliseconds since the Unix
// epoch, the unit every UTC/_ID field on the wire uses.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// StationStatusID derives the STATION.STATUS "_ID" value used by the
// reference service: milliseconds since 2017-07-06T00:00:00Z.
const statusEpochMillis = 1499299200000

func StationStatusID() int64 {
	return NowMillis() - statusEpochMillis
}
