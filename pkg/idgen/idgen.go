// Package idgen hands out correlation identifiers for in-flight transmit
// jobs. They never reach the wire; they exist so a log line can be grepped
// end to end for one job.
package idgen

import "github.com/google/uuid"

// NewJobID returns a fresh identifier for one TransmitJob.
func NewJobID() string {
	return uuid.NewString()
}
