// Package pingpong implements the canonical ping/pong demonstration actors
// used to exercise the runtime end to end: plain round-trips, the
// request/response correlator's timeout path, name-registry discovery, and
// cross-supervisor forwarding.
package pingpong

import "github.com/cuemby/hive/pkg/address"

// Ping is sent by a pinger to a ponger. ReplyTo is the address a
// direct (non-correlated) reply should land on.
type Ping struct {
	Seq     int
	ReplyTo *address.Address
}

// Pong answers a Ping with the same sequence number.
type Pong struct {
	Seq int
}
