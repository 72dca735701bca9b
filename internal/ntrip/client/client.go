// Package client implements the Client record admitted connections are
// represented by: its type, its attachment to a source, its virgin/greeting
// state, and the per-client counters the router and source broadcaster touch.
package client

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Type classifies the role a connection plays once admitted. The original
// implementation's client_types table carries four entries; this core only
// calls out listener vs. pulling_client, but the fuller set is kept so a
// future source-admission path has somewhere to land.
type Type int

const (
	// TypeUnknown is the zero value: assigned before the router decides how
	// to classify the connection.
	TypeUnknown Type = iota
	// TypeListener is an ordinary NTRIP listener (rover) attached read-only
	// to a source's broadcast stream.
	TypeListener
	// TypePullingClient is a listener whose Referer header equalled exactly
	// "RELAY" — another caster relaying the stream onward.
	TypePullingClient
	// TypePusher is a source connection pushing corrections into the
	// caster. Out of this core's admission scope, but named so
	// the type set mirrors the original's four-entry table.
	TypePusher
	// TypeUnknownListener mirrors the original's fallback "unknown
	// listener" classification for a connection that reached CAPS without a
	// clean listener/puller determination.
	TypeUnknownListener
)

func (t Type) String() string {
	switch t {
	case TypeListener:
		return "listener"
	case TypePullingClient:
		return "pulling_client"
	case TypePusher:
		return "pusher"
	case TypeUnknownListener:
		return "unknown listener"
	default:
		return "unknown"
	}
}

// Source is the minimal contract the client package needs from an attached
// source; internal/ntrip/source.Source satisfies it.
type Source interface {
	Mountpoint() string
}

// Client is created on admission (router C5, CAPS → ATTACHED) and owned by
// the worker goroutine that serves the connection for its lifetime; only the
// fields explicitly guarded below are touched cross-goroutine.
type Client struct {
	// CID is the monotonic per-process connection id assigned at admission,
	// distinct from TraceID which correlates log lines for this connection.
	CID int64

	// TraceID is a per-connection correlation id surfaced in log lines; the
	// admin /stats JSON endpoint reports aggregate counters only and does
	// not include it.
	TraceID uuid.UUID

	Type   Type
	Source Source
	User   string
	Mount  string

	// alive is read by any component that must stop promptly once the
	// connection is torn down (cancellation & timeouts).
	alive atomic.Bool

	// virgin transitions -1 -> 1 exactly when the ICY greeting has been
	// sent; it starts at -1 on construction.
	virgin atomic.Int32

	// offset is this listener's read offset into the source's broadcast
	// ring; owned by the worker goroutine.
	Offset int64

	// bytesWritten and writeErrors are touched only by the owning worker
	// goroutine, per the shared resource policy.
	bytesWritten uint64
	writeErrors  uint64
}

// New constructs a Client in its pre-greeting state: alive, virgin == -1,
// type unset.
func New(cid int64, mount string) *Client {
	c := &Client{
		CID:     cid,
		TraceID: uuid.New(),
		Mount:   mount,
		Type:    TypeUnknown,
	}
	c.alive.Store(true)
	c.virgin.Store(-1)
	return c
}

// Alive reports whether the connection is still considered live.
func (c *Client) Alive() bool { return c.alive.Load() }

// Kill marks the connection as no longer live; idempotent.
func (c *Client) Kill() { c.alive.Store(false) }

// IsVirgin reports whether the ICY greeting has not yet been sent.
func (c *Client) IsVirgin() bool { return c.virgin.Load() == -1 }

// MarkGreeted transitions virgin from -1 to 1. It is only meaningful to call
// this once, immediately after the greeting bytes are written.
func (c *Client) MarkGreeted() { c.virgin.Store(1) }

// AddBytesWritten accumulates bytes relayed to this listener.
func (c *Client) AddBytesWritten(n uint64) { c.bytesWritten += n }

// BytesWritten reports the running total of bytes relayed to this listener.
func (c *Client) BytesWritten() uint64 { return c.bytesWritten }

// RecordWriteError increments this client's write-error counter, called by
// the owning worker goroutine when a send to the listener fails.
func (c *Client) RecordWriteError() { c.writeErrors++ }

// WriteErrors reports this client's running write-error count.
func (c *Client) WriteErrors() uint64 { return c.writeErrors }
