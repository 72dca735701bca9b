// Package router implements C5, the mount router: given an authenticated
// request, either hand the connection to a live source as a listener or
// emit the sourcetable and close.
package router

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/ntripcaster/caster/internal/logger"
	"github.com/ntripcaster/caster/internal/ntrip/auth"
	"github.com/ntripcaster/caster/internal/ntrip/client"
	"github.com/ntripcaster/caster/internal/ntrip/request"
	"github.com/ntripcaster/caster/internal/ntrip/source"
	"github.com/ntripcaster/caster/internal/ntrip/sourcetable"
	"github.com/ntripcaster/caster/internal/ntrip/stats"
	"github.com/ntripcaster/caster/pkg/metrics"
)

// Identity carries the server fields the core consumes via
// a settings structure: version, ntrip_version, server_name, and the bound
// port (for the sourcetable HTML header block).
type Identity struct {
	ServerName   string
	Version      string
	NtripVersion string
	Port         int
}

// Outcome names the terminal state a Serve call reached, for logging and
// metrics; it mirrors the core's admission state machine.
type Outcome string

const (
	OutcomeAttached         Outcome = "attached"
	OutcomeRejectedAuth     Outcome = "unauthorized"
	OutcomeRejectedAgent    Outcome = "not_ntrip_client"
	OutcomeRejectedCapacity Outcome = "server_full"
	OutcomeSourcetable      Outcome = "sourcetable"
)

// Router implements the admission state machine, with the
// double/source/misc lock discipline.
type Router struct {
	// doubleMu is the "double" lock: a coarse lock serializing composite
	// operations spanning the client set and the source set.
	doubleMu sync.Mutex

	registry      *source.Registry
	stats         *stats.Stats
	authenticator *auth.Authenticator
	sourcetable   *sourcetable.Reloader
	metrics       metrics.CasterMetrics
	identity      Identity
}

// New constructs a Router. metricsImpl may be a nil-but-typed
// metrics.CasterMetrics (see pkg/metrics/prometheus) when metrics are
// disabled.
func New(
	authenticator *auth.Authenticator,
	registry *source.Registry,
	stats *stats.Stats,
	sourcetableReloader *sourcetable.Reloader,
	metricsImpl metrics.CasterMetrics,
	identity Identity,
) *Router {
	return &Router{
		registry:      registry,
		stats:         stats,
		authenticator: authenticator,
		sourcetable:   sourcetableReloader,
		metrics:       metricsImpl,
		identity:      identity,
	}
}

// Serve drives one connection's request through the full admission state
// machine: PARSED -> AUTHZED -> SOURCETABLE | LOOKUP -> CAPS -> ATTACHED |
// REJECTED. On ATTACHED it returns an *Attachment the caller streams from
// until disconnect; on every other outcome it has already written the
// terminal response and the caller should close the connection.
func (r *Router) Serve(ctx context.Context, w io.Writer, req *request.Request) (*Attachment, Outcome) {
	if lc := logger.FromContext(ctx); lc != nil {
		lc.Mount = req.Path
	}

	result := r.authenticator.Authorize(req)
	r.metrics.RecordAuthOutcome(string(authOutcomeLabel(result)))
	if !result.Authorized {
		writeUnauthorized(w, req.Path)
		r.metrics.RecordRejection(req.Path, string(OutcomeRejectedAuth))
		logger.WarnCtx(ctx, "listener rejected", logger.KeyOutcome, OutcomeRejectedAuth)
		return nil, OutcomeRejectedAuth
	}
	if lc := logger.FromContext(ctx); lc != nil {
		lc.User = req.User
	}

	if req.Path == "" || req.Path == "/" {
		r.writeSourcetable(w, req)
		return nil, OutcomeSourcetable
	}

	userAgent, _ := req.Header("User-Agent")
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(userAgent)), "NTRIP") {
		writeNotNtripClient(w, req.Path)
		r.metrics.RecordRejection(req.Path, string(OutcomeRejectedAgent))
		logger.WarnCtx(ctx, "listener rejected", logger.KeyOutcome, OutcomeRejectedAgent)
		return nil, OutcomeRejectedAgent
	}

	return r.lookupAndAdmit(ctx, w, req)
}

// lookupAndAdmit implements LOOKUP -> CAPS -> ATTACHED | REJECTED, acquiring
// the double lock and the source lock in that fixed order and releasing
// them in reverse.
func (r *Router) lookupAndAdmit(ctx context.Context, w io.Writer, req *request.Request) (*Attachment, Outcome) {
	r.doubleMu.Lock()
	r.registry.Lock()

	src, found := r.registry.LookupLocked(req.Path)
	if !found {
		r.registry.Unlock()
		r.doubleMu.Unlock()
		// LOOKUP -> SOURCETABLE: by convention the caster responds with the
		// catalog instead of 404 for a path it doesn't serve.
		r.writeSourcetable(w, req)
		return nil, OutcomeSourcetable
	}

	if !r.stats.TryAdmitGlobal() {
		r.registry.Unlock()
		r.doubleMu.Unlock()
		writeServerFull(w)
		r.metrics.RecordRejection(req.Path, string(OutcomeRejectedCapacity))
		logger.WarnCtx(ctx, "listener rejected", logger.KeyOutcome, OutcomeRejectedCapacity)
		return nil, OutcomeRejectedCapacity
	}

	if src.NumClients() >= r.stats.MaxClientsPerSource() {
		r.stats.ReleaseGlobal()
		r.registry.Unlock()
		r.doubleMu.Unlock()
		writeServerFull(w)
		r.metrics.RecordRejection(req.Path, string(OutcomeRejectedCapacity))
		logger.WarnCtx(ctx, "listener rejected", logger.KeyOutcome, OutcomeRejectedCapacity)
		return nil, OutcomeRejectedCapacity
	}

	c := client.New(nextCID(), req.Path)
	c.User = req.User
	c.Type = classifyType(req)
	c.Source = src

	if lc := logger.FromContext(ctx); lc != nil {
		lc.CID = c.CID
		lc.TraceID = c.TraceID.String()
	}

	ch := r.registry.AttachLocked(src, c)

	r.registry.Unlock()
	r.doubleMu.Unlock()

	// The global client counter is already incremented (via the atomic
	// check-and-increment above); the misc lock here guards only the
	// hourly_stats bookkeeping, taken immediately after the source lock is
	// released and never while holding it.
	r.stats.RecordConnection()

	if err := writeGreeting(w); err != nil {
		r.teardown(ctx, src, c)
		return nil, OutcomeRejectedCapacity
	}
	c.MarkGreeted()

	r.metrics.RecordAdmission(req.Path)
	r.metrics.SetActiveClients(r.stats.NumClients())
	r.metrics.SetSourceClients(req.Path, src.NumClients())

	logger.InfoCtx(ctx, "listener attached", "client_type", c.Type.String())

	return &Attachment{client: c, source: src, channel: ch, router: r}, OutcomeAttached
}

// classifyType applies the rule: a listener whose Referer header
// equals exactly "RELAY" is a pulling_client (another caster relaying the
// stream onward); otherwise it's an ordinary listener.
func classifyType(req *request.Request) client.Type {
	if referer, ok := req.Header("Referer"); ok && referer == "RELAY" {
		return client.TypePullingClient
	}
	return client.TypeListener
}

// teardown releases a client's attachment without having sent a greeting,
// e.g. when the initial write fails.
func (r *Router) teardown(ctx context.Context, src *source.Source, c *client.Client) {
	r.registry.Detach(src, c)
	r.stats.RecordDisconnection()
	c.Kill()
	logger.WarnCtx(ctx, "listener greeting failed, attachment torn down")
}

func authOutcomeLabel(result auth.Result) string {
	if result.Authorized {
		return "authorized"
	}
	return string(result.Reason)
}
