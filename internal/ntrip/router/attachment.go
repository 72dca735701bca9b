package router

import (
	"context"
	"io"

	"github.com/ntripcaster/caster/internal/logger"
	"github.com/ntripcaster/caster/internal/ntrip/client"
	"github.com/ntripcaster/caster/internal/ntrip/source"
)

// Attachment is the live connection between one admitted listener and its
// source, returned by Serve on the ATTACHED outcome. The caller's worker
// goroutine drives Stream until the source closes the channel or the
// connection's own I/O fails, per the "one worker thread per
// connection" model.
type Attachment struct {
	client  *client.Client
	source  *source.Source
	channel chan []byte
	router  *Router
}

// Client exposes the attached Client record, e.g. for admin/stats reporting.
func (a *Attachment) Client() *client.Client { return a.client }

// Stream copies bytes from the source to w until the source disconnects the
// listener, w returns a write error, or ctx-equivalent external signal kills
// the client (Client.Kill). It always tears down the attachment exactly
// once before returning, decrementing the global and per-source counters
// (cancellation & timeouts).
func (a *Attachment) Stream(ctx context.Context, w io.Writer) error {
	defer a.teardown(ctx)

	for a.client.Alive() {
		chunk, ok := <-a.channel
		if !ok {
			return nil
		}
		if _, err := w.Write(chunk); err != nil {
			a.client.RecordWriteError()
			return err
		}
		a.client.AddBytesWritten(uint64(len(chunk)))
		a.router.metrics.RecordBytesRelayed(a.client.Mount, uint64(len(chunk)))
	}
	return nil
}

func (a *Attachment) teardown(ctx context.Context) {
	a.client.Kill()
	a.router.registry.Detach(a.source, a.client)
	a.router.stats.RecordDisconnection()
	a.router.metrics.SetActiveClients(a.router.stats.NumClients())
	a.router.metrics.SetSourceClients(a.client.Mount, a.source.NumClients())

	logger.InfoCtx(ctx, "listener detached",
		"bytes_written", a.client.BytesWritten(), "write_errors", a.client.WriteErrors(),
		"duration_ms", logger.FromContext(ctx).DurationMs())
}
