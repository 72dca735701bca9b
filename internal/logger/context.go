package logger

import (
	"context"
	"time"
)

type contextKey struct{}

var logContextKey = contextKey{}

// LogContext carries per-connection fields through a request's lifetime so
// every log line emitted while handling one client carries the same
// correlation fields without threading them through every function signature.
type LogContext struct {
	TraceID   string // correlation id, see internal/ntrip/client.Client.TraceID
	CID       int64  // monotonic client id
	Mount     string // requested mountpoint path
	ClientIP  string
	User      string // authenticated user, once known
	StartTime time.Time
}

func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

func NewLogContext(clientIP string) *LogContext {
	return &LogContext{ClientIP: clientIP, StartTime: time.Now()}
}

func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

func (lc *LogContext) WithMount(mount string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Mount = mount
	}
	return clone
}

func (lc *LogContext) WithUser(user string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.User = user
	}
	return clone
}

func (lc *LogContext) WithCID(cid int64) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.CID = cid
	}
	return clone
}

// DurationMs returns the time elapsed since StartTime, in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
