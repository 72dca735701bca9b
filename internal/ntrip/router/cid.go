package router

import "sync/atomic"

// cidCounter is the process-wide monotonic source of client ids.
var cidCounter atomic.Int64

func nextCID() int64 {
	return cidCounter.Add(1)
}
