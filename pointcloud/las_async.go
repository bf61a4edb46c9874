package pointcloud

import (
	"context"
	"runtime"

	goutils "go.viam.com/utils"
	"golang.org/x/sync/semaphore"
)

// Result is the single message a decode task delivers: the whole block or an
// error, never a partial of either.
type Result struct {
	Block *Block
	Err   error
}

// decodeTasks bounds how many decode tasks run at once so that a burst of
// node loads does not oversubscribe the CPU.
var decodeTasks = semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))

// DecodeAsync runs Decode off the caller's goroutine. Ownership of buf
// transfers to the task; the caller must not touch it afterwards. Exactly
// one Result is delivered and then the channel is closed. A started decode
// always runs to completion: cancellation, if any, happens by not submitting
// the next task, never by aborting an in-flight one.
func DecodeAsync(buf []byte, p DecodeParams) <-chan Result {
	out := make(chan Result, 1)
	goutils.PanicCapturingGo(func() {
		defer close(out)
		// Background context: once submitted, the task is not cancelable.
		if err := decodeTasks.Acquire(context.Background(), 1); err != nil {
			out <- Result{Err: err}
			return
		}
		defer decodeTasks.Release(1)
		blk, err := Decode(buf, p)
		out <- Result{Block: blk, Err: err}
	})
	return out
}
