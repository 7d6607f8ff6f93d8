// Copyright 2016 The etcd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xenstore

import (
	"context"
	"time"
)

// retryBackoffMin/Max bound the delay with_xst waits between a conflicted
// attempt and the next, growing by doubling (spec.md §4.7 retry loop is
// silent on pacing; an unbounded tight retry loop against a busy store is a
// poor neighbor, so a small capped backoff is applied between attempts).
const (
	retryBackoffMin = time.Millisecond
	retryBackoffMax = 100 * time.Millisecond
)

// WithXST runs f inside a fresh transaction, retrying the whole body from
// scratch whenever the server reports a transaction conflict (Eagain),
// per spec.md §4.7. The server guarantees a retried transaction's prior
// side effects were discarded, so f is always safe to re-run from the top.
func WithXST[T any](ctx context.Context, c *Client, f func(Handle) (T, error)) (T, error) {
	var zero T
	backoff := retryBackoffMin

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			c.clock.Sleep(backoff)
			if backoff < retryBackoffMax {
				backoff *= 2
				if backoff > retryBackoffMax {
					backoff = retryBackoffMax
				}
			}
		}

		h, err := TransactionStart(ctx, c)
		if err != nil {
			return zero, err
		}

		v, ferr := f(h)
		if ferr != nil {
			if IsEagain(ferr) {
				_ = TransactionEnd(ctx, h, false) // best-effort abort; server reaps abandoned transactions anyway
				continue
			}
			abortTransaction(ctx, h)
			return zero, ferr
		}

		endErr := TransactionEnd(ctx, h, true)
		if endErr == nil {
			return v, nil
		}
		if IsEagain(endErr) {
			continue
		}
		return zero, endErr
	}
}

// abortTransaction best-effort aborts h's transaction after the body
// raised something other than Eagain; propagation of the original error
// is the core's only real obligation (spec.md §4.7, "Abort paths").
func abortTransaction(ctx context.Context, h Handle) {
	_ = TransactionEnd(ctx, h, false)
}
