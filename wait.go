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
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// cleanupTimeout bounds the best-effort unwatch calls wait issues during
// cleanup, run on a context detached from the (possibly already
// cancelled) wait context so they have a chance to actually complete.
const cleanupTimeout = 5 * time.Second

// Again is the sentinel a wait predicate returns to mean "no answer yet;
// wake me once one of the paths I read changes" (spec.md §4.6's Eagain
// continuation signal).
var Again = errors.New("xenstore: no answer yet")

// waitTokenGen hands out the generation counter embedded in every wait
// token, so that tokens are unique even across waits sharing a caller
// label (spec.md §3, "wire representation may embed ... a generation
// counter").
var waitTokenGen atomic.Uint64

// WaitTask represents one in-flight call to Wait. Cancelling it unblocks
// a wait stuck on a watcher and runs cleanup (spec.md §5, "Cancellation").
type WaitTask[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}
	result T
	err    error
}

// Cancel requests the wait stop; it returns once cleanup has completed.
func (t *WaitTask[T]) Cancel() {
	t.cancel()
	<-t.done
}

// Result blocks until the wait completes (by success, failure, or
// cancellation) and returns its outcome.
func (t *WaitTask[T]) Result() (T, error) {
	<-t.done
	return t.result, t.err
}

// Wait runs f repeatedly against a watching Handle, reconciling the
// server-side watch subscription set to the paths f actually reads, until
// f returns a value instead of Again (spec.md §4.6). label seeds the
// watch token's human-readable prefix; pass "" to use a generated one.
func Wait[T any](ctx context.Context, c *Client, label string, f func(Handle) (T, error)) *WaitTask[T] {
	ctx, cancel := context.WithCancel(ctx)
	task := &WaitTask[T]{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(task.done)
		task.result, task.err = runWait(ctx, c, label, f)
	}()

	return task
}

func runWait[T any](ctx context.Context, c *Client, label string, f func(Handle) (T, error)) (T, error) {
	var zero T

	if label == "" {
		label = uuid.NewString()
	}
	token := fmt.Sprintf("%s#%d", label, waitTokenGen.Add(1))

	w := newWatcher()
	c.mu.Lock()
	c.watchers[token] = w
	c.mu.Unlock()

	h := watchingHandle(c)

	defer cleanupWait(c, token, w, &h)

	// A context cancellation must unblock a wait parked in w.get() just
	// like an explicit cancel would (spec.md §5, "A cancelled wait task").
	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		select {
		case <-ctx.Done():
			w.cancel()
		case <-stopWatch:
		}
	}()

	for {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		h = h.resetAccessedPaths()
		v, err := f(h)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, Again) {
			return zero, err
		}

		toUnwatch := setDifference(h.watchedPaths, h.accessedPaths)
		toWatch := setDifference(h.accessedPaths, h.watchedPaths)

		for p := range toUnwatch {
			h, err = Unwatch(ctx, h, p, token)
			if err != nil {
				return zero, err
			}
		}
		for p := range toWatch {
			h, err = Watch(ctx, h, p, token)
			if err != nil {
				return zero, err
			}
		}

		if len(toUnwatch) == 0 && len(toWatch) == 0 {
			paths := w.get()
			if len(paths) == 0 && ctx.Err() != nil {
				return zero, ctx.Err()
			}
			// A non-empty set or a spurious empty wake both just loop
			// back into f; the predicate re-reads whatever it needs.
		}
	}
}

// cleanupWait unwatches every path still registered under token and
// removes the watcher, best-effort: an unwatch failure during cleanup is
// logged and does not fail the wait (spec.md §9 open question, resolved).
func cleanupWait(c *Client, token string, w *watcher, h *Handle) {
	w.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	var errs error
	for p := range h.watchedPaths {
		if _, err := Unwatch(ctx, *h, p, token); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		c.logger.Warn("xenstore: best-effort unwatch failed during wait cleanup", zap.String("token", token), zap.Error(errs))
	}

	c.mu.Lock()
	delete(c.watchers, token)
	c.mu.Unlock()
}

func setDifference(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for p := range a {
		if _, ok := b[p]; !ok {
			out[p] = struct{}{}
		}
	}
	return out
}
