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

import "sync"

// watcher is the in-memory mailbox of modified paths bound to a single
// watch token (spec.md §4.3). It collapses an arbitrary sequence of put
// calls into an unordered set; callers that need event-by-event ordering
// must not use this primitive.
type watcher struct {
	mu         sync.Mutex
	cond       *sync.Cond
	paths      map[string]struct{}
	cancelling bool
}

func newWatcher() *watcher {
	w := &watcher{paths: make(map[string]struct{})}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// put inserts path into the pending set and wakes any blocked get. It never
// blocks other than momentarily on the mutex.
func (w *watcher) put(path string) {
	w.mu.Lock()
	w.paths[path] = struct{}{}
	w.cond.Signal()
	w.mu.Unlock()
}

// get waits while the pending set is empty and the watcher is not
// cancelling, then atomically drains and returns it. A watcher that is
// already cancelling returns the empty set without waiting.
func (w *watcher) get() map[string]struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.paths) == 0 && !w.cancelling {
		w.cond.Wait()
	}
	paths := w.paths
	w.paths = make(map[string]struct{})
	return paths
}

// cancel marks the watcher cancelling, a one-way transition, and wakes any
// blocked get. Cleanup of server-side subscriptions is the caller's
// responsibility (spec.md §4.6 step 5).
func (w *watcher) cancel() {
	w.mu.Lock()
	w.cancelling = true
	w.cond.Broadcast()
	w.mu.Unlock()
}
