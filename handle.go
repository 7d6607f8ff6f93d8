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

// Handle is a small value describing the logical scope of a sequence of
// calls against a Client: no transaction, a specific transaction id, or a
// watch-recording scope used by wait (spec.md §3, §4.5). It carries no
// ownership of the Client and is cheap to copy.
type Handle struct {
	client        *Client
	tid           uint32
	recording     bool
	accessedPaths map[string]struct{}
	watchedPaths  map[string]struct{}
}

// noTransaction returns a Handle scoped to no transaction and no
// access recording.
func noTransaction(c *Client) Handle {
	return Handle{client: c}
}

// transactionHandle returns a Handle bound to an existing transaction id,
// with no access recording.
func transactionHandle(c *Client, tid uint32) Handle {
	return Handle{client: c, tid: tid}
}

// watchingHandle returns a Handle scoped to no transaction with access
// recording enabled, for use inside wait.
func watchingHandle(c *Client) Handle {
	return Handle{client: c, recording: true, accessedPaths: make(map[string]struct{}), watchedPaths: make(map[string]struct{})}
}

// accessedPath records that the caller touched p, if this Handle is
// recording (i.e. was produced by watchingHandle). It returns the same
// Handle to support fluent chaining at call sites.
func (h Handle) accessedPath(p string) Handle {
	if h.recording {
		h.accessedPaths[p] = struct{}{}
	}
	return h
}

// watch records that the server has been asked to watch p under this
// Handle's scope. It mutates the Handle's own bookkeeping only; it does
// not talk to the server.
func (h Handle) watch(p string) Handle {
	h.watchedPaths[p] = struct{}{}
	return h
}

// unwatch removes p from this Handle's watched-paths bookkeeping.
func (h Handle) unwatch(p string) Handle {
	delete(h.watchedPaths, p)
	return h
}

// resetAccessedPaths empties the accessed-paths set, used at the top of
// each wait loop iteration (spec.md §4.6 step 4a).
func (h Handle) resetAccessedPaths() Handle {
	for p := range h.accessedPaths {
		delete(h.accessedPaths, p)
	}
	return h
}
