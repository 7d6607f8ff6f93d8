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

// Package memtransport is an in-memory, scriptable transport.Transport
// used by this module's own tests in place of a real hypervisor
// connection, playing the role the teacher's scripted gRPC streams play in
// client_sdk/v3's watch tests.
package memtransport

import (
	"io"
	"sync"
)

// Transport is a full-duplex byte pipe: Feed injects bytes a test wants
// the client to "receive"; Written returns the bytes the client wrote, for
// assertions against the expected wire traffic.
type Transport struct {
	mu     sync.Mutex
	cond   *sync.Cond
	inbox  []byte
	outbox []byte
	closed bool
}

// New returns a ready Transport with empty queues.
func New() *Transport {
	t := &Transport{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// Feed appends bytes to the read side, waking any blocked Read.
func (t *Transport) Feed(b []byte) {
	t.mu.Lock()
	t.inbox = append(t.inbox, b...)
	t.cond.Broadcast()
	t.mu.Unlock()
}

// Read implements transport.Transport. It blocks until at least one byte
// is available or the transport is closed.
func (t *Transport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.inbox) == 0 && !t.closed {
		t.cond.Wait()
	}
	if len(t.inbox) == 0 && t.closed {
		return 0, io.EOF
	}
	n := copy(p, t.inbox)
	t.inbox = t.inbox[n:]
	return n, nil
}

// Write implements transport.Transport, recording the bytes for
// inspection by Written.
func (t *Transport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	t.outbox = append(t.outbox, p...)
	return len(p), nil
}

// Close marks the transport closed; any blocked Read wakes with io.EOF.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.cond.Broadcast()
	return nil
}

// Written returns a copy of everything written to the transport so far.
func (t *Transport) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.outbox))
	copy(out, t.outbox)
	return out
}
