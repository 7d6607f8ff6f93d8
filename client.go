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

// Package xenstore implements the multiplexing core of a xenstore client:
// a packet framer, a request/response correlator keyed by request id, a
// watch-event demultiplexer, and the transaction-retry / watch-based wait
// primitive built on top. The transport and the per-operation wire codec
// are narrow collaborators (see the wire and transport packages); this
// package owns none of the bytes on the network, only the bookkeeping that
// lets many logical callers share one connection.
package xenstore

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ls-2018/xenstore/transport"
	"github.com/ls-2018/xenstore/wire"
)

// Client is a single long-lived connection to a xenstore backend,
// multiplexing many concurrent logical operations over it (spec.md §2,
// §3). A Client is safe for concurrent use by any number of goroutines;
// the only thing it does not survive is the death of its own Dispatcher.
type Client struct {
	transport transport.Transport
	parser    *wire.Parser
	logger    *zap.Logger
	clock     clockwork.Clock
	limiter   *rate.Limiter
	metrics   *Metrics
	tracer    trace.Tracer

	writeMu sync.Mutex // serialises transport writes (spec.md §3, §5)

	mu           sync.Mutex
	ridCounter   uint32
	pending      map[uint32]replySlot
	watchers     map[string]*watcher
	shuttingDown bool

	dispatcherDone chan struct{}
}

// Open starts a Client bound to cfg.Transport and starts its Dispatcher.
// The returned Client owns the transport for the rest of its lifetime;
// closing it closes the transport.
func Open(cfg Config) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		transport:      cfg.Transport,
		parser:         wire.NewParser(),
		logger:         cfg.Logger,
		clock:          cfg.Clock,
		limiter:        cfg.RPCLimiter,
		metrics:        cfg.Metrics,
		tracer:         cfg.Tracer,
		pending:        make(map[uint32]replySlot),
		watchers:       make(map[string]*watcher),
		dispatcherDone: make(chan struct{}),
	}
	go c.dispatch()
	return c
}

// Stats is a cheap, lock-protected snapshot of a Client's internal state
// for diagnostics (SPEC_FULL.md §D.5). It is not part of the wire
// protocol.
type Stats struct {
	PendingRequests int
	Watchers        int
	ShuttingDown    bool
}

// Stats returns a snapshot of c's current bookkeeping.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		PendingRequests: len(c.pending),
		Watchers:        len(c.watchers),
		ShuttingDown:    c.shuttingDown,
	}
}

// Close tears the Client down: it closes the transport, then waits for the
// Dispatcher to notice and terminate (if it is already dead, the wait
// returns immediately). Any rpc calls already in flight observe the error
// that ended the Dispatcher; later calls observe ErrDispatcherFailed.
func (c *Client) Close() error {
	err := c.transport.Close()
	<-c.dispatcherDone
	return err
}

// rateLimit blocks until c's configured RPCLimiter (if any) admits one
// more outgoing request.
func (c *Client) rateLimit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// withXS runs f against a non-transactional Handle (spec.md §2, with_xs).
func withXS[T any](c *Client, f func(Handle) (T, error)) (T, error) {
	return f(noTransaction(c))
}

// WithXS runs f against a fresh, non-transactional Handle bound to c and
// returns its result.
func WithXS[T any](c *Client, f func(Handle) (T, error)) (T, error) {
	return withXS(c, f)
}
