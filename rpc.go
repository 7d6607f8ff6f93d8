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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ls-2018/xenstore/wire"
)

// replyResult is what the Dispatcher hands to a one-shot reply slot: the
// packet on success, or the error that killed the Dispatcher.
type replyResult struct {
	pkt wire.Packet
	err error
}

// replySlot is the one-shot completion handle a waiting rpc call blocks
// on; the Dispatcher holds the sending half implicitly by closing over the
// channel stored in Client.pending.
type replySlot chan replyResult

// nextRid allocates a request id unique among currently pending requests.
// It must be called with c.mu held.
func (c *Client) nextRid() (uint32, error) {
	for i := 0; i < 1<<32; i++ {
		c.ridCounter++
		rid := c.ridCounter
		if _, taken := c.pending[rid]; !taken {
			return rid, nil
		}
	}
	return 0, ErrRidCollision
}

// rpc is the request/response correlator (spec.md §4.4). It builds a
// request from the Handle's tid and a per-operation factory, registers a
// one-shot reply slot before writing, writes the bytes through the
// outgoing-write lock, waits for the reply, and applies decode to it.
func rpc[T any](ctx context.Context, c *Client, h Handle, build func(rid uint32) wire.Request, decode func(wire.Packet) (T, error)) (T, error) {
	var zero T

	ctx, span := c.tracer.Start(ctx, "xenstore.rpc")
	defer span.End()

	if err := c.rateLimit(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	c.mu.Lock()
	if c.shuttingDown {
		c.mu.Unlock()
		span.SetStatus(codes.Error, ErrDispatcherFailed.Error())
		return zero, ErrDispatcherFailed
	}
	rid, err := c.nextRid()
	if err != nil {
		c.mu.Unlock()
		return zero, err
	}
	slot := make(replySlot, 1)
	c.pending[rid] = slot
	c.mu.Unlock()

	span.SetAttributes(attribute.Int64("xenstore.rid", int64(rid)), attribute.Int64("xenstore.tid", int64(h.tid)))

	if c.metrics != nil {
		c.metrics.pendingRequests.Inc()
	}
	start := time.Now()

	// removePending drops rid from the correlator. It is always called
	// exactly once, but on which goroutine depends on whether the reply
	// arrives before ctx is done: the pending entry must never be removed
	// before a reply has actually arrived for rid, or the Dispatcher will
	// see an UnexpectedRid (spec.md §5, "Cancellation").
	removePending := func() {
		c.mu.Lock()
		delete(c.pending, rid)
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.pendingRequests.Dec()
			c.metrics.rpcLatency.Observe(time.Since(start).Seconds())
		}
	}

	req := build(rid)(h.tid)

	if err := c.sendOne(req); err != nil {
		removePending()
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	select {
	case res := <-slot:
		removePending()
		if res.err != nil {
			span.SetStatus(codes.Error, res.err.Error())
			return zero, res.err
		}
		v, err := decode(res.pkt)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		return v, err
	case <-ctx.Done():
		// The request has already been sent and the server will still
		// reply; rpc cancellation is not directly supported. Drain the
		// slot on a background goroutine and remove the pending entry
		// only once that reply (or dispatcher failure) actually shows up.
		go func() {
			<-slot
			removePending()
		}()
		span.SetStatus(codes.Error, ctx.Err().Error())
		return zero, ctx.Err()
	}
}

// sendOne writes a single logical request through the outgoing-write
// lock, so that one request's bytes are never interleaved with another's
// (spec.md §4.4 step 3, §5).
func (c *Client) sendOne(b []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	for written := 0; written < len(b); {
		n, err := c.transport.Write(b[written:])
		if err != nil {
			return err
		}
		written += n
	}
	return nil
}
