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
	"io"

	"go.uber.org/zap"

	"github.com/ls-2018/xenstore/wire"
)

// recvOne drives the streaming parser until a full packet is assembled,
// per spec.md §4.1. It is only ever called from dispatch, the single
// long-running task pinned to this Client (spec.md §4.2 invariant).
func (c *Client) recvOne() (wire.Packet, error) {
	buf := make([]byte, 0)
	for {
		switch obs := c.parser.Observe(); obs.Kind {
		case wire.ObservationPacket:
			c.parser.Reset()
			return obs.Packet, nil
		case wire.ObservationNeedMoreData:
			want := obs.NeedMoreData
			if want <= 0 {
				want = 4096
			}
			if cap(buf) < want {
				buf = make([]byte, want)
			}
			n, err := c.transport.Read(buf[:want])
			if err != nil {
				return wire.Packet{}, err
			}
			if n == 0 {
				return wire.Packet{}, io.EOF
			}
			c.parser.Input(buf[:n])
		case wire.ObservationUnknownOperation:
			return wire.Packet{}, &UnknownOperationError{Code: obs.UnknownOpValue}
		case wire.ObservationParserFailed:
			return wire.Packet{}, ErrResponseParserFailed
		}
	}
}

// dispatch is the Dispatcher: the single long-running task that owns the
// receiver, classifies every incoming packet as a watch event or a reply,
// and on any fatal error fails every pending caller and terminates
// (spec.md §4.2).
func (c *Client) dispatch() {
	defer close(c.dispatcherDone)

	for {
		pkt, err := c.recvOne()
		if err != nil {
			c.fail(err)
			return
		}

		if pkt.Ty() == wire.TypeWatchEvent {
			if err := c.routeWatchEvent(pkt); err != nil {
				c.fail(err)
				return
			}
			continue
		}

		c.mu.Lock()
		slot, ok := c.pending[pkt.Rid()]
		c.mu.Unlock()
		if !ok {
			c.fail(&UnexpectedRidError{Rid: pkt.Rid()})
			return
		}
		slot <- replyResult{pkt: pkt}
	}
}

// routeWatchEvent decodes a WatchEvent packet and delivers it to the
// registered watcher, if any (spec.md §4.2). A WatchEvent for an
// unregistered token is a stale subscription and is silently dropped. A
// payload that is not exactly [path, token] is returned as a
// MalformedWatchEventError, fatal to the Dispatcher.
func (c *Client) routeWatchEvent(pkt wire.Packet) error {
	ev, err := wire.DecodeWatchEvent(pkt)
	if err != nil {
		return &MalformedWatchEventError{Cause: err}
	}

	c.mu.Lock()
	w, ok := c.watchers[ev.Token]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	w.put(ev.Path)
	if c.metrics != nil {
		c.metrics.watchEvents.Inc()
	}
	return nil
}

// fail is the Dispatcher's terminal path: mark shutting_down, fan the
// error out to every pending caller without removing their entries (the
// callers remove their own entries when they wake, per spec.md §4.2 and
// §5), and log the cause.
func (c *Client) fail(err error) {
	c.logger.Error("xenstore: dispatcher terminating", zap.Error(err))
	if c.metrics != nil {
		c.metrics.dispatcherErrors.Inc()
	}

	c.mu.Lock()
	c.shuttingDown = true
	slots := make([]replySlot, 0, len(c.pending))
	for _, slot := range c.pending {
		slots = append(slots, slot)
	}
	c.mu.Unlock()

	for _, slot := range slots {
		slot <- replyResult{err: err}
	}
}
