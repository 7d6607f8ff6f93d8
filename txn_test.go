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
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/ls-2018/xenstore/transport/memtransport"
	"github.com/ls-2018/xenstore/wire"
)

// S5 / property 8 — with_xst retries the body exactly k+1 times when the
// server replies Eagain to transaction_end exactly k times then OK.
func TestWithXSTRetriesOnEagain(t *testing.T) {
	c, tr := newTestClient(t)

	var endCalls int32
	const eagainCount = 2

	fakeServer(t, tr, func(req wire.Packet) [][]byte {
		switch req.Ty() {
		case wire.TypeTransactionStart:
			return [][]byte{wire.NewPacket(wire.TypeTransactionStart, req.Rid(), 0, append([]byte("1"), 0)).Encode()}
		case wire.TypeWrite:
			return [][]byte{okReply(req.Rid(), req.Tid())}
		case wire.TypeTransactionEnd:
			n := atomic.AddInt32(&endCalls, 1)
			if n <= eagainCount {
				return [][]byte{wire.NewPacket(wire.TypeError, req.Rid(), req.Tid(), append([]byte("EAGAIN"), 0)).Encode()}
			}
			return [][]byte{okReply(req.Rid(), req.Tid())}
		default:
			return nil
		}
	})

	var bodyCalls int32
	v, err := WithXST(context.Background(), c, func(h Handle) (string, error) {
		atomic.AddInt32(&bodyCalls, 1)
		if err := Write(context.Background(), h, "/k", "v"); err != nil {
			return "", err
		}
		return "committed", nil
	})

	require.NoError(t, err)
	require.Equal(t, "committed", v)
	require.EqualValues(t, eagainCount+1, bodyCalls)
}

// property: a non-OK, non-Eagain transaction_end reply surfaces as a
// ProtocolError carrying the server's message (spec.md §4.7 step 5).
func TestWithXSTSurfacesProtocolError(t *testing.T) {
	c, tr := newTestClient(t)

	fakeServer(t, tr, func(req wire.Packet) [][]byte {
		switch req.Ty() {
		case wire.TypeTransactionStart:
			return [][]byte{wire.NewPacket(wire.TypeTransactionStart, req.Rid(), 0, append([]byte("1"), 0)).Encode()}
		case wire.TypeTransactionEnd:
			return [][]byte{wire.NewPacket(wire.TypeTransactionEnd, req.Rid(), req.Tid(), append([]byte("CONFLICT"), 0)).Encode()}
		default:
			return nil
		}
	})

	_, err := WithXST(context.Background(), c, func(h Handle) (string, error) {
		return "x", nil
	})

	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	require.Equal(t, "CONFLICT", protoErr.Message)
}

// with_xst waits on the injected clock between a conflicted attempt and the
// next (SPEC_FULL.md §A's "injectable clock" for deterministic retry
// pacing under test), with the delay doubling attempt over attempt.
func TestWithXSTBacksOffBetweenRetries(t *testing.T) {
	tr := memtransport.New()
	clock := clockwork.NewFakeClock()
	c := Open(Config{Transport: tr, Clock: clock})
	t.Cleanup(func() { _ = c.Close() })

	var endCalls int32
	const eagainCount = 2

	fakeServer(t, tr, func(req wire.Packet) [][]byte {
		switch req.Ty() {
		case wire.TypeTransactionStart:
			return [][]byte{wire.NewPacket(wire.TypeTransactionStart, req.Rid(), 0, append([]byte("1"), 0)).Encode()}
		case wire.TypeTransactionEnd:
			n := atomic.AddInt32(&endCalls, 1)
			if n <= eagainCount {
				return [][]byte{wire.NewPacket(wire.TypeError, req.Rid(), req.Tid(), append([]byte("EAGAIN"), 0)).Encode()}
			}
			return [][]byte{okReply(req.Rid(), req.Tid())}
		default:
			return nil
		}
	})

	done := make(chan struct{})
	var result string
	var resultErr error
	go func() {
		result, resultErr = WithXST(context.Background(), c, func(h Handle) (string, error) {
			return "committed", nil
		})
		close(done)
	}()

	// Each retry parks on clock.Sleep with a doubling delay; advance past
	// it to let the next attempt proceed.
	delay := retryBackoffMin
	for i := 0; i < eagainCount; i++ {
		clock.BlockUntil(1)
		clock.Advance(delay)
		if delay < retryBackoffMax {
			delay *= 2
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("with_xst did not complete after advancing the fake clock")
	}

	require.NoError(t, resultErr)
	require.Equal(t, "committed", result)
	require.EqualValues(t, eagainCount+1, endCalls)
}
