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

package directory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ls-2018/xenstore"
	"github.com/ls-2018/xenstore/transport/memtransport"
	"github.com/ls-2018/xenstore/wire"
)

// tree is a tiny static directory namespace served to Directory requests.
var tree = map[string][]string{
	"/":    {"a", "b"},
	"/a":   {"x"},
	"/b":   nil,
	"/a/x": nil,
}

func fakeDirServer(t *testing.T, tr *memtransport.Transport) {
	t.Helper()
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	go func() {
		var consumed int
		p := wire.NewParser()
		for {
			select {
			case <-stop:
				return
			default:
			}
			written := tr.Written()
			if len(written) > consumed {
				p.Input(written[consumed:])
				consumed = len(written)
				for {
					obs := p.Observe()
					if obs.Kind != wire.ObservationPacket {
						break
					}
					p.Reset()
					req := obs.Packet
					path := strings.TrimSuffix(string(req.Payload()), "\x00")
					children := tree[path]
					payload := []byte(strings.Join(children, "\x00"))
					if len(children) > 0 {
						payload = append(payload, 0)
					}
					tr.Feed(wire.NewPacket(wire.TypeDirectory, req.Rid(), req.Tid(), payload).Encode())
				}
			}
			time.Sleep(time.Millisecond)
		}
	}()
}

func TestWalkVisitsEntireSubtree(t *testing.T) {
	tr := memtransport.New()
	c := xenstore.Open(xenstore.Config{Transport: tr})
	t.Cleanup(func() { _ = c.Close() })
	fakeDirServer(t, tr)

	got, err := xenstore.WithXS(c, func(h xenstore.Handle) ([]string, error) {
		return Walk(context.Background(), h, "/")
	})

	require.NoError(t, err)
	require.ElementsMatch(t, []string{"/", "/a", "/b", "/a/x"}, got)
}

func TestWalkCachedAvoidsRepeatFetch(t *testing.T) {
	tr := memtransport.New()
	c := xenstore.Open(xenstore.Config{Transport: tr})
	t.Cleanup(func() { _ = c.Close() })
	fakeDirServer(t, tr)

	cache := NewCache()

	_, err := xenstore.WithXS(c, func(h xenstore.Handle) ([]string, error) {
		return WalkCached(context.Background(), h, "/", cache, time.Minute)
	})
	require.NoError(t, err)
	require.Equal(t, 4, cache.Len())

	// Second walk must be servable entirely from cache: every node's
	// children are already cached, so no new request reaches the transport.
	writtenBefore := len(tr.Written())
	got, err := xenstore.WithXS(c, func(h xenstore.Handle) ([]string, error) {
		return WalkCached(context.Background(), h, "/", cache, time.Minute)
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"/", "/a", "/b", "/a/x"}, got)
	require.Equal(t, writtenBefore, len(tr.Written()))
}
