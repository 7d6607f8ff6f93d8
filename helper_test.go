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
	"testing"
	"time"

	"github.com/ls-2018/xenstore/transport/memtransport"
	"github.com/ls-2018/xenstore/wire"
)

// fakeServer drains newly written requests off tr and hands each to
// handler, feeding back whatever raw packets handler returns. It runs
// until t's cleanup fires.
func fakeServer(t *testing.T, tr *memtransport.Transport, handler func(req wire.Packet) [][]byte) {
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
					for _, reply := range handler(obs.Packet) {
						tr.Feed(reply)
					}
				}
			}
			time.Sleep(time.Millisecond)
		}
	}()
}

func okReply(rid, tid uint32) []byte {
	return wire.NewPacket(wire.TypeWrite, rid, tid, append([]byte("OK"), 0)).Encode()
}
