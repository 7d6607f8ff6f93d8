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

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, req Request, tid uint32) Packet {
	t.Helper()
	p := NewParser()
	p.Input(req(tid))
	obs := p.Observe()
	require.Equal(t, ObservationPacket, obs.Kind)
	return obs.Packet
}

func TestDirectoryRequestEncoding(t *testing.T) {
	pkt := roundTrip(t, Directory(5, "/a/b"), 0)
	require.Equal(t, TypeDirectory, pkt.Ty())
	require.EqualValues(t, 5, pkt.Rid())
	require.Equal(t, []byte("/a/b\x00"), pkt.Payload())
}

func TestReadRequestEncoding(t *testing.T) {
	pkt := roundTrip(t, Read(9, "/a"), 3)
	require.Equal(t, TypeRead, pkt.Ty())
	require.EqualValues(t, 3, pkt.Tid())
	require.Equal(t, []byte("/a\x00"), pkt.Payload())
}

func TestWriteRequestEncoding(t *testing.T) {
	pkt := roundTrip(t, Write(1, "/a", "value"), 0)
	require.Equal(t, TypeWrite, pkt.Ty())
	require.Equal(t, []byte("/a\x00value"), pkt.Payload())
}

func TestWatchRequestEncoding(t *testing.T) {
	pkt := roundTrip(t, Watch(1, "/a", "tok"), 0)
	require.Equal(t, TypeWatch, pkt.Ty())
	require.Equal(t, []byte("/a\x00tok\x00"), pkt.Payload())
}

func TestUnwatchRequestEncoding(t *testing.T) {
	pkt := roundTrip(t, Unwatch(1, "/a", "tok"), 0)
	require.Equal(t, TypeUnwatch, pkt.Ty())
	require.Equal(t, []byte("/a\x00tok\x00"), pkt.Payload())
}

func TestTransactionStartRequestEncoding(t *testing.T) {
	pkt := roundTrip(t, TransactionStart(1), 0)
	require.Equal(t, TypeTransactionStart, pkt.Ty())
	require.Empty(t, pkt.Payload())
}

func TestTransactionEndRequestEncoding(t *testing.T) {
	commit := roundTrip(t, TransactionEnd(1, true), 42)
	require.Equal(t, TypeTransactionEnd, commit.Ty())
	require.EqualValues(t, 42, commit.Tid())
	require.Equal(t, []byte("T\x00"), commit.Payload())

	abort := roundTrip(t, TransactionEnd(1, false), 42)
	require.Equal(t, []byte("F\x00"), abort.Payload())
}

func TestRequestCarriesTidFromArgumentNotRid(t *testing.T) {
	req := Read(1, "/a")
	p := NewParser()
	p.Input(req(99))
	obs := p.Observe()
	require.Equal(t, ObservationPacket, obs.Kind)
	require.EqualValues(t, 99, obs.Packet.Tid())
	require.EqualValues(t, 1, obs.Packet.Rid())
}
