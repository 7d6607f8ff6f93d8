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

func TestDecodeListSplitsEntries(t *testing.T) {
	pkt := NewPacket(TypeDirectory, 1, 0, []byte("a\x00b\x00c\x00"))
	got, err := DecodeList(pkt)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestDecodeListEmptyDirectory(t *testing.T) {
	pkt := NewPacket(TypeDirectory, 1, 0, nil)
	got, err := DecodeList(pkt)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecodeListServerError(t *testing.T) {
	pkt := NewPacket(TypeError, 1, 0, []byte("ENOENT\x00"))
	_, err := DecodeList(pkt)
	require.Error(t, err)
	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "ENOENT", se.Errno)
}

func TestDecodeStringTrimsTrailingNul(t *testing.T) {
	pkt := NewPacket(TypeRead, 1, 0, []byte("hello\x00"))
	got, err := DecodeString(pkt)
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}

func TestDecodeUint32ParsesDecimal(t *testing.T) {
	pkt := NewPacket(TypeTransactionStart, 1, 0, []byte("42\x00"))
	got, err := DecodeUint32(pkt)
	require.NoError(t, err)
	require.EqualValues(t, 42, got)
}

func TestDecodeUint32RejectsGarbage(t *testing.T) {
	pkt := NewPacket(TypeTransactionStart, 1, 0, []byte("not-a-number\x00"))
	_, err := DecodeUint32(pkt)
	require.Error(t, err)
}

func TestDecodeOKAcceptsOK(t *testing.T) {
	pkt := NewPacket(TypeWrite, 1, 0, []byte("OK\x00"))
	require.NoError(t, DecodeOK(pkt))
}

func TestDecodeOKRejectsOtherStrings(t *testing.T) {
	pkt := NewPacket(TypeWrite, 1, 0, []byte("WAT\x00"))
	err := DecodeOK(pkt)
	require.Error(t, err)
}

func TestDecodeOKPropagatesServerError(t *testing.T) {
	pkt := NewPacket(TypeError, 1, 0, []byte("EACCES\x00"))
	err := DecodeOK(pkt)
	var se *ServerError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "EACCES", se.Errno)
}

func TestIsEagainRecognizesConflict(t *testing.T) {
	require.True(t, IsEagain(&ServerError{Errno: "EAGAIN"}))
	require.False(t, IsEagain(&ServerError{Errno: "ENOENT"}))
	require.False(t, IsEagain(nil))
}

func TestDecodeWatchEventParsesPathAndToken(t *testing.T) {
	pkt := NewPacket(TypeWatchEvent, 0, 0, []byte("/a/b\x00mytoken\x00"))
	ev, err := DecodeWatchEvent(pkt)
	require.NoError(t, err)
	require.Equal(t, WatchEvent{Path: "/a/b", Token: "mytoken"}, ev)
}

func TestDecodeWatchEventRejectsWrongFieldCount(t *testing.T) {
	pkt := NewPacket(TypeWatchEvent, 0, 0, []byte("/a/b\x00"))
	_, err := DecodeWatchEvent(pkt)
	require.Error(t, err)
}

func TestDecodeWatchEventRejectsExtraFields(t *testing.T) {
	pkt := NewPacket(TypeWatchEvent, 0, 0, []byte("/a\x00tok\x00extra\x00"))
	_, err := DecodeWatchEvent(pkt)
	require.Error(t, err)
}
