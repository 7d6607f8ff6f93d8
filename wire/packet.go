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

// Package wire implements the xenstore wire protocol: the fixed 16-byte
// packet header, the closed set of operation tags, and the per-operation
// request/response payload encoding. It is a concrete default for the
// "packet parser/serializer" collaborator the multiplexer core consumes
// only through the Parser and Packet contracts; callers that need a
// different wire revision can substitute their own.
package wire

import "encoding/binary"

// HeaderLen is the size, in bytes, of the fixed xsd_sockmsg header that
// precedes every packet's payload: type, req_id, tx_id, len, each a
// little-endian uint32.
const HeaderLen = 16

// Type is the operation tag carried in a packet header. The set is closed;
// any tag the client doesn't recognize as WatchEvent is treated as a reply
// to be routed by request id (spec.md §6).
type Type uint32

const (
	TypeDebug               Type = 0
	TypeDirectory           Type = 1
	TypeRead                Type = 2
	TypeGetPerms            Type = 3
	TypeWatch               Type = 4
	TypeUnwatch             Type = 5
	TypeTransactionStart    Type = 6
	TypeTransactionEnd      Type = 7
	TypeIntroduce           Type = 8
	TypeRelease             Type = 9
	TypeGetDomainPath       Type = 10
	TypeWrite               Type = 11
	TypeMkdir               Type = 12
	TypeRm                  Type = 13
	TypeSetPerms            Type = 14
	TypeWatchEvent          Type = 15
	TypeError               Type = 16
	TypeIsDomainIntroduced  Type = 17
	TypeResume              Type = 18
	TypeSetTarget           Type = 19
	TypeRestrict            Type = 128
	TypeResetWatches        Type = 129
	TypeDirectoryPart       Type = 130
)

func (t Type) String() string {
	switch t {
	case TypeDebug:
		return "DEBUG"
	case TypeDirectory:
		return "DIRECTORY"
	case TypeRead:
		return "READ"
	case TypeGetPerms:
		return "GET_PERMS"
	case TypeWatch:
		return "WATCH"
	case TypeUnwatch:
		return "UNWATCH"
	case TypeTransactionStart:
		return "TRANSACTION_START"
	case TypeTransactionEnd:
		return "TRANSACTION_END"
	case TypeIntroduce:
		return "INTRODUCE"
	case TypeRelease:
		return "RELEASE"
	case TypeGetDomainPath:
		return "GET_DOMAIN_PATH"
	case TypeWrite:
		return "WRITE"
	case TypeMkdir:
		return "MKDIR"
	case TypeRm:
		return "RM"
	case TypeSetPerms:
		return "SET_PERMS"
	case TypeWatchEvent:
		return "WATCH_EVENT"
	case TypeError:
		return "ERROR"
	case TypeIsDomainIntroduced:
		return "IS_DOMAIN_INTRODUCED"
	case TypeResume:
		return "RESUME"
	case TypeSetTarget:
		return "SET_TARGET"
	case TypeRestrict:
		return "RESTRICT"
	case TypeResetWatches:
		return "RESET_WATCHES"
	case TypeDirectoryPart:
		return "DIRECTORY_PART"
	default:
		return "UNKNOWN"
	}
}

// Packet is a single framed xenstore message: a header plus payload bytes.
// It is opaque to callers beyond the three accessors the core multiplexer
// needs (spec.md §3).
type Packet struct {
	ty      Type
	rid     uint32
	tid     uint32
	payload []byte
}

// Ty returns the packet's operation tag.
func (p Packet) Ty() Type { return p.ty }

// Rid returns the packet's 32-bit request id.
func (p Packet) Rid() uint32 { return p.rid }

// Tid returns the packet's 32-bit transaction id; 0 means no transaction.
func (p Packet) Tid() uint32 { return p.tid }

// Payload returns the packet's raw, unparsed payload bytes.
func (p Packet) Payload() []byte { return p.payload }

// NewPacket builds a Packet from its header fields and payload. Exposed for
// the request factories and for tests that script replies directly.
func NewPacket(ty Type, rid, tid uint32, payload []byte) Packet {
	return Packet{ty: ty, rid: rid, tid: tid, payload: payload}
}

// Encode serialises p as a full wire frame: header followed by payload.
func (p Packet) Encode() []byte {
	buf := make([]byte, HeaderLen+len(p.payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(p.ty))
	binary.LittleEndian.PutUint32(buf[4:8], p.rid)
	binary.LittleEndian.PutUint32(buf[8:12], p.tid)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(p.payload)))
	copy(buf[HeaderLen:], p.payload)
	return buf
}
