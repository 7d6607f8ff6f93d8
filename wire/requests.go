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

import "bytes"

// Request is a function tid → serialised request bytes, per spec.md §6.
// rid is bound by the factory at construction time (the caller already
// allocated it), so the returned closure only needs the transaction id.
type Request func(tid uint32) []byte

func nulJoin(parts ...string) []byte {
	var buf bytes.Buffer
	for _, s := range parts {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func encode(ty Type, rid uint32, payload []byte) func(tid uint32) []byte {
	return func(tid uint32) []byte {
		return NewPacket(ty, rid, tid, payload).Encode()
	}
}

// Directory builds an XS_DIRECTORY request listing the immediate children
// of path.
func Directory(rid uint32, path string) Request {
	return encode(TypeDirectory, rid, nulJoin(path))
}

// Read builds an XS_READ request fetching the value stored at path.
func Read(rid uint32, path string) Request {
	return encode(TypeRead, rid, nulJoin(path))
}

// Write builds an XS_WRITE request storing data at path.
func Write(rid uint32, path, data string) Request {
	var buf bytes.Buffer
	buf.WriteString(path)
	buf.WriteByte(0)
	buf.WriteString(data)
	return encode(TypeWrite, rid, buf.Bytes())
}

// Watch builds an XS_WATCH request subscribing token to changes under path.
func Watch(rid uint32, path, token string) Request {
	return encode(TypeWatch, rid, nulJoin(path, token))
}

// Unwatch builds an XS_UNWATCH request removing token's subscription to
// path.
func Unwatch(rid uint32, path, token string) Request {
	return encode(TypeUnwatch, rid, nulJoin(path, token))
}

// TransactionStart builds an XS_TRANSACTION_START request. The reply
// payload is the newly allocated transaction id as a decimal string.
func TransactionStart(rid uint32) Request {
	return encode(TypeTransactionStart, rid, nil)
}

// TransactionEnd builds an XS_TRANSACTION_END request, committing or
// aborting the transaction in effect (carried via the tid argument to the
// returned Request, not the payload).
func TransactionEnd(rid uint32, commit bool) Request {
	flag := "F"
	if commit {
		flag = "T"
	}
	return encode(TypeTransactionEnd, rid, nulJoin(flag))
}
