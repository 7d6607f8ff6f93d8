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

// Package transport defines the narrow byte-I/O capability the xenstore
// multiplexer core consumes (spec.md §6), plus real implementations over
// the two common xenstore IPC paths.
package transport

import "io"

// Transport is an open byte-stream connection to a xenstore backend. The
// core treats it as opaque: it never inspects framing, only reads and
// writes raw bytes.
//
// Read must return 0 < n <= len(buf) bytes on success; a 0-byte, nil-error
// return means EOF and callers must surface it as a transport error
// (spec.md §4.1). Write must return the number of bytes actually written;
// callers loop if n < len(buf) unless the implementation documents that it
// always writes fully.
type Transport interface {
	io.ReadWriteCloser
}
