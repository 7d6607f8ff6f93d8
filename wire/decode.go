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
	"fmt"
	"strconv"
	"strings"
)

// ServerError is returned by the decoders when the server replied with
// XS_ERROR; Errno is the short error token xenstore uses in place of a
// real errno string (e.g. "EAGAIN", "ENOENT").
type ServerError struct {
	Errno string
}

func (e *ServerError) Error() string { return "xenstore: server error " + e.Errno }

// IsEagain reports whether err is the server's transaction-conflict
// signal (spec.md §7, Eagain).
func IsEagain(err error) bool {
	se, ok := err.(*ServerError)
	return ok && se.Errno == "EAGAIN"
}

func splitNulTerminated(b []byte) []string {
	s := string(b)
	s = strings.TrimSuffix(s, "\x00")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x00")
}

func asServerError(p Packet) error {
	if p.Ty() != TypeError {
		return nil
	}
	errno := strings.TrimSuffix(string(p.Payload()), "\x00")
	return &ServerError{Errno: errno}
}

// DecodeList decodes an XS_DIRECTORY reply into its NUL-separated entries.
func DecodeList(p Packet) ([]string, error) {
	if err := asServerError(p); err != nil {
		return nil, err
	}
	return splitNulTerminated(p.Payload()), nil
}

// DecodeString decodes a single NUL-terminated string reply (XS_READ,
// XS_GET_DOMAIN_PATH, XS_TRANSACTION_START's tid-as-string).
func DecodeString(p Packet) (string, error) {
	if err := asServerError(p); err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(p.Payload()), "\x00"), nil
}

// DecodeUint32 decodes a decimal string reply as a uint32 (the transaction
// id returned by XS_TRANSACTION_START).
func DecodeUint32(p Packet) (uint32, error) {
	s, err := DecodeString(p)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("xenstore: malformed integer reply %q: %w", s, err)
	}
	return uint32(n), nil
}

// DecodeOK decodes a reply expected to be the literal string "OK" (the
// success response to XS_WRITE, XS_MKDIR, XS_RM, XS_WATCH, XS_UNWATCH, and
// a committed XS_TRANSACTION_END). Any other payload is a protocol error
// carrying the server's message, per spec.md §4.7 step 5.
func DecodeOK(p Packet) error {
	if err := asServerError(p); err != nil {
		return err
	}
	s, err := DecodeString(p)
	if err != nil {
		return err
	}
	if s != "OK" {
		return fmt.Errorf("xenstore: unexpected reply %q, want OK", s)
	}
	return nil
}

// WatchEvent is the decoded payload of an XS_WATCH_EVENT packet.
type WatchEvent struct {
	Path  string
	Token string
}

// DecodeWatchEvent decodes a WatchEvent packet's payload as exactly two
// NUL-terminated strings, [path, token]. Any other shape is malformed
// (spec.md §4.2).
func DecodeWatchEvent(p Packet) (WatchEvent, error) {
	parts := splitNulTerminated(p.Payload())
	if len(parts) != 2 {
		return WatchEvent{}, fmt.Errorf("xenstore: malformed watch event payload: %d fields", len(parts))
	}
	return WatchEvent{Path: parts[0], Token: parts[1]}, nil
}
