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
	"errors"
	"fmt"

	"github.com/ls-2018/xenstore/wire"
)

// ErrDispatcherFailed is surfaced to any caller attempting to use a Client
// whose Dispatcher has died, and to every pending caller at the moment of
// death (spec.md §7).
var ErrDispatcherFailed = errors.New("xenstore: dispatcher has terminated")

// ErrRidCollision indicates a programming error: an rid was reused while
// still outstanding (spec.md §4.4, "a collision is a programming error").
var ErrRidCollision = errors.New("xenstore: request id collision")

// UnknownOperationError wraps a header tag the parser doesn't recognize.
type UnknownOperationError struct {
	Code uint32
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("xenstore: unknown operation code %d", e.Code)
}

// ErrResponseParserFailed indicates the parser observed a structurally
// invalid frame (spec.md §7).
var ErrResponseParserFailed = errors.New("xenstore: response parser failed")

// MalformedWatchEventError wraps the decode failure when a WatchEvent
// packet's payload isn't exactly [path, token].
type MalformedWatchEventError struct {
	Cause error
}

func (e *MalformedWatchEventError) Error() string {
	return fmt.Sprintf("xenstore: malformed watch event: %v", e.Cause)
}

func (e *MalformedWatchEventError) Unwrap() error { return e.Cause }

// UnexpectedRidError indicates a reply arrived for an rid with no
// registered caller (spec.md §4.2).
type UnexpectedRidError struct {
	Rid uint32
}

func (e *UnexpectedRidError) Error() string {
	return fmt.Sprintf("xenstore: unexpected reply for rid %d", e.Rid)
}

// ProtocolError wraps a server reply that doesn't match the expected
// protocol shape — e.g. a transaction_end reply that isn't "OK"
// (spec.md §4.7 step 5).
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "xenstore: protocol error: " + e.Message
}

// IsEagain reports whether err is the server's transaction-conflict signal
// (spec.md's Eagain). Both with_xst and wait use this to distinguish a
// recoverable "retry me" condition from every other failure.
func IsEagain(err error) bool {
	return wire.IsEagain(err)
}
