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

	"github.com/ls-2018/xenstore/wire"
)

// Directory lists the immediate children of path (spec.md §4.5).
func Directory(ctx context.Context, h Handle, path string) ([]string, error) {
	h = h.accessedPath(path)
	return rpc(ctx, h.client, h, func(rid uint32) wire.Request { return wire.Directory(rid, path) }, wire.DecodeList)
}

// Read fetches the value stored at path.
func Read(ctx context.Context, h Handle, path string) (string, error) {
	h = h.accessedPath(path)
	return rpc(ctx, h.client, h, func(rid uint32) wire.Request { return wire.Read(rid, path) }, wire.DecodeString)
}

// Write stores data at path.
func Write(ctx context.Context, h Handle, path, data string) error {
	h = h.accessedPath(path)
	_, err := rpc(ctx, h.client, h, func(rid uint32) wire.Request { return wire.Write(rid, path, data) }, decodeOKAsUnit)
	return err
}

// Watch asks the server to notify token of changes under path, and
// updates h's own watched-paths bookkeeping.
func Watch(ctx context.Context, h Handle, path, token string) (Handle, error) {
	_, err := rpc(ctx, h.client, h, func(rid uint32) wire.Request { return wire.Watch(rid, path, token) }, decodeOKAsUnit)
	if err != nil {
		return h, err
	}
	return h.watch(path), nil
}

// Unwatch removes token's subscription to path, and updates h's own
// watched-paths bookkeeping.
func Unwatch(ctx context.Context, h Handle, path, token string) (Handle, error) {
	_, err := rpc(ctx, h.client, h, func(rid uint32) wire.Request { return wire.Unwatch(rid, path, token) }, decodeOKAsUnit)
	if err != nil {
		return h, err
	}
	return h.unwatch(path), nil
}

// TransactionStart opens a new transaction and returns a Handle bound to
// it.
func TransactionStart(ctx context.Context, c *Client) (Handle, error) {
	h := noTransaction(c)
	tid, err := rpc(ctx, c, h, wire.TransactionStart, wire.DecodeUint32)
	if err != nil {
		return Handle{}, err
	}
	return transactionHandle(c, tid), nil
}

// TransactionEnd commits (commit=true) or aborts (commit=false) h's
// transaction. A reply other than "OK" (and other than the server's
// EAGAIN conflict signal) is surfaced as a ProtocolError carrying the
// server's message (spec.md §4.7 step 5).
func TransactionEnd(ctx context.Context, h Handle, commit bool) error {
	_, err := rpc(ctx, h.client, h, func(rid uint32) wire.Request { return wire.TransactionEnd(rid, commit) }, decodeTransactionEnd)
	return err
}

func decodeTransactionEnd(p wire.Packet) (struct{}, error) {
	s, err := wire.DecodeString(p)
	if err != nil {
		// a *wire.ServerError (e.g. EAGAIN) passes through unwrapped so
		// IsEagain keeps working on it.
		return struct{}{}, err
	}
	if s != "OK" {
		return struct{}{}, &ProtocolError{Message: s}
	}
	return struct{}{}, nil
}

func decodeOKAsUnit(p wire.Packet) (struct{}, error) {
	return struct{}{}, wire.DecodeOK(p)
}
