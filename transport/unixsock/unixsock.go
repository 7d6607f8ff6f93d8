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

// Package unixsock implements transport.Transport over the Unix domain
// socket xenstored listens on in most dom0 deployments
// (/var/run/xenstored/socket by default).
package unixsock

import (
	"net"
	"time"

	"github.com/ls-2018/xenstore/transport"
)

// DefaultPath is the socket path used by xenstored on a typical Linux dom0.
const DefaultPath = "/var/run/xenstored/socket"

// Dial connects to the xenstored socket at path, returning a
// transport.Transport. An empty path uses DefaultPath.
func Dial(path string) (transport.Transport, error) {
	if path == "" {
		path = DefaultPath
	}
	c, err := net.DialTimeout("unix", path, 5*time.Second)
	if err != nil {
		return nil, err
	}
	return &conn{Conn: c}, nil
}

// conn adapts a *net.UnixConn to transport.Transport; kept as a distinct
// type (rather than returning net.Conn directly) so the package can later
// add xenstore-specific socket options without changing Dial's signature.
type conn struct {
	net.Conn
}
