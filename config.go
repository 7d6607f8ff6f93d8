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
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ls-2018/xenstore/transport"
)

// Config configures a Client, mirroring the teacher's plain-struct
// clientConfig/GlobalFlags pattern (etcdctl/ctlv3/command/global.go) rather
// than functional options: every field has an obvious zero value.
type Config struct {
	// Transport is the open byte-stream connection to the xenstore
	// backend. Required.
	Transport transport.Transport

	// Logger receives Dispatcher and wait diagnostics. Defaults to a
	// no-op logger, matching the teacher's convention of never forcing
	// output on an embedder.
	Logger *zap.Logger

	// Clock is used for with_xst's retry backoff. Defaults to the real
	// wall clock; tests inject clockwork.NewFakeClock().
	Clock clockwork.Clock

	// RPCLimiter, if non-nil, rate-limits outgoing rpc calls. There is no
	// default: by default the client does not throttle itself.
	RPCLimiter *rate.Limiter

	// Metrics, if non-nil, receives request/watch instrumentation.
	Metrics *Metrics

	// Tracer provides a span for each rpc call. Defaults
	// to the global no-op tracer.
	Tracer trace.Tracer
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer("github.com/ls-2018/xenstore")
	}
	return c
}
