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

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors a Client reports against, when
// configured via Config.Metrics. Construct with NewMetrics and register
// with your own registry; the Client never registers itself.
type Metrics struct {
	pendingRequests  prometheus.Gauge
	watchEvents      prometheus.Counter
	dispatcherErrors prometheus.Counter
	rpcLatency       prometheus.Histogram
}

// NewMetrics builds a Metrics bundle under the given namespace and
// registers its collectors with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		pendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "xenstore_pending_requests",
			Help:      "Number of rpc calls currently awaiting a reply.",
		}),
		watchEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xenstore_watch_events_total",
			Help:      "Number of WatchEvent packets routed to a watcher.",
		}),
		dispatcherErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xenstore_dispatcher_errors_total",
			Help:      "Number of times the Dispatcher has terminated with an error.",
		}),
		rpcLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "xenstore_rpc_latency_seconds",
			Help:      "Latency of individual rpc round trips.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.pendingRequests, m.watchEvents, m.dispatcherErrors, m.rpcLatency)
	return m
}
