// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
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

package bench

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metrics. Label cardinality is bounded by the sweep itself
// (primitives x threads x record lengths).
var (
	runsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tagbench_runs_total",
		Help: "Completed benchmark configurations",
	}, []string{"primitive"})
	payloadBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tagbench_payload_bytes_total",
		Help: "Payload bytes tagged and verified (both passes, tags excluded)",
	}, []string{"primitive"})
	throughputMBps = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tagbench_throughput_mb_per_second",
		Help: "Aggregate payload throughput of the last run of a configuration",
	}, []string{"primitive", "threads", "record_len"})
	runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tagbench_run_duration_seconds",
		Help:    "Wall time from barrier release to the last worker joined",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"primitive"})
	tagMismatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tagbench_tag_mismatches_total",
		Help: "Runs aborted by a tag verification failure",
	}, []string{"primitive"})
)

func init() {
	prometheus.MustRegister(runsTotal, payloadBytesTotal, throughputMBps, runDuration, tagMismatchesTotal)
}

func observeRun(r Result) {
	runsTotal.WithLabelValues(r.Primitive).Inc()
	payloadBytesTotal.WithLabelValues(r.Primitive).Add(float64(r.PayloadBytes()))
	throughputMBps.WithLabelValues(r.Primitive, strconv.Itoa(r.Threads), strconv.Itoa(r.RecordLen)).Set(r.Throughput())
	runDuration.WithLabelValues(r.Primitive).Observe(r.Seconds())
}

func observeFailure(primitive string, err error) {
	if errors.Is(err, ErrTagMismatch) {
		tagMismatchesTotal.WithLabelValues(primitive).Inc()
	}
}

// ServeMetrics exposes /metrics on addr in a background goroutine. Listen
// errors are passed to onErr, if set.
func ServeMetrics(addr string, onErr func(error)) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && onErr != nil {
			onErr(err)
		}
	}()
	return server
}
