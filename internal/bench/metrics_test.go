package bench

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRun(t *testing.T) {
	res := Result{Primitive: "metrics-test", Threads: 3, RecordLen: 64, ArenaSize: 1 << 20, Elapsed: 2 * time.Second}
	beforeRuns := testutil.ToFloat64(runsTotal.WithLabelValues("metrics-test"))

	observeRun(res)

	if got := testutil.ToFloat64(runsTotal.WithLabelValues("metrics-test")); got != beforeRuns+1 {
		t.Errorf("runs = %v, want %v", got, beforeRuns+1)
	}
	if got := testutil.ToFloat64(throughputMBps.WithLabelValues("metrics-test", "3", "64")); got != res.Throughput() {
		t.Errorf("throughput = %v, want %v", got, res.Throughput())
	}
}

func TestObserveFailure_OnlyCountsMismatches(t *testing.T) {
	before := testutil.ToFloat64(tagMismatchesTotal.WithLabelValues("failure-test"))
	observeFailure("failure-test", context.Canceled)
	observeFailure("failure-test", &MismatchError{Primitive: "failure-test"})
	if got := testutil.ToFloat64(tagMismatchesTotal.WithLabelValues("failure-test")); got != before+1 {
		t.Errorf("mismatches = %v, want %v", got, before+1)
	}
}

func TestMetricsExposition(t *testing.T) {
	observeRun(Result{Primitive: "expo-test", Threads: 1, RecordLen: 8, ArenaSize: 1 << 16, Elapsed: time.Millisecond})

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, name := range []string{
		"tagbench_runs_total", "tagbench_payload_bytes_total", "tagbench_throughput_mb_per_second",
		"tagbench_run_duration_seconds_bucket",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("exposition missing %s", name)
		}
	}
}

func TestServeMetrics_ReportsListenError(t *testing.T) {
	errs := make(chan error, 1)
	srv := ServeMetrics("256.0.0.1:bad", func(err error) { errs <- err })
	defer srv.Close()
	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("onErr called with nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("listen error was not reported")
	}
}
