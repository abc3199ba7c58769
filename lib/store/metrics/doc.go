// Package metrics instruments storage engines with
// github.com/VictoriaMetrics/metrics.
//
// NewInstrumentedStorage wraps any store.IStorage and counts Store, Read and
// HasSaved calls by namespace and result (ok, absent, error) and records their
// latency in a histogram. The engine behaves exactly like the wrapped one,
// errors included; SetNamespace returns the wrapper so chaining keeps the
// instrumentation.
//
// Metrics are kept in a *metrics.Set so that several stores (and tests) do not
// share counters. Write them with Set.WritePrometheus.
package metrics
