// Package metrics exposes fiber monitor service counters in the Prometheus
// text format.
//
//	fibermonitor_assessments_total{zone}          counter
//	fibermonitor_validation_failures_total{kind}  counter
//	fibermonitor_sessions                         gauge
//
// Families are built as client_model dto values and rendered with
// prometheus/common/expfmt; no client library registry is involved.
package metrics
