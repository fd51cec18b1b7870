// Package metrics documents the Prometheus metrics exposed by the
// Springboard client. The collectors themselves are defined next to the code
// they observe (pkg/client) and registered automatically via promauto; this
// package only pins the registry and serves as the reference for dashboards.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - springboard_requests_total{path, status} (Counter): HTTP attempts by
//     collection path and status ("network_error" when no response arrived)
//   - springboard_request_duration_seconds{path} (Histogram): page fetch
//     duration including retries
//   - springboard_errors_total{class} (Counter): failed fetches by class
//     (client, server, network, remote)
//
// Retry Metrics (pkg/client):
//   - springboard_retries_total{error_class} (Counter): retry attempts
//   - springboard_retry_backoff_seconds{error_class} (Histogram): backoff
//     slept before each retry
//   - springboard_retry_exhausted_total{error_class} (Counter): fetches that
//     consumed every attempt
//
// Example Prometheus Queries:
//
//   # Fetch Error Rate
//   rate(springboard_errors_total[5m])
//
//   # P95 Fetch Latency
//   histogram_quantile(0.95, rate(springboard_request_duration_seconds_bucket[5m]))
//
//   # Retry Pressure by Class
//   sum by (error_class) (rate(springboard_retries_total[5m]))
