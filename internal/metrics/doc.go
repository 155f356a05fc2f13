// Package metrics provides observability hooks for page generation and serving.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks:
//
//	type Scheduler struct {
//	    recorder metrics.Recorder
//	}
//
// When the admin listener is enabled, PrometheusRecorder registers its collectors
// on a dedicated registry and HTTPHandler exposes them on /metrics.
package metrics
