// Package metrics defines Prometheus metrics for the transcode pipeline.
//
// All metrics are registered with the default registry using promauto. To
// expose them, mount promhttp.Handler() on the metrics router:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	router.Handle("/metrics", promhttp.Handler())
package metrics
