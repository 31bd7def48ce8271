// Package metrics exposes controller and collector counters to Prometheus.
package metrics
