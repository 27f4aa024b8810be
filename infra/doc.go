// Package infra contains technical adapters such as the CSV sheet codec,
// the zerolog logger and the Prometheus exporters. These packages should
// depend only on the interfaces defined in the core packages.
package infra
