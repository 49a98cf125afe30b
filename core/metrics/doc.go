// Package metrics exposes Prometheus collectors for preview sessions.
//
// Collectors are fed through preview.Hooks, so the preview package itself stays
// free of any metrics dependency. The registry is served on /metrics through
// Fiber's net/http adaptor.
package metrics
