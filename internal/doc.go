// Package internal contains the core implementation packages for
// assetforge.
//
// The packages are organized by functional domain:
//
//   - format: source format classification from file extensions
//   - tools: external processor discovery and per-format binding
//   - pipeline: per-file transform pipes and the pack/convert runner
//   - cache: content-addressed artifact store with exclusive-create
//     build slots
//   - service: the packing façade, asset groups, and reference/tag
//     rendering
//   - config: configuration loading, validation, and defaults
//   - watcher: file system monitoring with debouncing
//   - server: development HTTP server with live reload
//   - errors: typed error values shared across the pipeline
//   - logging: structured logging over slog
//   - metrics: Prometheus collectors for cache and build activity
//
// Data flows one way: the service resolves group members against the
// static roots, fingerprints the resolved list, and either reuses the
// cached artifact or drives the pipeline runner into a cache slot.
// The development server sits beside that flow, converting dialect
// sources on change and notifying browsers over a websocket.
package internal
