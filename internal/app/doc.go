// Package app wires the inflammation HTTP service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Initialize OpenTelemetry providers and business metrics
//	2. Build the data source registry, with the dataset cache when enabled
//	3. Confine request paths to the configured data root
//	4. Create the analysis and health services
//	5. Build the chi router and the HTTP server
//
// Run blocks until SIGINT or SIGTERM, then shuts the server, the cache and
// the telemetry providers down within Server.ShutdownTimeout.
package app
