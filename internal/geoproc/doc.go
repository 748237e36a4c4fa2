// Package geoproc implements the resilient connector to the remote
// geoprocessing service (QGIS HTTP API or compatible).
//
// The connector is decomposed into three cooperating pieces:
//
//   - a transport client that owns the HTTP configuration (base URL,
//     per-request timeout) and performs single round trips
//   - a retry executor that wraps outbound requests in bounded-attempt
//     exponential backoff
//   - a dispatch surface with one typed entry point per algorithm family
//     plus a generic run-by-name entry point
//
// All dispatch methods normalize responses into the service's uniform
// {success, data, error} envelope and classify failures into
// TransportError (retryable) and ApplicationError (not retryable).
//
// The connector holds no mutable state across calls and is safe for
// concurrent use.
package geoproc
