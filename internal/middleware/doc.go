// Package middleware provides HTTP middleware for the VOD server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Response compression (gzip, deflate)
//   - Prometheus request metrics with bounded path cardinality
//   - Configurable filtering for segment fetches and health checks
package middleware
