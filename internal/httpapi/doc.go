// Package httpapi serves the browser UI, the JSON API under /api and the
// Prometheus metrics endpoint.
package httpapi
