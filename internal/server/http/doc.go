// Package httpserver exposes the broker over HTTP: kv-lines publish
// endpoints, SSE subscriptions, image upload and retrieval, the operator
// dashboard, and health checks.
package httpserver
