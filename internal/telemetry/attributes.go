// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Store attributes
	StoreOpKey      = "store.op"
	StorePathKey    = "store.path"
	StoreRecordsKey = "store.records"
	StoreBytesKey   = "store.bytes"
	StoreFoundKey   = "store.found"
	VideoIDKey      = "video.id"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// StoreAttributes creates span attributes for a store operation.
func StoreAttributes(op, path string, records int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(StoreOpKey, op),
		attribute.String(StorePathKey, path),
		attribute.Int(StoreRecordsKey, records),
	}
}

// VideoAttributes creates span attributes describing an id lookup.
func VideoAttributes(id int, found bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(VideoIDKey, id),
		attribute.Bool(StoreFoundKey, found),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
