// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldVideoID   = "video_id"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// HTTP fields
	FieldMethod   = "method"
	FieldRoute    = "route"
	FieldStatus   = "status"
	FieldBytes    = "bytes"
	FieldRemote   = "remote_addr"
	FieldDuration = "duration"

	// Store fields
	FieldPath    = "path"
	FieldRecords = "records"
	FieldOp      = "op"
)
