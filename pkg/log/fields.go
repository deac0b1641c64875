package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Signaling
	FieldClientID    = "client_id"
	FieldRoomID      = "room_id"
	FieldViewerID    = "viewer_id"
	FieldRole        = "role"
	FieldViewerCount = "viewer_count"

	// Service
	FieldService = "service"
)
