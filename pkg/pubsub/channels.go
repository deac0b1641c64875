package pubsub

import "fmt"

// ChannelRoomEvents is the Redis channel carrying one room's events.
const ChannelRoomEvents = "relay:room:%s:events"

// Event types published by the relay.
const (
	EventBroadcastStarted = "broadcast_started"
	EventBroadcastStopped = "broadcast_stopped"
	EventViewerJoined     = "viewer_joined"
	EventViewerLeft       = "viewer_left"
)

// Stop reasons
const (
	ReasonDisconnect = "disconnect"
)

// RoomEventsChannel returns the channel name for a room's events.
func RoomEventsChannel(roomID string) string {
	return fmt.Sprintf(ChannelRoomEvents, roomID)
}

// BroadcastPayload accompanies broadcast_started and broadcast_stopped.
type BroadcastPayload struct {
	RoomID      string `json:"room_id"`
	ViewerCount int    `json:"viewer_count"`
	Reason      string `json:"reason,omitempty"`
}

// ViewerPayload accompanies viewer_joined and viewer_left.
type ViewerPayload struct {
	RoomID      string `json:"room_id"`
	ViewerID    string `json:"viewer_id"`
	ViewerCount int    `json:"viewer_count"`
}
