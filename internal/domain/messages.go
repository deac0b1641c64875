package domain

import "encoding/json"

// WebSocket message types from client.
const (
	MsgTypeJoin         = "join"
	MsgTypeOffer        = "offer"
	MsgTypeAnswer       = "answer"
	MsgTypeICECandidate = "ice-candidate"
)

// WebSocket message types to client.
const (
	MsgTypeJoined      = "joined"
	MsgTypeViewerCount = "viewerCount"
	MsgTypeViewerReady = "viewer-ready"
	MsgTypeViewerLeft  = "viewer-left"
	MsgTypeEnd         = "end"
	MsgTypeError       = "error"
)

// MsgNoBroadcaster is the only error text ever sent to a client.
const MsgNoBroadcaster = "No broadcaster in this room."

// BaseMessage is the base structure for all WebSocket messages.
type BaseMessage struct {
	Type string `json:"type"`
}

// Client -> Server messages

// JoinMessage binds a connection to a room under a role.
type JoinMessage struct {
	Type     string `json:"type"`
	Role     string `json:"role"`
	Room     string `json:"room"`
	ViewerID string `json:"viewerId,omitempty"`
}

// OfferMessage is sent by a viewer; the SDP is opaque.
type OfferMessage struct {
	Type string          `json:"type"`
	SDP  json.RawMessage `json:"sdp,omitempty"`
}

// AnswerMessage is sent by the broadcaster to one viewer.
type AnswerMessage struct {
	Type     string          `json:"type"`
	ViewerID string          `json:"viewerId"`
	SDP      json.RawMessage `json:"sdp,omitempty"`
}

// ICECandidateMessage travels both ways. ViewerID is the target when sent
// by the broadcaster and the source when relayed to the broadcaster.
type ICECandidateMessage struct {
	Type      string          `json:"type"`
	ViewerID  string          `json:"viewerId,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

// Server -> Client messages

// JoinedMessage confirms a join. ViewerID is set for viewers only.
type JoinedMessage struct {
	Type     string `json:"type"`
	Role     Role   `json:"role"`
	Room     string `json:"room"`
	ViewerID string `json:"viewerId,omitempty"`
}

// ViewerCountMessage carries the size of the room's viewer map.
type ViewerCountMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ViewerReadyMessage tells the broadcaster a viewer joined.
type ViewerReadyMessage struct {
	Type     string `json:"type"`
	ViewerID string `json:"viewerId"`
}

// ViewerLeftMessage tells the broadcaster a viewer disconnected.
type ViewerLeftMessage struct {
	Type     string `json:"type"`
	ViewerID string `json:"viewerId"`
}

// RelayedOfferMessage is a viewer offer forwarded to the broadcaster.
type RelayedOfferMessage struct {
	Type     string          `json:"type"`
	ViewerID string          `json:"viewerId"`
	SDP      json.RawMessage `json:"sdp,omitempty"`
}

// RelayedAnswerMessage is a broadcaster answer forwarded to a viewer.
type RelayedAnswerMessage struct {
	Type string          `json:"type"`
	SDP  json.RawMessage `json:"sdp,omitempty"`
}

// EndMessage tells viewers the broadcaster went away.
type EndMessage struct {
	Type string `json:"type"`
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorMessage creates a new error message.
func NewErrorMessage(message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Message: message,
	}
}

// NewViewerCountMessage creates a viewerCount message.
func NewViewerCountMessage(count int) *ViewerCountMessage {
	return &ViewerCountMessage{
		Type:  MsgTypeViewerCount,
		Count: count,
	}
}
