package service

import (
	"context"
	"errors"

	"github.com/weiawesome/wes-io-live/relay-service/internal/domain"
)

// ErrDropped marks a message the router ignored without replying:
// malformed input, a protocol violation or an unknown relay target.
var ErrDropped = errors.New("message dropped")

// SignalService routes signaling messages between peers in a room.
type SignalService interface {
	// HandleMessage decodes one raw client message and dispatches it.
	HandleMessage(ctx context.Context, conn domain.Conn, raw []byte) error

	// HandleJoin binds a connection to a room as broadcaster or viewer.
	HandleJoin(ctx context.Context, conn domain.Conn, msg *domain.JoinMessage) error

	// HandleOffer relays a viewer offer to the broadcaster.
	HandleOffer(ctx context.Context, conn domain.Conn, msg *domain.OfferMessage) error

	// HandleAnswer relays a broadcaster answer to one viewer.
	HandleAnswer(ctx context.Context, conn domain.Conn, msg *domain.AnswerMessage) error

	// HandleICECandidate relays a candidate in either direction.
	HandleICECandidate(ctx context.Context, conn domain.Conn, msg *domain.ICECandidateMessage) error

	// HandleDisconnect tears down the connection's room state. It is
	// effective once per connection.
	HandleDisconnect(ctx context.Context, conn domain.Conn) error
}
