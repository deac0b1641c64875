package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/weiawesome/wes-io-live/relay-service/internal/domain"
	"github.com/weiawesome/wes-io-live/relay-service/internal/generator"
	"github.com/weiawesome/wes-io-live/relay-service/internal/room"
	pkglog "github.com/weiawesome/wes-io-live/relay-service/pkg/log"
	"github.com/weiawesome/wes-io-live/relay-service/pkg/pubsub"
)

const eventPublishTimeout = 2 * time.Second

type signalService struct {
	rooms  *room.Registry
	ids    generator.Generator
	events pubsub.Publisher
}

// NewSignalService creates a new SignalService instance. A nil publisher
// disables lifecycle events.
func NewSignalService(rooms *room.Registry, ids generator.Generator, events pubsub.Publisher) SignalService {
	if events == nil {
		events = pubsub.NopPublisher{}
	}
	return &signalService{
		rooms:  rooms,
		ids:    ids,
		events: events,
	}
}

func (s *signalService) HandleMessage(ctx context.Context, c domain.Conn, raw []byte) error {
	var base domain.BaseMessage
	if err := json.Unmarshal(raw, &base); err != nil {
		return fmt.Errorf("%w: invalid json: %v", ErrDropped, err)
	}

	if base.Type == domain.MsgTypeJoin {
		var msg domain.JoinMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("%w: invalid join: %v", ErrDropped, err)
		}
		return s.HandleJoin(ctx, c, &msg)
	}

	if !c.Session().IsBound() {
		return fmt.Errorf("%w: %s before join", ErrDropped, base.Type)
	}

	switch base.Type {
	case domain.MsgTypeOffer:
		var msg domain.OfferMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("%w: invalid offer: %v", ErrDropped, err)
		}
		return s.HandleOffer(ctx, c, &msg)

	case domain.MsgTypeAnswer:
		var msg domain.AnswerMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("%w: invalid answer: %v", ErrDropped, err)
		}
		return s.HandleAnswer(ctx, c, &msg)

	case domain.MsgTypeICECandidate:
		var msg domain.ICECandidateMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("%w: invalid ice-candidate: %v", ErrDropped, err)
		}
		return s.HandleICECandidate(ctx, c, &msg)

	default:
		return fmt.Errorf("%w: unknown type %q", ErrDropped, base.Type)
	}
}

func (s *signalService) HandleJoin(ctx context.Context, c domain.Conn, msg *domain.JoinMessage) error {
	sess := c.Session()
	if sess.IsBound() {
		return fmt.Errorf("%w: already joined %s", ErrDropped, sess.RoomID())
	}

	role, ok := domain.ParseRole(msg.Role)

	// No room: keep the role, stay unbound, say nothing.
	if msg.Room == "" {
		if ok {
			sess.Assign(role, msg.ViewerID)
		}
		return nil
	}
	if !ok {
		return fmt.Errorf("%w: invalid role %q", ErrDropped, msg.Role)
	}

	if role == domain.RoleBroadcaster {
		return s.joinBroadcaster(ctx, c, msg.Room)
	}
	return s.joinViewer(ctx, c, msg.Room, msg.ViewerID)
}

func (s *signalService) joinBroadcaster(ctx context.Context, c domain.Conn, roomID string) error {
	r, err := s.rooms.Acquire(roomID, true)
	if err != nil {
		return err
	}

	c.Session().Bind(domain.RoleBroadcaster, roomID, "")
	r.SetBroadcaster(c)
	count := r.ViewerCount()

	s.safeSend(ctx, c, &domain.JoinedMessage{
		Type: domain.MsgTypeJoined,
		Role: domain.RoleBroadcaster,
		Room: roomID,
	})
	s.safeSend(ctx, c, domain.NewViewerCountMessage(count))
	s.rooms.Release(r)

	l := pkglog.Ctx(ctx)
	l.Info().
		Str(pkglog.FieldClientID, c.ID()).
		Str(pkglog.FieldRoomID, roomID).
		Str(pkglog.FieldRole, string(domain.RoleBroadcaster)).
		Int(pkglog.FieldViewerCount, count).
		Msg("broadcaster joined")

	s.publish(ctx, pubsub.EventBroadcastStarted, roomID, &pubsub.BroadcastPayload{
		RoomID:      roomID,
		ViewerCount: count,
	})
	return nil
}

func (s *signalService) joinViewer(ctx context.Context, c domain.Conn, roomID, viewerID string) error {
	if viewerID == "" {
		id, err := s.ids.Generate()
		if err != nil {
			return err
		}
		viewerID = id
	}

	r, err := s.rooms.Acquire(roomID, true)
	if err != nil {
		return err
	}

	c.Session().Bind(domain.RoleViewer, roomID, viewerID)
	r.PutViewer(viewerID, c)
	count := r.ViewerCount()

	s.safeSend(ctx, c, &domain.JoinedMessage{
		Type:     domain.MsgTypeJoined,
		Role:     domain.RoleViewer,
		Room:     roomID,
		ViewerID: viewerID,
	})
	if b := r.Broadcaster(); b != nil {
		s.safeSend(ctx, b, &domain.ViewerReadyMessage{
			Type:     domain.MsgTypeViewerReady,
			ViewerID: viewerID,
		})
		s.safeSend(ctx, b, domain.NewViewerCountMessage(count))
	}
	s.rooms.Release(r)

	l := pkglog.Ctx(ctx)
	l.Info().
		Str(pkglog.FieldClientID, c.ID()).
		Str(pkglog.FieldRoomID, roomID).
		Str(pkglog.FieldRole, string(domain.RoleViewer)).
		Str(pkglog.FieldViewerID, viewerID).
		Int(pkglog.FieldViewerCount, count).
		Msg("viewer joined")

	s.publish(ctx, pubsub.EventViewerJoined, roomID, &pubsub.ViewerPayload{
		RoomID:      roomID,
		ViewerID:    viewerID,
		ViewerCount: count,
	})
	return nil
}

func (s *signalService) HandleOffer(ctx context.Context, c domain.Conn, msg *domain.OfferMessage) error {
	sess := c.Session()
	if sess.Role() != domain.RoleViewer {
		return fmt.Errorf("%w: offer from %q", ErrDropped, sess.Role())
	}

	r, err := s.acquireBound(sess)
	if err != nil {
		return err
	}
	defer s.rooms.Release(r)

	b := r.Broadcaster()
	if b == nil {
		s.safeSend(ctx, c, domain.NewErrorMessage(domain.MsgNoBroadcaster))
		return nil
	}
	s.safeSend(ctx, b, &domain.RelayedOfferMessage{
		Type:     domain.MsgTypeOffer,
		ViewerID: sess.ViewerID(),
		SDP:      msg.SDP,
	})
	return nil
}

func (s *signalService) HandleAnswer(ctx context.Context, c domain.Conn, msg *domain.AnswerMessage) error {
	sess := c.Session()
	if sess.Role() != domain.RoleBroadcaster {
		return fmt.Errorf("%w: answer from %q", ErrDropped, sess.Role())
	}

	r, err := s.acquireBound(sess)
	if err != nil {
		return err
	}
	defer s.rooms.Release(r)

	v, ok := r.Viewer(msg.ViewerID)
	if !ok {
		return fmt.Errorf("%w: unknown viewer %q", ErrDropped, msg.ViewerID)
	}
	s.safeSend(ctx, v, &domain.RelayedAnswerMessage{
		Type: domain.MsgTypeAnswer,
		SDP:  msg.SDP,
	})
	return nil
}

func (s *signalService) HandleICECandidate(ctx context.Context, c domain.Conn, msg *domain.ICECandidateMessage) error {
	sess := c.Session()

	r, err := s.acquireBound(sess)
	if err != nil {
		return err
	}
	defer s.rooms.Release(r)

	switch sess.Role() {
	case domain.RoleViewer:
		b := r.Broadcaster()
		if b == nil {
			return fmt.Errorf("%w: no broadcaster for candidate", ErrDropped)
		}
		s.safeSend(ctx, b, &domain.ICECandidateMessage{
			Type:      domain.MsgTypeICECandidate,
			ViewerID:  sess.ViewerID(),
			Candidate: msg.Candidate,
		})

	case domain.RoleBroadcaster:
		v, ok := r.Viewer(msg.ViewerID)
		if !ok {
			return fmt.Errorf("%w: unknown viewer %q", ErrDropped, msg.ViewerID)
		}
		s.safeSend(ctx, v, &domain.ICECandidateMessage{
			Type:      domain.MsgTypeICECandidate,
			Candidate: msg.Candidate,
		})

	default:
		return fmt.Errorf("%w: ice-candidate from %q", ErrDropped, sess.Role())
	}
	return nil
}

func (s *signalService) HandleDisconnect(ctx context.Context, c domain.Conn) error {
	sess := c.Session()
	if !sess.MarkClosed() || !sess.IsBound() {
		return nil
	}

	r, err := s.rooms.Acquire(sess.RoomID(), false)
	if errors.Is(err, room.ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	roomID := r.ID()
	l := pkglog.Ctx(ctx).With().
		Str(pkglog.FieldClientID, c.ID()).
		Str(pkglog.FieldRoomID, roomID).
		Logger()

	switch sess.Role() {
	case domain.RoleBroadcaster:
		// Cleared even if another broadcaster has since taken the room.
		r.ClearBroadcaster()
		for _, v := range r.Viewers() {
			s.safeSend(ctx, v, &domain.EndMessage{Type: domain.MsgTypeEnd})
		}
		count := r.ViewerCount()
		removed := s.rooms.Release(r)

		l.Info().Int(pkglog.FieldViewerCount, count).Bool("room_removed", removed).Msg("broadcaster left")
		s.publish(ctx, pubsub.EventBroadcastStopped, roomID, &pubsub.BroadcastPayload{
			RoomID:      roomID,
			ViewerCount: count,
			Reason:      pubsub.ReasonDisconnect,
		})

	case domain.RoleViewer:
		viewerID := sess.ViewerID()
		r.RemoveViewer(viewerID)
		count := r.ViewerCount()
		if b := r.Broadcaster(); b != nil {
			s.safeSend(ctx, b, &domain.ViewerLeftMessage{
				Type:     domain.MsgTypeViewerLeft,
				ViewerID: viewerID,
			})
			s.safeSend(ctx, b, domain.NewViewerCountMessage(count))
		}
		removed := s.rooms.Release(r)

		l.Info().Str(pkglog.FieldViewerID, viewerID).Int(pkglog.FieldViewerCount, count).Bool("room_removed", removed).Msg("viewer left")
		s.publish(ctx, pubsub.EventViewerLeft, roomID, &pubsub.ViewerPayload{
			RoomID:      roomID,
			ViewerID:    viewerID,
			ViewerCount: count,
		})

	default:
		s.rooms.Release(r)
	}
	return nil
}

// acquireBound locks the room the session is bound to.
func (s *signalService) acquireBound(sess *domain.Session) (*room.Room, error) {
	r, err := s.rooms.Acquire(sess.RoomID(), false)
	if errors.Is(err, room.ErrRoomNotFound) {
		return nil, fmt.Errorf("%w: room %q gone", ErrDropped, sess.RoomID())
	}
	return r, err
}

// safeSend delivers to open peers only and swallows failures.
func (s *signalService) safeSend(ctx context.Context, p domain.Peer, message interface{}) {
	if p == nil || !p.IsOpen() {
		return
	}
	if err := p.SendMessage(message); err != nil {
		l := pkglog.Ctx(ctx)
		l.Debug().Err(err).Str(pkglog.FieldClientID, p.ID()).Msg("send failed")
	}
}

func (s *signalService) publish(ctx context.Context, eventType, roomID string, payload interface{}) {
	l := pkglog.Ctx(ctx)

	ev, err := pubsub.NewEvent(eventType, roomID, payload)
	if err != nil {
		l.Warn().Err(err).Str("event", eventType).Msg("failed to build event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, eventPublishTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, ev); err != nil {
		l.Warn().Err(err).Str("event", eventType).Str(pkglog.FieldRoomID, roomID).Msg("failed to publish event")
	}
}
