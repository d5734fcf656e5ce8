// internal/chat/session.go
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/agrifresh/agrifresh-backend/internal/auth"
	"github.com/agrifresh/agrifresh-backend/internal/models"
	"github.com/agrifresh/agrifresh-backend/internal/nlu"
	"github.com/agrifresh/agrifresh-backend/internal/repository"
)

type inboundMessage struct {
	Message string `json:"message"`
}

type outboundMessage struct {
	Message string `json:"message"`
}

// Session is one connected chat user. Messages are handled serially by
// the read loop, so a user's transcript keeps request/reply order; other
// sessions run on their own goroutines and only share the store.
type Session struct {
	ID         uuid.UUID
	conn       *websocket.Conn
	scope      auth.Scope
	classifier nlu.Classifier
	dispatcher *Dispatcher
	history    repository.ChatRepository
	limiter    *rate.Limiter
	nluTimeout time.Duration
	log        *logrus.Entry
}

func NewSession(conn *websocket.Conn, scope auth.Scope, classifier nlu.Classifier,
	dispatcher *Dispatcher, history repository.ChatRepository,
	messagesPerSecond float64, burst int, nluTimeout time.Duration) *Session {

	id := uuid.New()
	return &Session{
		ID:         id,
		conn:       conn,
		scope:      scope,
		classifier: classifier,
		dispatcher: dispatcher,
		history:    history,
		limiter:    rate.NewLimiter(rate.Limit(messagesPerSecond), burst),
		nluTimeout: nluTimeout,
		log: logrus.WithFields(logrus.Fields{
			"component":  "chat_session",
			"session_id": id,
			"user_id":    scope.UserID,
		}),
	}
}

// Run reads until the peer disconnects. Every inbound message produces
// exactly one reply; no failure below this loop terminates the session.
func (s *Session) Run(ctx context.Context) {
	defer s.conn.Close()
	s.log.Info("chat session connected")

	for {
		var in inboundMessage
		if err := s.conn.ReadJSON(&in); err != nil {
			s.log.WithError(err).Info("chat session disconnected")
			return
		}

		reply := s.HandleMessage(ctx, in.Message)
		if err := s.conn.WriteJSON(outboundMessage{Message: reply}); err != nil {
			s.log.WithError(err).Warn("failed to write reply")
			return
		}
	}
}

// HandleMessage classifies one raw message and dispatches the result.
// The classifier call is bounded by the configured timeout; on any
// upstream failure the user gets the generic fallback reply.
func (s *Session) HandleMessage(ctx context.Context, raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return replyFallback
	}
	if !s.limiter.Allow() {
		return "You're sending messages too quickly, give me a moment."
	}

	s.saveMessage(ctx, text, false)

	classifyCtx, cancel := context.WithTimeout(ctx, s.nluTimeout)
	classification, err := s.classifier.Classify(classifyCtx, text, s.scope.UserID.String())
	cancel()

	var reply string
	if err != nil {
		s.log.WithError(err).Warn("intent classification failed")
		reply = replyFallback
	} else {
		reply = s.dispatcher.Dispatch(ctx, s.scope, classification)
	}

	s.saveMessage(ctx, reply, true)
	return reply
}

// Transcript persistence is best effort; a history write failure must not
// cost the user their reply.
func (s *Session) saveMessage(ctx context.Context, text string, fromBot bool) {
	if s.history == nil {
		return
	}
	msg := &models.ChatMessage{
		SessionID: s.ID,
		UserID:    s.scope.UserID,
		Message:   text,
		FromBot:   fromBot,
	}
	if err := s.history.Save(ctx, msg); err != nil {
		s.log.WithError(err).Warn("failed to save chat message")
	}
}
