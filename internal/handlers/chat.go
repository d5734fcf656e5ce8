// internal/handlers/chat.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/agrifresh/agrifresh-backend/internal/auth"
	"github.com/agrifresh/agrifresh-backend/internal/chat"
	"github.com/agrifresh/agrifresh-backend/internal/config"
	"github.com/agrifresh/agrifresh-backend/internal/nlu"
	"github.com/agrifresh/agrifresh-backend/internal/repository"
	"github.com/agrifresh/agrifresh-backend/internal/utils"
)

type ChatHandler struct {
	classifier nlu.Classifier
	dispatcher *chat.Dispatcher
	history    repository.ChatRepository
	cfg        *config.Config
	upgrader   websocket.Upgrader
	log        *logrus.Entry
}

func NewChatHandler(classifier nlu.Classifier, dispatcher *chat.Dispatcher,
	history repository.ChatRepository, cfg *config.Config) *ChatHandler {

	return &ChatHandler{
		classifier: classifier,
		dispatcher: dispatcher,
		history:    history,
		cfg:        cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients send no custom headers on the WS
			// handshake; the token in the query string is the gate.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: logrus.WithField("component", "chat_handler"),
	}
}

// GET /chat/ws?token=<jwt>
// Upgrades to a WebSocket chat session. The scope comes from the verified
// token before the upgrade; an invalid token never reaches the socket.
func (h *ChatHandler) Connect(c *gin.Context) {
	scope, err := auth.ResolveScope(c.Query("token"))
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid or missing token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	session := chat.NewSession(
		conn,
		scope,
		h.classifier,
		h.dispatcher,
		h.history,
		h.cfg.Chat.MessagesPerSecond,
		h.cfg.Chat.MessageBurst,
		time.Duration(h.cfg.NLU.TimeoutSeconds)*time.Second,
	)

	// Run blocks for the life of the connection; gin already gives each
	// connection its own goroutine. The session gets a fresh context so
	// an abrupt disconnect cannot cancel an in-flight store mutation.
	session.Run(context.Background())
}

// GET /chat/history/:session_id
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}

	messages, err := h.history.ListBySession(c.Request.Context(), sessionID, h.cfg.Chat.HistoryLimit)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch chat history")
		return
	}

	// A transcript belongs to the user who produced it.
	for _, m := range messages {
		if m.UserID.String() != userID {
			utils.NotFoundResponse(c, "Chat session")
			return
		}
	}

	utils.SuccessResponse(c, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}
