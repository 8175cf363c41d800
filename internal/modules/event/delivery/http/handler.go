package handler

import (
	"net/http"

	event "anoa.com/kulupportal/internal/modules/event/service"
	"anoa.com/kulupportal/pkg/logger"
	"anoa.com/kulupportal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type EventHandler struct {
	publisher event.Publisher
	upgrader  websocket.Upgrader
}

// NewEventHandler accepts websocket upgrades from the given origins. An
// empty list accepts any origin.
func NewEventHandler(publisher event.Publisher, allowedOrigins []string) *EventHandler {
	return &EventHandler{
		publisher: publisher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				for _, o := range allowedOrigins {
					if o == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// Stream forwards the caller's revalidation events over a websocket.
func (h *EventHandler) Stream(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if !h.publisher.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "events_unavailable", "kind": "internal"})
		return
	}

	ctx := c.Request.Context()
	pubsub, err := h.publisher.Subscribe(ctx, userID)
	if err != nil {
		logger.Error(ctx, "subscribe to events failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "events_unavailable", "kind": "internal"})
		return
	}
	defer pubsub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(ctx, "websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ch := pubsub.Channel()
	clientClosed := make(chan struct{})

	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				logger.Warn(ctx, "websocket write failed", zap.Error(err))
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
