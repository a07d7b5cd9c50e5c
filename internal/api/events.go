package api

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// events streams decoded contract logs of one DAO over a WebSocket
func (s *Server) events(c *gin.Context) {
	dao, ok := s.dao(c)
	if !ok {
		return
	}

	var params usecase.WatchEventsParams
	if raw := c.Query("from"); raw != "" {
		from, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			s.fail(c, domain.ValidationError{Field: "from", Reason: "must be a block number"})
			return
		}
		params.FromBlock = from
	}
	if raw := c.Query("kinds"); raw != "" {
		for _, kind := range strings.Split(raw, ",") {
			params.Kinds = append(params.Kinds, models.EventKind(strings.TrimSpace(kind)))
		}
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error
		s.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	stream := &eventStream{conn: conn, send: make(chan []byte, sendBuffer)}
	go stream.readPump(cancel)
	go func() {
		defer cancel()
		err := s.svc.WatchEvents.Run(ctx, dao, params, stream.push(ctx))
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("event stream ended", "dao", dao.ID(), "error", err)
		}
	}()
	stream.writePump(ctx)
}

type eventStream struct {
	conn *websocket.Conn
	send chan []byte
}

// push encodes an event and queues it for the writer
func (s *eventStream) push(ctx context.Context) func(*models.DAOEvent) error {
	return func(ev *models.DAOEvent) error {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		select {
		case s.send <- data:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// readPump discards client messages and cancels the stream once the peer is gone
func (s *eventStream) readPump(cancel context.CancelFunc) {
	defer cancel()
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *eventStream) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
