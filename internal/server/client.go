package server

import (
	"crawler-server/internal/engine"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService
type Client struct {
	Game    *engine.GameService
	Conn    *websocket.Conn
	Send    chan api.ServerResponse
	UserID  string
	updates chan api.ServerResponse
	done    chan struct{} // закрывается при выходе writePump
	log     *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn, userID string) *Client {
	return &Client{
		Game:   game,
		Conn:   conn,
		Send:   make(chan api.ServerResponse, 256),
		UserID: userID,
		done:   make(chan struct{}),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "ws_client",
			"user_id":   userID,
		}),
	}
}

// handleWS обрабатывает подключение по WebSocket. Пользователь определяется
// токеном из query (?token=), браузерный WebSocket не умеет слать заголовки.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := s.Auth.Verify(r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Engine, conn, userID)
	client.subscribe()

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

// subscribe подписывает клиента на обновления сессии и запрашивает первую отрисовку.
func (c *Client) subscribe() {
	c.updates = c.Game.Hub.Register(c.UserID)

	// Пересылка обновлений из Hub в writePump
	go func() {
		for msg := range c.updates {
			select {
			case c.Send <- msg:
			case <-c.done:
			}
		}
		close(c.Send)
	}()

	if err := c.Game.ProcessCommand(c.UserID, api.ClientCommand{Action: "INIT"}); err != nil {
		c.log.WithError(err).Warn("Init failed")
	}
	c.log.Info("Client connected")
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Game.Hub.Unregister(c.UserID, c.updates)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		// Сессия остается жить: при повторном подключении игра продолжится
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			break
		}
		if err := c.Game.ProcessCommand(c.UserID, cmd); err != nil {
			c.log.WithError(err).WithField("action", cmd.Action).Warn("Command dropped")
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
