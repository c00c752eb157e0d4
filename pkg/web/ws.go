// Package web - websocket stream of moderation audit events.
package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/audit"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// eventStreamHandler upgrades the connection and relays the guild's audit
// events until the client disconnects.
func eventStreamHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		guildID := c.Param("guildId")

		pub := audit.Get()
		if pub == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Unavailable",
				"message": "El flujo de eventos no está disponible.",
			})
			return
		}

		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error(fmt.Sprintf("Error actualizando a websocket: %v", err), "WebSocket")
			return
		}

		events, cancel := pub.Broadcaster().Subscribe()
		logger.Debug(fmt.Sprintf("🔌 Cliente websocket conectado para servidor %s", guildID), "WebSocket")

		// Reader drains control frames and signals disconnect
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		go func() {
			defer func() {
				cancel()
				conn.Close()
				logger.Debug(fmt.Sprintf("🔌 Cliente websocket desconectado de servidor %s", guildID), "WebSocket")
			}()

			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()

			for {
				select {
				case ev, ok := <-events:
					if !ok {
						return
					}
					if ev.GuildID != guildID {
						continue
					}
					data, err := json.Marshal(ev)
					if err != nil {
						continue
					}
					conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()
	}
}
