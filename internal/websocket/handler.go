package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches one monitor connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, monitorID string) {
	client := &Client{Hub: hub, Conn: c, MonitorID: monitorID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // runs in the handler goroutine
}
