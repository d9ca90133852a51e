package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes exposes the websocket feed of navigation events. A client
// subscribes to exactly one session; writes flow hub → socket only, incoming
// frames are drained and discarded so close handshakes still work.
func RegisterRoutes(r fiber.Router, hub *Hub) {
	r.Get("/ws/:sessionID", websocket.New(func(c *websocket.Conn) {
		client := hub.Register(c.Params("sessionID"))

		done := make(chan struct{})
		go func() {
			defer close(done)
			for event := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, event); err != nil {
					return
				}
			}
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}

		// Unregister closes the send channel, which also stops the writer.
		hub.Unregister(client)
		<-done
	}))
}
