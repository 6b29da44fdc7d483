package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// subscribe registers a notification channel under a fresh client id.
func (s *Server) subscribe() (string, chan string) {
	id := uuid.NewString()
	ch := make(chan string, 16)
	s.subsMu.Lock()
	s.subs[id] = ch
	s.subsMu.Unlock()
	return id, ch
}

func (s *Server) unsubscribe(id string) {
	s.subsMu.Lock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
	s.subsMu.Unlock()
}

// notifyAll pushes an event name to every subscriber. Full channels are
// skipped rather than blocking a reload.
func (s *Server) notifyAll(event string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- event:
		default:
			log.Printf("ws: dropped %q for slow client %s", event, id)
		}
	}
}

// handleWebSocket upgrades the connection and streams reload notifications
// to the client until it disconnects.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, events := s.subscribe()
	defer s.unsubscribe(id)

	// Read pump — detect client disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			msg := struct {
				Event string `json:"event"`
				File  string `json:"file"`
			}{Event: event, File: s.path}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("websocket write failed: %v", err)
				return
			}
		}
	}
}
