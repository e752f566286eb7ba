package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

type WSClient struct {
	ChatID string
	Conn   *websocket.Conn
}

// RealtimeHub tracks websocket subscribers per chat.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.ChatID] == nil {
		h.clients[c.ChatID] = make(map[*WSClient]struct{})
	}
	h.clients[c.ChatID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.ChatID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.ChatID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *RealtimeHub) Broadcast(chatID string, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[chatID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
