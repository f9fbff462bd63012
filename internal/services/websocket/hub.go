package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"facepipeline/internal/logger"
	"facepipeline/internal/services/pipeline"
)

// HubService fans per-cycle pipeline summaries out to connected monitor
// clients. It is observability only: the pipeline never blocks on it, and a
// slow or absent monitor just misses messages.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

func (h *HubService) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.logger.Info("Monitor connected. Total: %d", h.GetClientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()
			h.logger.Info("Monitor disconnected. Total: %d", h.GetClientCount())

		case message := <-h.broadcast:
			var failed []*websocket.Conn
			h.mutex.RLock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending monitor message: %v", err)
					failed = append(failed, client)
				}
			}
			h.mutex.RUnlock()

			if len(failed) > 0 {
				h.mutex.Lock()
				for _, client := range failed {
					delete(h.clients, client)
					client.Close()
				}
				h.mutex.Unlock()
			}
		}
	}
}

func (h *HubService) Register(client *websocket.Conn) {
	h.register <- client
}

func (h *HubService) Unregister(client *websocket.Conn) {
	h.unregister <- client
}

// Broadcast queues a message for delivery to all monitors. Messages are
// dropped when the hub backlog is full so callers never block.
func (h *HubService) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warning("Monitor broadcast dropped, hub backlog full")
	}
}

// CycleCompleted implements the pipeline notifier by broadcasting the cycle
// summary as JSON.
func (h *HubService) CycleCompleted(summary pipeline.CycleSummary) {
	message, err := json.Marshal(summary)
	if err != nil {
		h.logger.Error("Failed to serialize cycle summary: %v", err)
		return
	}
	h.Broadcast(message)
}

func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
