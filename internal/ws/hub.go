package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
)

// ConnectionObserver получает уведомления о подключениях (метрики).
type ConnectionObserver interface {
	WSClientConnected()
	WSClientDisconnected()
}

// Hub рассылает события всем подключённым клиентам.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	observer   ConnectionObserver
	log        *logrus.Entry
}

var errHubStopped = errors.New("ws: хаб остановлен")

// Message — кадр, отправляемый клиенту: "type" содержит имя события,
// "data" — полезную нагрузку.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NewHub создаёт новый хаб. observer может быть nil.
func NewHub(observer ConnectionObserver) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
		done:       make(chan struct{}),
		observer:   observer,
		log:        logger.Component("ws_hub"),
	}
}

// Run запускает главный цикл хаба и закрывает всех клиентов при отмене ctx.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет клиента. Возвращает false, если хаб уже остановлен.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish сериализует событие и ставит его в очередь рассылки.
func (h *Hub) Publish(event string, data any) error {
	raw, err := json.Marshal(Message{Type: event, Data: data})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case <-h.done:
		return errHubStopped
	default:
	}

	select {
	case h.broadcast <- raw:
		return nil
	case <-h.done:
		return errHubStopped
	}
}

// ClientCount возвращает число подключённых клиентов.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	if h.observer != nil {
		h.observer.WSClientConnected()
	}
	h.log.WithField("client_id", client.id).Debug("WebSocket клиент подключён")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()

	if ok {
		if h.observer != nil {
			h.observer.WSClientDisconnected()
		}
		h.log.WithField("client_id", client.id).Debug("WebSocket клиент отключён")
	}
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	var slow []*Client
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	// Медленные клиенты отключаются, чтобы не блокировать рассылку.
	for _, c := range slow {
		h.log.WithField("client_id", c.id).Warn("Буфер клиента переполнен, соединение закрыто")
		h.removeClient(c)
		c.closeConn()
	}
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.removeClient(c)
	}
}
