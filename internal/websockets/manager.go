package websockets

import (
	"sync"

	"herdview/config"
	"herdview/internal/database"
	"herdview/internal/events"
	"herdview/internal/logger"

	"github.com/gofiber/websocket/v2"
)

// NoticeChannel is the bus channel carrying popup notices for connected
// clients.
const NoticeChannel = "notices"

// Manager tracks open sockets per user and forwards notice events to
// them.
type Manager struct {
	mu       sync.RWMutex
	conns    map[int][]*websocket.Conn
	eventBus *events.EventBus
	log      logger.Logger
}

func New(db database.DB, eventBus *events.EventBus, config config.Config) (*Manager, error) {
	m := &Manager{
		conns:    make(map[int][]*websocket.Conn),
		eventBus: eventBus,
		log:      logger.New("websockets"),
	}

	go func() {
		if err := eventBus.Subscribe(NoticeChannel, m.deliver); err != nil {
			m.log.Er("notice subscription ended", err)
		}
	}()

	return m, nil
}

// HandleWebSocket owns one connection for its lifetime. The user id is
// placed in locals by the session middleware before the upgrade.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals("userID").(int)
	if !ok || userID == 0 {
		_ = c.Close()
		return
	}

	m.register(userID, c)
	defer m.unregister(userID, c)

	// Drain client frames; the socket is server-push only.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) register(userID int, c *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[userID] = append(m.conns[userID], c)
}

func (m *Manager) unregister(userID int, c *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns := m.conns[userID]
	for i, conn := range conns {
		if conn == c {
			m.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(m.conns[userID]) == 0 {
		delete(m.conns, userID)
	}
	_ = c.Close()
}

func (m *Manager) deliver(event events.Event) {
	m.mu.RLock()
	conns := append([]*websocket.Conn(nil), m.conns[event.UserID]...)
	m.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			m.log.Function("deliver").
				Er("failed to write event", err, "userID", event.UserID)
		}
	}
}
