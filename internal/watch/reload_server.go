package watch

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/conduit-lang/eventc/internal/compiler/errors"
)

// Message types broadcast to preview clients
const (
	MessageBuilding = "building"
	MessageSuccess  = "success"
	MessageError    = "error"
	MessageReload   = "reload"
)

// ReloadServer keeps the WebSocket connections of preview clients and
// broadcasts generation progress to them
type ReloadServer struct {
	connections map[*websocket.Conn]bool
	broadcast   chan *ReloadMessage
	register    chan *websocket.Conn
	unregister  chan *websocket.Conn
	done        chan struct{}
	closeOnce   sync.Once
	mutex       sync.RWMutex
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// ReloadMessage is sent to clients as JSON
type ReloadMessage struct {
	Type      string       `json:"type"`
	Scope     string       `json:"scope,omitempty"` // "scenes" or "assets"
	Timestamp int64        `json:"timestamp"`
	Files     []string     `json:"files,omitempty"`
	Scenes    []string     `json:"scenes,omitempty"`
	Hash      string       `json:"hash,omitempty"` // hash of the generated code
	Duration  float64      `json:"duration,omitempty"`
	Errors    []*ErrorInfo `json:"errors,omitempty"`
}

// ErrorInfo is the client view of a diagnostic
type ErrorInfo struct {
	Message     string `json:"message"`
	Code        string `json:"code,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Scene       string `json:"scene,omitempty"`
	Event       string `json:"event,omitempty"`
	Instruction string `json:"instruction,omitempty"`
	Parameter   *int   `json:"parameter,omitempty"`
}

// NewErrorInfo converts a compiler diagnostic
func NewErrorInfo(err *errors.CompilerError) *ErrorInfo {
	info := &ErrorInfo{
		Message:     err.Message,
		Code:        string(err.Code),
		Severity:    string(err.Severity),
		Scene:       err.Location.Scene,
		Event:       err.Location.Event,
		Instruction: err.Location.Instruction,
	}
	if err.Location.Parameter != errors.NoParameter {
		param := err.Location.Parameter
		info.Parameter = &param
	}
	return info
}

// NewReloadServer creates a reload server and starts its hub
func NewReloadServer(logger *zap.Logger) *ReloadServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	rs := &ReloadServer{
		connections: make(map[*websocket.Conn]bool),
		broadcast:   make(chan *ReloadMessage, 256),
		register:    make(chan *websocket.Conn),
		unregister:  make(chan *websocket.Conn),
		done:        make(chan struct{}),
		logger:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:     isLocalOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	go rs.run()

	return rs
}

// isLocalOrigin accepts same-origin requests and pages served from localhost
func isLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, prefix := range []string{"http://localhost", "https://localhost", "http://127.0.0.1", "https://127.0.0.1"} {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

func (rs *ReloadServer) run() {
	for {
		select {
		case <-rs.done:
			rs.logger.Debug("reload server stopped")
			return

		case conn := <-rs.register:
			rs.mutex.Lock()
			rs.connections[conn] = true
			count := len(rs.connections)
			rs.mutex.Unlock()
			rs.logger.Debug("preview client connected", zap.Int("clients", count))

		case conn := <-rs.unregister:
			rs.mutex.Lock()
			if _, ok := rs.connections[conn]; ok {
				delete(rs.connections, conn)
				conn.Close()
			}
			count := len(rs.connections)
			rs.mutex.Unlock()
			rs.logger.Debug("preview client disconnected", zap.Int("clients", count))

		case message := <-rs.broadcast:
			rs.sendToAll(message)
		}
	}
}

func (rs *ReloadServer) sendToAll(message *ReloadMessage) {
	messageJSON, err := json.Marshal(message)
	if err != nil {
		rs.logger.Error("failed to marshal reload message", zap.Error(err))
		return
	}

	rs.mutex.RLock()
	var failedConns []*websocket.Conn
	for conn := range rs.connections {
		if err := conn.WriteMessage(websocket.TextMessage, messageJSON); err != nil {
			rs.logger.Debug("failed to send reload message", zap.Error(err))
			failedConns = append(failedConns, conn)
		}
	}
	rs.mutex.RUnlock()

	if len(failedConns) > 0 {
		rs.mutex.Lock()
		for _, conn := range failedConns {
			if _, ok := rs.connections[conn]; ok {
				conn.Close()
				delete(rs.connections, conn)
			}
		}
		rs.mutex.Unlock()
	}
}

// HandleWebSocket upgrades the request to a reload socket
func (rs *ReloadServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := rs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		rs.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	select {
	case rs.register <- conn:
	case <-rs.done:
		conn.Close()
		return
	}

	go rs.readMessages(conn)
}

// readMessages drains the client so pings and close frames are handled
func (rs *ReloadServer) readMessages(conn *websocket.Conn) {
	defer func() {
		select {
		case rs.unregister <- conn:
		case <-rs.done:
		}
	}()

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				rs.logger.Debug("websocket error", zap.Error(err))
			}
			return
		}
	}
}

func (rs *ReloadServer) send(message *ReloadMessage) {
	message.Timestamp = time.Now().Unix()
	select {
	case rs.broadcast <- message:
	case <-rs.done:
	}
}

// NotifyBuilding tells clients that files changed and generation started
func (rs *ReloadServer) NotifyBuilding(files []string) {
	rs.send(&ReloadMessage{Type: MessageBuilding, Files: files})
}

// NotifySuccess tells clients that new code is available
func (rs *ReloadServer) NotifySuccess(scenes []string, hash string, duration time.Duration) {
	rs.send(&ReloadMessage{
		Type:     MessageSuccess,
		Scope:    "scenes",
		Scenes:   scenes,
		Hash:     hash,
		Duration: float64(duration.Milliseconds()),
	})
}

// NotifyErrors sends the diagnostics of a failed generation
func (rs *ReloadServer) NotifyErrors(diagnostics errors.ErrorList) {
	infos := make([]*ErrorInfo, 0, len(diagnostics))
	for _, diag := range diagnostics {
		infos = append(infos, NewErrorInfo(diag))
	}
	rs.send(&ReloadMessage{Type: MessageError, Errors: infos})
}

// NotifyReload asks clients to reload without new code
func (rs *ReloadServer) NotifyReload(scope string, files []string) {
	rs.send(&ReloadMessage{Type: MessageReload, Scope: scope, Files: files})
}

// ConnectionCount returns the number of active connections
func (rs *ReloadServer) ConnectionCount() int {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()
	return len(rs.connections)
}

// Close closes all connections and stops the hub
func (rs *ReloadServer) Close() {
	rs.closeOnce.Do(func() {
		close(rs.done)

		rs.mutex.Lock()
		defer rs.mutex.Unlock()
		for conn := range rs.connections {
			conn.Close()
		}
		rs.connections = make(map[*websocket.Conn]bool)
	})
}
