package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/publisher"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server represents the WebSocket server
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	log    *logrus.Logger
}

// NewServer creates a new WebSocket server
func NewServer(log *logrus.Logger) *Server {
	return &Server{
		hub: NewHub(log),
		log: log,
	}
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port

	// Start the hub in a goroutine
	go s.hub.Run()

	// Set up HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/predictions", s.handlePredictions)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	s.log.WithField("port", port).Info("WebSocket server listening")
	return s.server.ListenAndServe()
}

// handlePredictions handles WebSocket connections for prediction run updates
func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("failed to upgrade connection")
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// runMessage is the envelope pushed to clients when a prediction run lands.
type runMessage struct {
	Type      string             `json:"type"`
	Data      publisher.RunEvent `json:"data"`
	Timestamp time.Time          `json:"timestamp"`
}

// NotifyRunCompleted pushes a completed-run event to every connected client.
func (s *Server) NotifyRunCompleted(event publisher.RunEvent) {
	msg := runMessage{
		Type:      "run_completed",
		Data:      event,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.WithError(err).Warn("failed to marshal run event")
		return
	}
	s.hub.Broadcast(data)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
