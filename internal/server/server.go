// Package server implements the development preview server. It serves
// rendered pages, the built stylesheet and script bundle, and source
// assets, and pushes live reload notifications to connected browsers
// over a WebSocket channel.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/frontsail/frontsail-sub000/internal/config"
	"github.com/frontsail/frontsail-sub000/internal/logging"
	"github.com/frontsail/frontsail-sub000/internal/project"
)

// Client represents a WebSocket client
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *PreviewServer
}

// PreviewServer serves rendered pages with live reload capability
type PreviewServer struct {
	config       *config.Config
	project      *project.Project
	logger       logging.Logger
	httpServer   *http.Server
	serverMutex  sync.RWMutex
	clients      map[*websocket.Conn]*Client
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *Client
	unregister   chan *websocket.Conn
	shutdownOnce sync.Once
}

// UpdateMessage represents a message sent to the browser
type UpdateMessage struct {
	Type      string    `json:"type"`
	Target    string    `json:"target,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new preview server for the given project
func New(cfg *config.Config, proj *project.Project, logger logging.Logger) *PreviewServer {
	return &PreviewServer{
		config:     cfg,
		project:    proj,
		logger:     logger.WithComponent("server"),
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// Start starts the preview server. It blocks until the server stops or
// ctx is canceled.
func (s *PreviewServer) Start(ctx context.Context) error {
	go s.runWebSocketHub(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/site.css", s.handleStyles)
	mux.HandleFunc("/site.js", s.handleScripts)
	mux.HandleFunc("/assets/", s.handleAsset)
	mux.HandleFunc("/", s.handlePage)

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Preview server listening", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the preview server
func (s *PreviewServer) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.closeClients()

		s.serverMutex.RLock()
		srv := s.httpServer
		s.serverMutex.RUnlock()
		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = srv.Shutdown(ctx)
		}
	})
	return err
}

// NotifyReload broadcasts a reload message to all connected browsers
func (s *PreviewServer) NotifyReload(target string) {
	message, err := json.Marshal(UpdateMessage{
		Type:      "reload",
		Target:    target,
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}
	select {
	case s.broadcast <- message:
	default:
		// No hub running or broadcast congested, skip
	}
}
