// ABOUTME: WebSocket client for the remote audio console
// ABOUTME: Handles connection, handshake, and matching results to commands
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/XJGE/XJGE-legacy-sub000/internal/protocol"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	// ErrNotConnected is returned when the connection is closed
	ErrNotConnected = errors.New("not connected")
	// ErrRejected is returned when the server refuses the handshake
	ErrRejected = errors.New("connection rejected")
)

// Config holds client configuration
type Config struct {
	ServerAddr string
	Path       string
	ClientID   string
	Name       string
}

// Client is a remote console connection
type Client struct {
	config Config
	conn   *websocket.Conn
	server protocol.ServerHello

	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	pending   map[string]chan protocol.Result
	statuses  chan protocol.Status

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a new console client
func NewClient(config Config) *Client {
	if config.Path == "" {
		config.Path = "/console"
	}
	if config.ClientID == "" {
		config.ClientID = uuid.New().String()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		config:   config,
		pending:  make(map[string]chan protocol.Result),
		statuses: make(chan protocol.Status, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect establishes the WebSocket connection and performs the handshake
func (c *Client) Connect() error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: c.config.Path}
	log.Printf("Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()
	return nil
}

// handshake sends client/hello and waits for server/hello
func (c *Client) handshake() error {
	hello := protocol.ClientHello{
		ClientID: c.config.ClientID,
		Name:     c.config.Name,
		Version:  protocol.Version,
	}
	if err := c.send(protocol.TypeClientHello, hello); err != nil {
		return fmt.Errorf("failed to send %s: %w", protocol.TypeClientHello, err)
	}

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", protocol.TypeServerHello, err)
	}
	c.conn.SetReadDeadline(time.Time{})

	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", protocol.TypeServerHello, err)
	}

	switch msg.Type {
	case protocol.TypeServerHello:
	case protocol.TypeServerError:
		var e protocol.ServerError
		msg.Decode(&e)
		return fmt.Errorf("%w: %s", ErrRejected, e.Message)
	default:
		return fmt.Errorf("expected %s, got %s", protocol.TypeServerHello, msg.Type)
	}

	if err := msg.Decode(&c.server); err != nil {
		return err
	}
	log.Printf("Handshake complete with %s (%s)", c.server.Name, c.server.ServerID)
	return nil
}

// Server returns the hello the server answered with
func (c *Client) Server() protocol.ServerHello {
	return c.server
}

// send writes one JSON message
func (c *Client) send(msgType string, payload interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(protocol.Message{Type: msgType, Payload: payload})
}

// readMessages routes incoming messages until the connection closes
func (c *Client) readMessages() {
	defer c.Close()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.ctx.Done():
			default:
				log.Printf("Read error: %v", err)
			}
			return
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Failed to parse JSON message: %v", err)
			continue
		}

		switch msg.Type {
		case protocol.TypeResult:
			var res protocol.Result
			if err := msg.Decode(&res); err != nil {
				log.Printf("Failed to decode result: %v", err)
				continue
			}
			c.mu.Lock()
			ch, ok := c.pending[res.ID]
			delete(c.pending, res.ID)
			c.mu.Unlock()
			if ok {
				ch <- res
			}

		case protocol.TypeStatus:
			var status protocol.Status
			if err := msg.Decode(&status); err != nil {
				log.Printf("Failed to decode status: %v", err)
				continue
			}
			select {
			case c.statuses <- status:
			default:
			}

		default:
			log.Printf("Unknown message type: %s", msg.Type)
		}
	}
}

// Execute runs a console line on the server and returns its output
func (c *Client) Execute(ctx context.Context, line string) (string, error) {
	id := uuid.New().String()
	ch := make(chan protocol.Result, 1)

	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.send(protocol.TypeCommand, protocol.Command{ID: id, Line: line}); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	select {
	case res := <-ch:
		if res.Error != "" {
			return "", errors.New(res.Error)
		}
		return res.Output, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.ctx.Done():
		return "", ErrNotConnected
	}
}

// Status requests a status snapshot from the server
func (c *Client) Status(ctx context.Context) (protocol.Status, error) {
	if err := c.send(protocol.TypeStatusRequest, struct{}{}); err != nil {
		return protocol.Status{}, fmt.Errorf("failed to request status: %w", err)
	}

	select {
	case status := <-c.statuses:
		return status, nil
	case <-ctx.Done():
		return protocol.Status{}, ctx.Err()
	case <-c.ctx.Done():
		return protocol.Status{}, ErrNotConnected
	}
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		c.cancel()
		c.conn.Close()
		log.Printf("Connection closed")
	}
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
