// ABOUTME: Remote console message type definitions
// ABOUTME: Defines structs for every JSON message exchanged with the console server
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the remote console protocol version
const Version = 1

// Message types
const (
	TypeClientHello   = "client/hello"
	TypeServerHello   = "server/hello"
	TypeServerError   = "server/error"
	TypeCommand       = "console/command"
	TypeResult        = "console/result"
	TypeStatusRequest = "console/status"
	TypeStatus        = "console/update"
)

// Message is the top-level wrapper for all protocol messages
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Decode unmarshals the payload of a message read off the wire into v
func (m Message) Decode(v interface{}) error {
	data, err := json.Marshal(m.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", m.Type, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", m.Type, err)
	}
	return nil
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// ServerHello is the server's response to client/hello
type ServerHello struct {
	ServerID string `json:"server_id"`
	Name     string `json:"name"`
	Product  string `json:"product"`
	Version  int    `json:"version"`
}

// ServerError reports a rejected connection
type ServerError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Command is one console line to execute on the engine
type Command struct {
	ID   string `json:"id"`
	Line string `json:"line"`
}

// Result answers a Command with the same id
type Result struct {
	ID     string `json:"id"`
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// Voice describes one active general voice
type Voice struct {
	Handle  int     `json:"handle"`
	Sound   string  `json:"sound"`
	State   string  `json:"state"`
	Offset  int     `json:"offset"`
	Looping bool    `json:"looping"`
	Gain    float64 `json:"gain"`
}

// Status is a snapshot of the audio system
type Status struct {
	Device        string   `json:"device"`
	DeviceName    string   `json:"device_name"`
	Devices       []string `json:"devices"`
	Generation    int      `json:"generation"`
	EffectsVolume float64  `json:"effects_volume"`
	MusicVolume   float64  `json:"music_volume"`
	Song          string   `json:"song,omitempty"`
	MusicState    string   `json:"music_state"`
	MusicPhase    string   `json:"music_phase"`
	Voices        []Voice  `json:"voices"`
}
