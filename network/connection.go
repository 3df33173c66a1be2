// network/connection.go
package network

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Envelope is the wire frame for watcher traffic: a named event plus its
// JSON payload. It mirrors the named events the browser display listens for.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type Connection interface {
	Send(event string, payload interface{}) error
	ReadEnvelope() (*Envelope, error)
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send marshals the payload into an envelope and writes it as one text
// message. The mutex serializes concurrent broadcasters on the same socket.
func (c *WSConnection) Send(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteJSON(Envelope{Event: event, Data: data})
}

func (c *WSConnection) ReadEnvelope() (*Envelope, error) {
	var env Envelope
	if err := c.conn.ReadJSON(&env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
