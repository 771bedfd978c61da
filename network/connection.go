// network/connection.go
package network

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Envelope 统一的 JSON 消息封装
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Connection is the transport a session speaks over.
type Connection interface {
	Send(msgType string, payload interface{}) error
	ReadEnvelope() (*Envelope, error)
	Close() error
	RemoteAddr() net.Addr
}

// WSConnection exchanges JSON envelopes over a websocket as text frames.
type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

func (c *WSConnection) Send(msgType string, payload interface{}) error {
	env := Envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		env.Data = data
	}

	frame, err := json.Marshal(env)
	if err != nil {
		return err
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *WSConnection) ReadEnvelope() (*Envelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
