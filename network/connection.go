// network/connection.go
package network

import (
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

// Connection is the duplex text transport the session core runs on: send a
// UTF-8 payload, receive payloads in arrival order, close. Close detection
// surfaces as an error from ReadText.
type Connection interface {
	SendText(payload []byte) error
	ReadText() ([]byte, error)
	Close() error
	RemoteAddr() net.Addr
}

// WSConnection adapts a gorilla websocket connection to Connection.
type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// SendText writes one text frame. Serialized; gorilla allows only one
// concurrent writer per connection.
func (c *WSConnection) SendText(payload []byte) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// ReadText blocks for the next text frame. Non-text frames are skipped;
// control frames are handled by gorilla underneath.
func (c *WSConnection) ReadText() ([]byte, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType == websocket.TextMessage {
			return data, nil
		}
	}
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
