package notify

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

const sendTimeout = 5 * time.Second

// Connection owns one accepted socket. The send mutex guarantees at most one
// in-flight write per socket, so a keep-alive reply and a broadcast can never
// interleave mid-frame.
type Connection struct {
	id        string
	conn      net.Conn
	sendMu    sync.Mutex
	closeOnce sync.Once
}

func newConnection(conn net.Conn) *Connection {
	return &Connection{
		id:   fmt.Sprintf("%s#%s", conn.RemoteAddr(), uuid.NewString()[:8]),
		conn: conn,
	}
}

func (c *Connection) ID() string {
	return c.id
}

// Send writes one encoded frame under the send lock.
func (c *Connection) Send(frame []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(sendTimeout)); err != nil {
		return err
	}
	_, err := c.conn.Write(frame)
	return err
}

// SendMessage encodes and sends a single message to this connection only.
func (c *Connection) SendMessage(msg Message) error {
	frame, err := msg.Encode()
	if err != nil {
		return err
	}
	return c.Send(frame)
}

// Close shuts the socket down. Safe to call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.conn.Close()
	})
}
