package netpoll

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/cloudwego/netpoll"
)

// conn 通过netpoll的零拷贝Reader/Writer实现network.Conn
type conn struct {
	connection netpoll.Connection
	once       sync.Once
	closeErr   error
}

func newConn(c netpoll.Connection) *conn {
	return &conn{connection: c}
}

func (c *conn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	r := c.connection.Reader()
	// 阻塞到至少有一个字节可读
	if _, err := r.Peek(1); err != nil {
		return 0, convertErr(err)
	}
	n := r.Len()
	if n > len(p) {
		n = len(p)
	}
	buf, err := r.Next(n)
	if err != nil {
		return 0, convertErr(err)
	}
	copy(p, buf)
	_ = r.Release()
	return n, nil
}

func (c *conn) Write(p []byte) (int, error) {
	w := c.connection.Writer()
	n, err := w.WriteBinary(p)
	if err != nil {
		return n, convertErr(err)
	}
	if err = w.Flush(); err != nil {
		return 0, convertErr(err)
	}
	return n, nil
}

func (c *conn) Shutdown() error {
	c.once.Do(func() {
		c.closeErr = c.connection.Close()
	})
	return c.closeErr
}

func (c *conn) RemoteAddr() net.Addr {
	return c.connection.RemoteAddr()
}

func (c *conn) SetReadTimeout(t time.Duration) error {
	return c.connection.SetReadTimeout(t)
}

func convertErr(err error) error {
	if errors.Is(err, netpoll.ErrEOF) || errors.Is(err, netpoll.ErrConnClosed) {
		return io.EOF
	}
	return err
}
