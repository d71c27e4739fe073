/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package network

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"
)

// Conn 会话层依赖的字节流，只需要读、写以及双向关闭
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	// Shutdown 关闭读写两个方向并释放连接，重复调用返回nil
	Shutdown() error
	RemoteAddr() net.Addr
	// SetReadTimeout 之后每次Read的超时时间，0代表不超时
	SetReadTimeout(t time.Duration) error
}

// OnConnect 每个连接一个调用，返回时连接已被关闭
type OnConnect func(ctx context.Context, conn Conn) error

// Transporter 监听端口并把接入的连接交给OnConnect
type Transporter interface {
	// Listen 同步绑定地址，失败时返回错误
	Listen() error
	// Serve 阻塞直到Shutdown
	Serve(onConnect OnConnect) error
	Addr() net.Addr
	Shutdown(ctx context.Context) error
}

var ErrNotListening = errors.New("transporter is not listening")

type closeReader interface {
	CloseRead() error
}

type closeWriter interface {
	CloseWrite() error
}

type netConn struct {
	net.Conn
	readTimeout time.Duration
	once        sync.Once
	closeErr    error
}

// NewConn 适配net.Conn，*net.TCPConn会分别关闭读写方向
func NewConn(c net.Conn) Conn {
	return &netConn{Conn: c}
}

func (c *netConn) Read(p []byte) (int, error) {
	if c.readTimeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}

func (c *netConn) SetReadTimeout(t time.Duration) error {
	c.readTimeout = t
	if t <= 0 {
		return c.Conn.SetReadDeadline(time.Time{})
	}
	return nil
}

func (c *netConn) Shutdown() error {
	c.once.Do(func() {
		if cw, ok := c.Conn.(closeWriter); ok {
			_ = cw.CloseWrite()
		}
		if cr, ok := c.Conn.(closeReader); ok {
			_ = cr.CloseRead()
		}
		c.closeErr = c.Conn.Close()
	})
	return c.closeErr
}
