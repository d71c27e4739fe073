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

package standard

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	golocalv1 "github.com/caiflower/tinyhttp/pkg/golocal/v1"
	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/pkg/safego"
	"github.com/caiflower/tinyhttp/web/network"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type transporter struct {
	network string
	addr    string
	logger  logger.ILog

	lock     sync.Mutex
	listener net.Listener
	closed   bool
	conns    map[network.Conn]struct{}
	workers  sync.WaitGroup
}

// NewTransporter 基于net.Listen的accept循环，每个连接一个协程
func NewTransporter(networkName, addr string, log logger.ILog) network.Transporter {
	if log == nil {
		log = logger.DefaultLogger()
	}
	return &transporter{
		network: networkName,
		addr:    addr,
		logger:  log,
		conns:   make(map[network.Conn]struct{}),
	}
}

func (t *transporter) Listen() error {
	t.logger.Info("[transport] Open socket %s acceptor and listening...", t.addr)

	listener, err := net.Listen(t.network, t.addr)
	if err != nil {
		t.logger.Error("[transport] Open socket %s err: %s .", t.addr, err.Error())
		return err
	}

	t.lock.Lock()
	t.listener = listener
	t.lock.Unlock()
	t.logger.Info("[transport] Open socket %s success. ", listener.Addr().String())
	return nil
}

func (t *transporter) Addr() net.Addr {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

func (t *transporter) Serve(onConnect network.OnConnect) error {
	golocalv1.PutTraceID("transport.accept")
	defer golocalv1.Clean()

	t.lock.Lock()
	listener := t.listener
	t.lock.Unlock()
	if listener == nil {
		return network.ErrNotListening
	}

	var delay time.Duration
	for {
		c, err := listener.Accept()
		if err != nil {
			if t.isClosed() || errors.Is(err, net.ErrClosed) {
				t.logger.Info("[transport] socket is closed and stop accepting.")
				return nil
			}
			if isTemporary(err) {
				if delay == 0 {
					delay = minAcceptDelay
				} else if delay *= 2; delay > maxAcceptDelay {
					delay = maxAcceptDelay
				}
				t.logger.Warn("[transport] accept client err: %s, retrying in %v", err.Error(), delay)
				time.Sleep(delay)
				continue
			}
			t.logger.Error("[transport] accept client err: %s", err.Error())
			return err
		}
		delay = 0

		conn := network.NewConn(c)
		if !t.track(conn) {
			_ = conn.Shutdown()
			return nil
		}

		t.workers.Add(1)
		safego.Go(func() {
			defer t.workers.Done()
			defer t.untrack(conn)
			defer conn.Shutdown()

			if err := onConnect(context.Background(), conn); err != nil {
				t.logger.Debug("[transport] connection %s finished with err: %s", conn.RemoteAddr(), err.Error())
			}
		})
	}
}

// Shutdown 先关闭监听，再关闭所有活跃连接，等待会话协程退出或ctx结束
func (t *transporter) Shutdown(ctx context.Context) error {
	t.lock.Lock()
	if t.closed {
		t.lock.Unlock()
		return nil
	}
	t.closed = true
	var err error
	if t.listener != nil {
		err = t.listener.Close()
	}
	for c := range t.conns {
		_ = c.Shutdown()
	}
	t.lock.Unlock()

	done := make(chan struct{})
	go func() {
		t.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (t *transporter) isClosed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.closed
}

func (t *transporter) track(c network.Conn) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.closed {
		return false
	}
	t.conns[c] = struct{}{}
	return true
}

func (t *transporter) untrack(c network.Conn) {
	t.lock.Lock()
	defer t.lock.Unlock()
	delete(t.conns, c)
}

// isTemporary EMFILE、ECONNABORTED等错误不应结束accept循环
func isTemporary(err error) bool {
	var te interface{ Temporary() bool }
	return errors.As(err, &te) && te.Temporary()
}
