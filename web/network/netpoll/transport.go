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

package netpoll

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/caiflower/tinyhttp/pkg/e"
	golocalv1 "github.com/caiflower/tinyhttp/pkg/golocal/v1"
	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/web/network"
	"github.com/cloudwego/netpoll"
)

type transporter struct {
	network     string
	addr        string
	readTimeout time.Duration
	logger      logger.ILog

	lock      sync.Mutex
	listener  netpoll.Listener
	eventLoop netpoll.EventLoop
}

// NewTransporter 基于netpoll事件循环，会话运行在OnRequest回调中
func NewTransporter(networkName, addr string, readTimeout time.Duration, log logger.ILog) network.Transporter {
	if log == nil {
		log = logger.DefaultLogger()
	}
	return &transporter{
		network:     networkName,
		addr:        addr,
		readTimeout: readTimeout,
		logger:      log,
	}
}

func (t *transporter) Listen() error {
	listener, err := netpoll.CreateListener(t.network, t.addr)
	if err != nil {
		t.logger.Error("[netpoll] create listener %s err: %s", t.addr, err.Error())
		return err
	}

	t.lock.Lock()
	t.listener = listener
	t.lock.Unlock()
	t.logger.Info("[netpoll] listening on %s", listener.Addr().String())
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
	t.lock.Lock()
	listener := t.listener
	t.lock.Unlock()
	if listener == nil {
		return network.ErrNotListening
	}

	onRequest := func(ctx context.Context, connection netpoll.Connection) error {
		conn := newConn(connection)
		defer golocalv1.Clean()
		defer conn.Shutdown()
		defer e.OnError("[netpoll] onRequest")

		return onConnect(ctx, conn)
	}

	opts := []netpoll.Option{netpoll.WithOnPrepare(func(connection netpoll.Connection) context.Context {
		if t.readTimeout > 0 {
			_ = connection.SetReadTimeout(t.readTimeout)
		}
		return context.Background()
	})}
	eventLoop, err := netpoll.NewEventLoop(onRequest, opts...)
	if err != nil {
		return err
	}

	t.lock.Lock()
	t.eventLoop = eventLoop
	t.lock.Unlock()

	return eventLoop.Serve(listener)
}

func (t *transporter) Shutdown(ctx context.Context) error {
	t.lock.Lock()
	eventLoop, listener := t.eventLoop, t.listener
	t.eventLoop = nil
	t.lock.Unlock()

	if eventLoop != nil {
		return eventLoop.Shutdown(ctx)
	}
	if listener != nil {
		return listener.Close()
	}
	return nil
}
