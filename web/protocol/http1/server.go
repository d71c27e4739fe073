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

package http1

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/caiflower/tinyhttp/pkg/e"
	golocalv1 "github.com/caiflower/tinyhttp/pkg/golocal/v1"
	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/pkg/tools"
	"github.com/caiflower/tinyhttp/web/content"
	"github.com/caiflower/tinyhttp/web/network"
	"github.com/caiflower/tinyhttp/web/protocol"
	"github.com/caiflower/tinyhttp/web/server/config"
)

const (
	reasonOK       = "OK"
	reasonNotFound = "File not found."
)

var ErrSessionPanic = errors.New("session panic")

type Resolver interface {
	Resolve(uri string) (*content.Resolved, error)
}

// Observer 会话事件回调，用于metrics，需并发安全
type Observer interface {
	SessionOpened()
	SessionClosed()
	RequestServed(method protocol.Method, statusCode uint16, bytes int, cost time.Duration)
}

type Server struct {
	config.Options
	Resolver Resolver
	Observer Observer
	Logger   logger.ILog
}

type session struct {
	*Server
	ctx      context.Context
	conn     network.Conn
	framer   *Framer
	requests uint64

	start     time.Time
	frame     []byte
	req       *protocol.Request
	resp      *protocol.Response
	keepAlive bool
	err       error
}

type stateFunc func(*session) stateFunc

// Serve 处理一个连接上的全部请求，返回时连接已关闭。对端在两次请求之间正常关闭时返回nil
func (s *Server) Serve(ctx context.Context, conn network.Conn) (err error) {
	golocalv1.PutTraceID(tools.ShortUUID(16))
	golocalv1.Put(golocalv1.SessionID, conn.RemoteAddr().String())
	defer golocalv1.Clean()

	w := &session{
		Server: s,
		ctx:    ctx,
		conn:   conn,
		framer: NewFramer(conn, s.MaxHeaderBytes),
	}

	if s.Observer != nil {
		s.Observer.SessionOpened()
		defer s.Observer.SessionClosed()
	}

	defer func() {
		if w.err != nil {
			s.logger().Debug("[http1] session %s closed. Error: %s", conn.RemoteAddr(), w.err.Error())
		}
		err = w.err
	}()
	defer e.OnErrorFunc(func(r interface{}, stack []byte) {
		s.logger().Error("[http1] session %s panic: %v\n%s", conn.RemoteAddr(), r, stack)
		w.err = ErrSessionPanic
		_ = conn.Shutdown()
	})

	for state := awaitRequest; state != nil; {
		state = state(w)
	}
	return
}

func (s *Server) logger() logger.ILog {
	if s.Logger == nil {
		return logger.DefaultLogger()
	}
	return s.Logger
}

func (w *session) fail(err error) stateFunc {
	w.err = err
	return closeSession
}

// state funcs

func awaitRequest(w *session) stateFunc {
	if err := w.ctx.Err(); err != nil {
		return w.fail(err)
	}
	w.requests++

	// keep-alive连接在IdleTimeout内等待下一个请求
	if w.requests > 1 && w.framer.Buffered() == 0 {
		_ = w.conn.SetReadTimeout(w.IdleTimeout)
	} else {
		_ = w.conn.SetReadTimeout(w.ReadTimeout)
	}

	frame, err := w.framer.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return closeSession
		}
		return w.fail(err)
	}
	_ = w.conn.SetReadTimeout(w.ReadTimeout)

	w.start = time.Now()
	w.frame = frame
	return parseRequest
}

func parseRequest(w *session) stateFunc {
	req, err := ParseRequest(w.frame)
	w.frame = nil
	if err != nil {
		return w.fail(err)
	}
	w.req = req
	w.logger().Debug("[http1] request: %s", tools.ToJson(req.Dump()))

	n, err := bodyLength(req)
	if err != nil {
		return w.fail(err)
	}
	if err = w.framer.Discard(n); err != nil {
		return w.fail(err)
	}
	return resolveContent
}

func resolveContent(w *session) stateFunc {
	builder := protocol.NewResponseBuilder().Version(protocol.HTTP11)

	resolved, err := w.Resolver.Resolve(w.req.URI())
	switch {
	case err == nil:
		builder.StatusCode(200).
			Reason(reasonOK).
			Header(protocol.HeaderContentType, resolved.MIME).
			Header(protocol.HeaderContentLength, strconv.Itoa(resolved.ContentLength)).
			Payload(resolved.Payload)
	case errors.Is(err, content.ErrNotFound):
		w.logger().Debug("[http1] %s %s not found. %s", w.req.Method(), w.req.URI(), err.Error())
		builder.StatusCode(404).
			Reason(reasonNotFound).
			Header(protocol.HeaderContentLength, "0")
	default:
		w.logger().Warn("[http1] resolve %s failed. Error: %s", w.req.URI(), err.Error())
		return w.fail(err)
	}

	conn, ok := w.req.Lookup(protocol.HeaderConnection)
	switch {
	case !ok:
		w.keepAlive = false
	case conn == protocol.ConnectionKeepAlive:
		w.keepAlive = true
		builder.Header(protocol.HeaderConnection, protocol.ConnectionKeepAlive)
	default:
		w.keepAlive = false
		builder.Header(protocol.HeaderConnection, protocol.ConnectionClose)
	}

	resp, err := builder.Build()
	if err != nil {
		return w.fail(err)
	}
	w.resp = resp
	return writeResponse
}

func writeResponse(w *session) stateFunc {
	data := w.resp.Serialize()
	if err := writeAll(w.conn, data); err != nil {
		return w.fail(err)
	}

	if w.Observer != nil {
		w.Observer.RequestServed(w.req.Method(), w.resp.StatusCode(), len(data), time.Since(w.start))
	}
	w.logger().Info("[http1] %s %s %d %d", w.req.Method(), w.req.URI(), w.resp.StatusCode(), len(data))

	w.req, w.resp = nil, nil
	if w.keepAlive {
		return awaitRequest
	}
	return closeSession
}

func closeSession(w *session) stateFunc {
	if err := w.conn.Shutdown(); err != nil && w.err == nil {
		w.logger().Debug("[http1] shutdown %s err: %s", w.conn.RemoteAddr(), err.Error())
	}
	return nil
}

func writeAll(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}
