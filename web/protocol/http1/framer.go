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
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/caiflower/tinyhttp/web/protocol"
)

const (
	defaultReadSize = 4096
	maxEmptyReads   = 100
)

var (
	terminator = []byte("\r\n\r\n")

	ErrRequestTooLarge  = errors.New("request header too large")
	errBadContentLength = errors.New("invalid Content-Length")
)

// Framer 从字节流中切出以\r\n\r\n结尾的请求头部，多读到的字节留给下一次
type Framer struct {
	r        io.Reader
	maxBytes int
	buf      []byte
	scratch  []byte
}

// NewFramer maxBytes小于等于0时不限制头部大小
func NewFramer(r io.Reader, maxBytes int) *Framer {
	return &Framer{
		r:        r,
		maxBytes: maxBytes,
		scratch:  make([]byte, defaultReadSize),
	}
}

// Next 返回下一个请求头部（含终止符）。连接在新请求的第一个字节之前正常关闭时返回io.EOF，
// 请求中途关闭返回io.ErrUnexpectedEOF
func (f *Framer) Next() ([]byte, error) {
	searched, empty := 0, 0
	for {
		if idx := bytes.Index(f.buf[searched:], terminator); idx >= 0 {
			end := searched + idx + len(terminator)
			if f.maxBytes > 0 && end > f.maxBytes {
				return nil, ErrRequestTooLarge
			}
			frame := make([]byte, end)
			copy(frame, f.buf[:end])
			f.buf = f.buf[end:]
			return frame, nil
		}
		if f.maxBytes > 0 && len(f.buf) > f.maxBytes {
			return nil, ErrRequestTooLarge
		}
		if len(f.buf) >= len(terminator) {
			searched = len(f.buf) - len(terminator) + 1
		}

		n, err := f.r.Read(f.scratch)
		if n > 0 {
			f.buf = append(f.buf, f.scratch[:n]...)
			empty = 0
			continue
		}
		if err == nil {
			if empty++; empty >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(f.buf) == 0 {
				return nil, io.EOF
			}
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
}

// Buffered 已读取但尚未消费的字节数
func (f *Framer) Buffered() int {
	return len(f.buf)
}

// Discard 丢弃请求体，先消费缓冲区中的字节再从连接读取
func (f *Framer) Discard(n int64) error {
	if n <= 0 {
		return nil
	}
	if int64(len(f.buf)) >= n {
		f.buf = f.buf[n:]
		return nil
	}
	n -= int64(len(f.buf))
	f.buf = f.buf[:0]

	copied, err := io.CopyN(io.Discard, f.r, n)
	if err != nil {
		if errors.Is(err, io.EOF) && copied < n {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// bodyLength 请求声明的Content-Length，没有声明时为0
func bodyLength(req *protocol.Request) (int64, error) {
	v, ok := req.Lookup(protocol.HeaderContentLength)
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0, errBadContentLength
	}
	return n, nil
}
