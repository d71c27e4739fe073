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

package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderConnection    = "Connection"

	ConnectionKeepAlive = "keep-alive"
	ConnectionClose     = "close"
)

var (
	ErrInvalidTextPayload = errors.New("text payload is not valid utf-8")
	ErrBinaryTextType     = errors.New("binary payload with text content type")
)

type Response struct {
	statusCode uint16
	version    Version
	reason     string
	header     Header
	payload    Payload
}

func (r *Response) StatusCode() uint16 {
	return r.statusCode
}

func (r *Response) Version() Version {
	return r.version
}

func (r *Response) Reason() string {
	return r.reason
}

func (r *Response) Header() Header {
	return r.header.Clone()
}

func (r *Response) Payload() Payload {
	return r.payload
}

// Serialize 状态行和头部以单个\n结尾，头部按名称排序，payload原样追加
func (r *Response) Serialize() []byte {
	size := 32 + len(r.reason) + r.payload.Len()
	for k, v := range r.header {
		size += len(k) + len(v) + 3
	}

	buf := make([]byte, 0, size)
	buf = append(buf, "HTTP/"...)
	buf = append(buf, r.version.String()...)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(r.statusCode), 10)
	buf = append(buf, ' ')
	buf = append(buf, r.reason...)
	buf = append(buf, '\n')
	for _, k := range r.header.SortedKeys() {
		buf = append(buf, k...)
		buf = append(buf, ": "...)
		buf = append(buf, r.header[k]...)
		buf = append(buf, '\n')
	}
	buf = append(buf, '\n')
	return r.payload.appendTo(buf)
}

type ResponseBuilder struct {
	resp Response
}

func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{resp: Response{
		statusCode: 200,
		version:    HTTP11,
		reason:     "OK",
		header:     Header{},
	}}
}

func (b *ResponseBuilder) StatusCode(code uint16) *ResponseBuilder {
	b.resp.statusCode = code
	return b
}

func (b *ResponseBuilder) Version(v Version) *ResponseBuilder {
	b.resp.version = v
	return b
}

func (b *ResponseBuilder) Reason(reason string) *ResponseBuilder {
	b.resp.reason = reason
	return b
}

func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.resp.header.Set(name, value)
	return b
}

func (b *ResponseBuilder) Headers(h Header) *ResponseBuilder {
	for k, v := range h {
		b.resp.header.Set(k, v)
	}
	return b
}

func (b *ResponseBuilder) Payload(p Payload) *ResponseBuilder {
	b.resp.payload = p
	return b
}

// Build 检查payload约束，返回的Response与builder不共享header
func (b *ResponseBuilder) Build() (*Response, error) {
	p := b.resp.payload
	switch p.Kind() {
	case PayloadText:
		if !utf8.ValidString(p.Text()) {
			return nil, ErrInvalidTextPayload
		}
	case PayloadBinary:
		if ct, ok := b.resp.header.Lookup(HeaderContentType); ok && strings.HasPrefix(strings.ToLower(ct), "text/") {
			return nil, fmt.Errorf("%w: %s", ErrBinaryTextType, ct)
		}
	}

	resp := b.resp
	resp.header = b.resp.header.Clone()
	return &resp, nil
}
