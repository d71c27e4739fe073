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
	"strings"

	"github.com/caiflower/tinyhttp/web/protocol"
)

var (
	crlf      = []byte("\r\n")
	separator = ": "
)

// ParseRequest 解析一个完整的请求头部，raw可以带或不带结尾的\r\n\r\n
func ParseRequest(raw []byte) (*protocol.Request, error) {
	lines := bytes.Split(raw, crlf)
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, protocol.NewParseError(protocol.MalformedRequestLine, "")
	}

	requestLine := string(lines[0])
	fields := strings.Split(requestLine, " ")
	if len(fields) != 3 {
		return nil, protocol.NewParseError(protocol.MalformedRequestLine, requestLine)
	}

	version, err := protocol.ParseVersion(fields[2])
	if err != nil {
		return nil, err
	}

	header := make(protocol.Header, len(lines)-1)
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(string(line), separator)
		if !ok {
			return nil, protocol.NewParseError(protocol.MalformedHeader, string(line))
		}
		header.Set(name, value)
	}

	method, err := protocol.ParseMethod(fields[0])
	if err != nil {
		return nil, err
	}

	return protocol.NewRequest(method, version, fields[1], header), nil
}
