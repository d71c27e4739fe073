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

// Request 构造后不可修改
type Request struct {
	method  Method
	version Version
	uri     string
	header  Header
}

func NewRequest(method Method, version Version, uri string, header Header) *Request {
	if header == nil {
		header = Header{}
	}
	return &Request{
		method:  method,
		version: version,
		uri:     uri,
		header:  header.Clone(),
	}
}

func (r *Request) Method() Method {
	return r.method
}

func (r *Request) Version() Version {
	return r.version
}

func (r *Request) URI() string {
	return r.uri
}

// Header 返回副本
func (r *Request) Header() Header {
	return r.header.Clone()
}

func (r *Request) Get(name string) string {
	return r.header.Get(name)
}

func (r *Request) Lookup(name string) (string, bool) {
	return r.header.Lookup(name)
}

// requestDump 用于debug日志
type requestDump struct {
	Method  string            `json:"method"`
	URI     string            `json:"uri"`
	Version string            `json:"version"`
	Header  map[string]string `json:"header"`
}

func (r *Request) Dump() interface{} {
	return requestDump{
		Method:  r.method.String(),
		URI:     r.uri,
		Version: r.version.String(),
		Header:  r.header,
	}
}
