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

type Method uint8

const (
	MethodGet Method = iota + 1
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodConnect
	MethodOptions
	MethodTrace
)

var methodNames = map[Method]string{
	MethodGet:     "GET",
	MethodHead:    "HEAD",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodConnect: "CONNECT",
	MethodOptions: "OPTIONS",
	MethodTrace:   "TRACE",
}

var methodTokens = func() map[string]Method {
	m := make(map[string]Method, len(methodNames))
	for k, v := range methodNames {
		m[v] = k
	}
	return m
}()

// ParseMethod 区分大小写的精确匹配，不认识的token返回UnknownMethod
func ParseMethod(token string) (Method, error) {
	if m, ok := methodTokens[token]; ok {
		return m, nil
	}
	return 0, NewParseError(UnknownMethod, token)
}

func (m Method) String() string {
	return methodNames[m]
}

func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}
