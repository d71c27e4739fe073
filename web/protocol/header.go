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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Header 字段名区分大小写，保留收到时的写法，同名后写覆盖先写
type Header map[string]string

func (h Header) Set(name, value string) {
	h[name] = value
}

func (h Header) Get(name string) string {
	return h[name]
}

func (h Header) Lookup(name string) (string, bool) {
	v, ok := h[name]
	return v, ok
}

func (h Header) Del(name string) {
	delete(h, name)
}

func (h Header) Len() int {
	return len(h)
}

func (h Header) Clone() Header {
	c := make(Header, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// SortedKeys 序列化时使用，保证输出稳定
func (h Header) SortedKeys() []string {
	keys := maps.Keys(h)
	slices.Sort(keys)
	return keys
}
