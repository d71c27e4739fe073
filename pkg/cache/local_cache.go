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

package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// LocalCache 基于github.com/patrickmn/go-cache的本地cache，值类型为V
type LocalCache[V any] struct {
	c *cache.Cache
}

// NewLocalCache expiration<=0时key不过期，cleanupInterval<=0时不清理过期key
func NewLocalCache[V any](expiration, cleanupInterval time.Duration) *LocalCache[V] {
	if expiration <= 0 {
		expiration = cache.NoExpiration
	}
	return &LocalCache[V]{c: cache.New(expiration, cleanupInterval)}
}

func (l *LocalCache[V]) Get(key string) (v V, ok bool) {
	value, found := l.c.Get(key)
	if !found {
		return
	}
	v, ok = value.(V)
	return
}

// Set 使用默认过期时间
func (l *LocalCache[V]) Set(key string, v V) {
	l.c.SetDefault(key, v)
}

func (l *LocalCache[V]) Delete(key string) {
	l.c.Delete(key)
}

func (l *LocalCache[V]) Len() int {
	return l.c.ItemCount()
}

func (l *LocalCache[V]) Flush() {
	l.c.Flush()
}
