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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalCache(t *testing.T) {
	c := NewLocalCache[string](0, 0)
	c.Set("test", "testValue")

	v, ok := c.Get("test")
	assert.True(t, ok)
	assert.Equal(t, "testValue", v)
	assert.Equal(t, 1, c.Len())

	c.Delete("test")
	_, ok = c.Get("test")
	assert.False(t, ok)
}

func TestLocalCacheExpiration(t *testing.T) {
	c := NewLocalCache[[]byte](50*time.Millisecond, 10*time.Millisecond)
	c.Set("test", []byte("value"))
	_, ok := c.Get("test")
	assert.True(t, ok)

	time.Sleep(100 * time.Millisecond)
	_, ok = c.Get("test")
	assert.False(t, ok)
}

func TestLocalCacheFlush(t *testing.T) {
	c := NewLocalCache[int](time.Minute, time.Minute)
	for i := 0; i < 10; i++ {
		c.Set(string(rune('a'+i)), i)
	}
	assert.Equal(t, 10, c.Len())
	c.Flush()
	assert.Equal(t, 0, c.Len())
}
