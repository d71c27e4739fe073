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

package content

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caiflower/tinyhttp/pkg/cache"
	"github.com/caiflower/tinyhttp/web/protocol"
)

var (
	ErrNotFound         = errors.New("file not found")
	ErrConversionFailed = errors.New("text content is not valid utf-8")
	ErrUnclassified     = errors.New("content type is unknown")
)

const DefaultIndexFile = "index.html"

type Resolved struct {
	MIME          string
	ContentLength int
	Payload       protocol.Payload
}

type Option func(*Resolver)

func WithIndexFile(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.index = name
		}
	}
}

func WithFileSystem(fs FileSystem) Option {
	return func(r *Resolver) {
		if fs != nil {
			r.fs = fs
		}
	}
}

func WithSniffer(sniffer Sniffer) Option {
	return func(r *Resolver) {
		if sniffer != nil {
			r.sniffer = sniffer
		}
	}
}

// WithCache 缓存解析结果，expiration<=0时不启用
func WithCache(expiration time.Duration) Option {
	return func(r *Resolver) {
		if expiration > 0 {
			r.cache = cache.NewLocalCache[*Resolved](expiration, 2*expiration)
		}
	}
}

// Resolver 把请求URI映射到文档根目录下的文件
type Resolver struct {
	root    string
	index   string
	fs      FileSystem
	sniffer Sniffer
	cache   *cache.LocalCache[*Resolved]
}

func NewResolver(root string, opts ...Option) *Resolver {
	r := &Resolver{
		root:    root,
		index:   DefaultIndexFile,
		fs:      OSFileSystem{},
		sniffer: MimeSniffer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Root() string {
	return r.root
}

// Path 返回uri对应的文件路径，不合法的uri返回ErrNotFound
func (r *Resolver) Path(uri string) (string, error) {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		uri = uri[:i]
	}
	if !strings.HasPrefix(uri, "/") {
		return "", fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	for _, seg := range strings.Split(uri, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
	}
	if uri == "/" {
		return filepath.Join(r.root, r.index), nil
	}
	return filepath.Join(r.root, filepath.FromSlash(uri)), nil
}

func (r *Resolver) Resolve(uri string) (*Resolved, error) {
	path, err := r.Path(uri)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if v, ok := r.cache.Get(path); ok {
			return v, nil
		}
	}

	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	}

	mime, text, err := r.sniffer.Classify(data)
	if err != nil {
		if errors.Is(err, ErrUnclassified) {
			return nil, fmt.Errorf("%w: %s", err, path)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnclassified, err.Error())
	}

	resolved := &Resolved{
		MIME:          mime,
		ContentLength: len(data),
	}
	if text {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: %s", ErrConversionFailed, path)
		}
		resolved.Payload = protocol.TextPayload(string(data))
	} else {
		resolved.Payload = protocol.BinaryPayload(data)
	}

	if r.cache != nil {
		r.cache.Set(path, resolved)
	}
	return resolved, nil
}

// CacheLen 缓存的文件数，未启用缓存时为0
func (r *Resolver) CacheLen() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}
