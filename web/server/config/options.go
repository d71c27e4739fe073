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

package config

import (
	"time"

	"github.com/caiflower/tinyhttp/pkg/tools"
)

type ServerMode string

const (
	ServerModeStandard ServerMode = "standard" // net.Listen + 每连接一个协程
	ServerModeNetpoll  ServerMode = "netpoll"  // cloudwego/netpoll 事件循环
)

type Option func(*Options) *Options

type Options struct {
	Name            string        `yaml:"name" default:"default"`
	Addr            string        `yaml:"addr" default:"0.0.0.0:80"`
	Network         string        `yaml:"netWork" default:"tcp"`
	Mode            ServerMode    `yaml:"mode" default:"standard"`
	DocumentRoot    string        `yaml:"documentRoot" default:"www"`
	IndexFile       string        `yaml:"indexFile" default:"index.html"`
	MaxHeaderBytes  int           `yaml:"maxHeaderBytes" default:"1048576"` // 负数代表不限制
	ReadTimeout     time.Duration `yaml:"readTimeout"`                     // 0代表不超时
	IdleTimeout     time.Duration `yaml:"idleTimeout"`                     // keep-alive连接等待下一个请求的时间，0代表不超时
	CacheExpiration time.Duration `yaml:"cacheExpiration"`                 // 文件内容缓存时间，0代表不缓存
	EnableMetrics   bool          `yaml:"enableMetrics"`
	MetricsAddr     string        `yaml:"metricsAddr"`                     // 为空时不单独启动metrics服务
	StatsCron       string        `yaml:"statsCron"`                       // 例如 "*/30 * * * * *"，为空时不输出统计日志
}

// NewOptions 先填充default标签，再依次应用opts
func NewOptions(opts ...Option) *Options {
	options := &Options{}
	_ = tools.DoTagFunc(options, []tools.FnObj{{Fn: tools.SetDefaultValueIfNil}})

	for _, opt := range opts {
		options = opt(options)
	}
	return options
}

// SetDefaults 为零值字段填充default标签
func (o *Options) SetDefaults() error {
	return tools.DoTagFunc(o, []tools.FnObj{{Fn: tools.SetDefaultValueIfNil}})
}

func WithName(name string) Option {
	return func(opts *Options) *Options {
		opts.Name = name
		return opts
	}
}

func WithAddr(addr string) Option {
	return func(opts *Options) *Options {
		opts.Addr = addr
		return opts
	}
}

func WithNetwork(network string) Option {
	return func(opts *Options) *Options {
		opts.Network = network
		return opts
	}
}

func WithMode(mode ServerMode) Option {
	return func(opts *Options) *Options {
		opts.Mode = mode
		return opts
	}
}

func WithDocumentRoot(root string) Option {
	return func(opts *Options) *Options {
		opts.DocumentRoot = root
		return opts
	}
}

func WithIndexFile(name string) Option {
	return func(opts *Options) *Options {
		opts.IndexFile = name
		return opts
	}
}

func WithMaxHeaderBytes(n int) Option {
	return func(opts *Options) *Options {
		opts.MaxHeaderBytes = n
		return opts
	}
}

func WithReadTimeout(readTimeout time.Duration) Option {
	return func(opts *Options) *Options {
		opts.ReadTimeout = readTimeout
		return opts
	}
}

func WithIdleTimeout(idleTimeout time.Duration) Option {
	return func(opts *Options) *Options {
		opts.IdleTimeout = idleTimeout
		return opts
	}
}

func WithCacheExpiration(expiration time.Duration) Option {
	return func(opts *Options) *Options {
		opts.CacheExpiration = expiration
		return opts
	}
}

func WithMetrics(enable bool, addr string) Option {
	return func(opts *Options) *Options {
		opts.EnableMetrics = enable
		opts.MetricsAddr = addr
		return opts
	}
}

func WithStatsCron(spec string) Option {
	return func(opts *Options) *Options {
		opts.StatsCron = spec
		return opts
	}
}
