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

package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/caiflower/tinyhttp/pkg/crontab"
	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/pkg/safego"
	"github.com/caiflower/tinyhttp/web/content"
	"github.com/caiflower/tinyhttp/web/network"
	"github.com/caiflower/tinyhttp/web/network/netpoll"
	"github.com/caiflower/tinyhttp/web/network/standard"
	"github.com/caiflower/tinyhttp/web/protocol"
	"github.com/caiflower/tinyhttp/web/protocol/http1"
	"github.com/caiflower/tinyhttp/web/server/config"
)

type HttpServer struct {
	options     *config.Options
	logger      logger.ILog
	fs          content.FileSystem
	transporter network.Transporter
	resolver    *content.Resolver
	core        *http1.Server

	metric        *HttpMetric
	metricsServer *MetricsServer
	cron          *crontab.CronManger

	sessions int64
	served   uint64
	once     sync.Once
}

type ServerOption func(*HttpServer)

func WithLogger(log logger.ILog) ServerOption {
	return func(s *HttpServer) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithFileSystem 替换默认的本地文件系统
func WithFileSystem(fs content.FileSystem) ServerOption {
	return func(s *HttpServer) {
		s.fs = fs
	}
}

func NewHttpServer(options config.Options, opts ...ServerOption) *HttpServer {
	s := &HttpServer{
		options: &options,
		logger:  logger.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := options.SetDefaults(); err != nil {
		s.logger.Warn("[http server] set default options failed. Error: %s", err.Error())
	}

	s.resolver = content.NewResolver(options.DocumentRoot,
		content.WithIndexFile(options.IndexFile),
		content.WithFileSystem(s.fs),
		content.WithCache(options.CacheExpiration),
	)

	switch options.Mode {
	case config.ServerModeNetpoll:
		s.transporter = netpoll.NewTransporter(options.Network, options.Addr, options.ReadTimeout, s.logger)
	default:
		s.transporter = standard.NewTransporter(options.Network, options.Addr, s.logger)
	}

	if options.EnableMetrics {
		s.metric = NewHttpMetric(options.Name)
		if options.MetricsAddr != "" {
			s.metricsServer = NewMetricsServer(options.MetricsAddr, s.metric, s.logger)
		}
	}
	if options.StatsCron != "" {
		s.cron = crontab.NewCronTabManger(s.Name(), s.logger)
	}

	s.core = &http1.Server{
		Options:  options,
		Resolver: s.resolver,
		Observer: s,
		Logger:   s.logger,
	}
	return s
}

func (s *HttpServer) Name() string {
	return fmt.Sprintf("HTTP_SERVER:%s", s.options.Name)
}

// Start 同步绑定端口，之后在后台处理连接
func (s *HttpServer) Start() error {
	if s.cron != nil && s.cron.JobCount() == 0 {
		if _, err := s.cron.AddFunc(s.options.StatsCron, s.logStats); err != nil {
			return fmt.Errorf("invalid statsCron '%s': %w", s.options.StatsCron, err)
		}
	}
	if err := s.transporter.Listen(); err != nil {
		return err
	}

	s.logger.Info(
		"\n***************************** tinyhttp server startup *******************************\n"+
			"************* [name:%s] [mode:%s] [root:%s] listening on %s *********\n"+
			"*************************************************************************************", s.options.Name, s.options.Mode, s.options.DocumentRoot, s.transporter.Addr())

	safego.Go(func() {
		if err := s.transporter.Serve(s.core.Serve); err != nil {
			s.logger.Error("%s serve failed. Error: %s", s.Name(), err.Error())
		}
	})

	if s.metricsServer != nil {
		if err := s.metricsServer.Start(); err != nil {
			s.logger.Error("%s start metrics server failed. Error: %s", s.Name(), err.Error())
		}
	}
	if s.cron != nil {
		return s.cron.Start()
	}
	return nil
}

func (s *HttpServer) Close() {
	s.once.Do(func() {
		s.logger.Info("      **** %s shutdown, wait at most 5s ****", s.Name())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.transporter.Shutdown(ctx); err != nil {
			s.logger.Error("%s shutdown failed. Error: %s", s.Name(), err.Error())
		}
		if s.metricsServer != nil {
			s.metricsServer.Close()
		}
		if s.cron != nil {
			s.cron.Close()
		}
	})
}

func (s *HttpServer) Addr() net.Addr {
	return s.transporter.Addr()
}

func (s *HttpServer) SessionCount() int {
	return int(atomic.LoadInt64(&s.sessions))
}

func (s *HttpServer) Served() uint64 {
	return atomic.LoadUint64(&s.served)
}

// Metric 未开启metrics时为nil
func (s *HttpServer) Metric() *HttpMetric {
	return s.metric
}

func (s *HttpServer) MetricsAddr() net.Addr {
	if s.metricsServer == nil {
		return nil
	}
	return s.metricsServer.Addr()
}

func (s *HttpServer) SessionOpened() {
	atomic.AddInt64(&s.sessions, 1)
	if s.metric != nil {
		s.metric.sessionOpened()
	}
}

func (s *HttpServer) SessionClosed() {
	atomic.AddInt64(&s.sessions, -1)
	if s.metric != nil {
		s.metric.sessionClosed()
	}
}

func (s *HttpServer) RequestServed(method protocol.Method, statusCode uint16, bytes int, cost time.Duration) {
	atomic.AddUint64(&s.served, 1)
	if s.metric != nil {
		s.metric.saveMetric(statusCode, method.String(), bytes, cost)
	}
}
