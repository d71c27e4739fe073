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
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/caiflower/tinyhttp/global/env"
	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/pkg/safego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HttpMetric 每个HttpServer独立的registry，多个实例之间不会重复注册
type HttpMetric struct {
	web string

	registry         *prometheus.Registry
	requestTotal     *prometheus.CounterVec
	responseBytes    *prometheus.CounterVec
	costHistogram    prometheus.Histogram
	activeSessions   prometheus.Gauge
	sessionsAccepted prometheus.Counter
}

func NewHttpMetric(web string) *HttpMetric {
	constLabels := prometheus.Labels{"ip": env.GetLocalHostIP(), "web": web}

	buckets := []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000}
	metric := &HttpMetric{
		web:              web,
		registry:         prometheus.NewRegistry(),
		requestTotal:     prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_request_total", Help: "http_request_total counter", ConstLabels: constLabels}, []string{"code", "method"}),
		responseBytes:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "http_response_bytes_total", Help: "http_response_bytes_total counter", ConstLabels: constLabels}, []string{"code", "method"}),
		costHistogram:    prometheus.NewHistogram(prometheus.HistogramOpts{Name: "http_request_histogram", Help: "http_request_histogram(ms)", Buckets: buckets, ConstLabels: constLabels}),
		activeSessions:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "http_active_sessions", Help: "http_active_sessions gauge", ConstLabels: constLabels}),
		sessionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{Name: "http_sessions_total", Help: "http_sessions_total counter", ConstLabels: constLabels}),
	}

	metric.registry.MustRegister(
		metric.requestTotal,
		metric.responseBytes,
		metric.costHistogram,
		metric.activeSessions,
		metric.sessionsAccepted,
	)
	return metric
}

func (m *HttpMetric) Registry() *prometheus.Registry {
	return m.registry
}

func (m *HttpMetric) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HttpMetric) sessionOpened() {
	m.sessionsAccepted.Inc()
	m.activeSessions.Inc()
}

func (m *HttpMetric) sessionClosed() {
	m.activeSessions.Dec()
}

func (m *HttpMetric) saveMetric(code uint16, method string, bytes int, cost time.Duration) {
	c := strconv.Itoa(int(code))
	m.requestTotal.WithLabelValues(c, method).Inc()
	m.responseBytes.WithLabelValues(c, method).Add(float64(bytes))
	m.costHistogram.Observe(float64(cost.Microseconds()) / 1000)
}

// MetricsServer 在独立端口暴露 /metrics
type MetricsServer struct {
	addr   string
	logger logger.ILog
	server *http.Server

	lock     sync.Mutex
	listener net.Listener
}

func NewMetricsServer(addr string, metric *HttpMetric, log logger.ILog) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metric.Handler())
	return &MetricsServer{
		addr:   addr,
		logger: log,
		server: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
	}
}

func (s *MetricsServer) Name() string {
	return "METRICS_SERVER:" + s.addr
}

func (s *MetricsServer) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.lock.Lock()
	s.listener = listener
	s.lock.Unlock()

	safego.Go(func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("[metrics] serve failed. Error: %s", err.Error())
		}
	})
	s.logger.Info("[metrics] listening on %s", listener.Addr().String())
	return nil
}

func (s *MetricsServer) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *MetricsServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("[metrics] shutdown failed. Error: %s", err.Error())
	}
}
