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

package global

import (
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/pkg/syncx"
)

// DefaultResourceManger
// 用于守护进程的优雅退出，如HTTP Server、metrics server、crontab

type Resource interface {
	Close()
}

type DaemonResource interface {
	Resource
	Name() string
	Start() error
}

type packageResource struct {
	Resource
	DaemonResource
	order int
}

func (p *packageResource) Name() string {
	return "packageResource"
}

func (p *packageResource) Close() {
	if p.DaemonResource != nil {
		p.DaemonResource.Close()
	} else {
		p.Resource.Close()
	}
}

func (p *packageResource) Start() error {
	if p.DaemonResource != nil {
		return p.DaemonResource.Start()
	}
	return nil
}

func (p *packageResource) resourceName() string {
	if p.DaemonResource != nil {
		return p.DaemonResource.Name()
	}
	return p.Name()
}

type resourceManger struct {
	lock                sync.Locker
	resources           []Resource
	daemons             []DaemonResource
	pagePackageResource []packageResource
	running             bool
	sign                chan os.Signal
}

var DefaultResourceManger = NewResourceManger()

func NewResourceManger() *resourceManger {
	return &resourceManger{lock: syncx.NewSpinLock(), sign: make(chan os.Signal, 1)}
}

func (rm *resourceManger) Add(resource Resource) {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	for _, v := range rm.resources {
		if v == resource {
			return
		}
	}

	rm.resources = append(rm.resources, resource)
	rm.pagePackageResource = append(rm.pagePackageResource, packageResource{Resource: resource, order: 1000000000})
}

func (rm *resourceManger) AddDaemonWithOrder(daemon DaemonResource, order int) {
	rm.lock.Lock()
	defer rm.lock.Unlock()

	for _, v := range rm.daemons {
		if v == daemon {
			return
		}
	}

	rm.daemons = append(rm.daemons, daemon)
	rm.pagePackageResource = append(rm.pagePackageResource, packageResource{DaemonResource: daemon, order: order})
}

func (rm *resourceManger) AddDaemon(daemon DaemonResource) {
	rm.AddDaemonWithOrder(daemon, 100000)
}

// Signal 启动所有守护资源并阻塞，收到退出信号后按顺序关闭
func (rm *resourceManger) Signal() error {
	rm.lock.Lock()
	if rm.running {
		rm.lock.Unlock()
		return nil
	}
	rm.running = true

	sort.SliceStable(rm.pagePackageResource, func(i, j int) bool {
		return rm.pagePackageResource[i].order > rm.pagePackageResource[j].order
	})

	for i, resource := range rm.pagePackageResource {
		if err := resource.Start(); err != nil {
			logger.Fatal("Signal failed. Start '%s' resource failed. Error: %s", resource.resourceName(), err.Error())
			rm.destroy(rm.pagePackageResource[:i])
			rm.running = false
			rm.lock.Unlock()
			return err
		}
	}

	signal.Notify(rm.sign, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	rm.lock.Unlock()

	s := <-rm.sign
	signal.Stop(rm.sign)
	logger.Info("Accept signal %s. The application is shutting down...", s)

	rm.lock.Lock()
	defer rm.lock.Unlock()
	rm.destroy(rm.pagePackageResource)
	rm.running = false
	return nil
}

// Shutdown 模拟收到SIGTERM
func (rm *resourceManger) Shutdown() {
	select {
	case rm.sign <- syscall.SIGTERM:
	default:
	}
}

func (rm *resourceManger) destroy(resources []packageResource) {
	for _, resource := range resources {
		resource.Close()
	}
}
